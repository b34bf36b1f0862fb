// Package airtableclient is a thin REST adapter over the Airtable API.
// Airtable publishes no Go SDK, so this wraps the two endpoints the sync
// flow needs: base table metadata and paginated record listing.
package airtableclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	pageSize       = 100
)

type Adapter struct {
	baseURL string
	http    *http.Client
	// Airtable enforces 5 requests/sec per base; stay under it.
	limiter *rate.Limiter
}

func NewAdapter(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(4), 4),
	}
}

// ListTables returns the tables of a base via the metadata API.
func (a *Adapter) ListTables(ctx context.Context, token, baseID string) ([]dto.AirtableTable, error) {
	var body struct {
		Tables []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Fields []struct {
				Name string `json:"name"`
			} `json:"fields"`
		} `json:"tables"`
	}
	u := fmt.Sprintf("%s/meta/bases/%s/tables", a.baseURL, url.PathEscape(baseID))
	if err := a.get(ctx, token, u, &body); err != nil {
		return nil, err
	}

	tables := make([]dto.AirtableTable, 0, len(body.Tables))
	for _, t := range body.Tables {
		fields := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			fields = append(fields, f.Name)
		}
		tables = append(tables, dto.AirtableTable{ID: t.ID, Name: t.Name, Fields: fields})
	}
	return tables, nil
}

// ListRecords fetches one page of records; pass the returned offset to get
// the next page, empty offset means done.
func (a *Adapter) ListRecords(ctx context.Context, token, baseID, tableID, offset string) (dto.AirtableRecordPage, error) {
	var body struct {
		Records []struct {
			ID     string         `json:"id"`
			Fields map[string]any `json:"fields"`
		} `json:"records"`
		Offset string `json:"offset"`
	}

	q := url.Values{}
	q.Set("pageSize", fmt.Sprint(pageSize))
	if offset != "" {
		q.Set("offset", offset)
	}
	u := fmt.Sprintf("%s/%s/%s?%s", a.baseURL, url.PathEscape(baseID), url.PathEscape(tableID), q.Encode())

	var page dto.AirtableRecordPage
	if err := a.get(ctx, token, u, &body); err != nil {
		return page, err
	}
	page.Offset = body.Offset
	page.Records = make([]dto.AirtableRecord, 0, len(body.Records))
	for _, r := range body.Records {
		page.Records = append(page.Records, dto.AirtableRecord{ID: r.ID, Fields: r.Fields})
	}
	return page, nil
}

func (a *Adapter) get(ctx context.Context, token, url string, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewExternalServiceError("airtable", "request failed: "+err.Error(), true, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errs.NewValidationError("airtable token rejected")
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewNotFoundError("airtable resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return errs.NewExternalServiceError("airtable", "rate limited", true, nil)
	case resp.StatusCode != http.StatusOK:
		return errs.NewExternalServiceError("airtable",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), resp.StatusCode >= 500, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewExternalServiceError("airtable", "malformed response: "+err.Error(), false, err)
	}
	return nil
}
