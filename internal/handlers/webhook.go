package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gridbase/sheets-backend/internal/dto"
)

// maxWebhookBody caps webhook payload reads.
const maxWebhookBody = 1 << 20

type WebhookUserService interface {
	CreateUser(ctx context.Context, data dto.IdentityUserData) error
	UpdateUser(ctx context.Context, data dto.IdentityUserData) error
	DeleteUser(ctx context.Context, uid string) error
}

type webhookHandlers struct {
	Log     *slog.Logger
	UserSvc WebhookUserService
	Secret  string
}

func NewWebhookHandlers(deps *Deps) *webhookHandlers {
	return &webhookHandlers{
		Log:     deps.Log,
		UserSvc: deps.WebhookUserSvc,
		Secret:  deps.WebhookSecret,
	}
}

// HandleIdentityWebhook processes the identity provider's user lifecycle
// events. The provider only cares about the status code: anything but 2xx
// is retried, so unknown event types are acknowledged and logged rather
// than failed.
func (h *webhookHandlers) HandleIdentityWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.Log.Error("failed to read webhook body", "error", err)
		http.Error(w, "Error occured", http.StatusInternalServerError)
		return
	}

	if h.Secret != "" && !verifySignature(h.Secret, r.Header, body) {
		h.Log.Warn("webhook signature verification failed")
		http.Error(w, "Error occured", http.StatusInternalServerError)
		return
	}

	var event dto.IdentityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.Log.Error("failed to decode webhook event", "error", err)
		http.Error(w, "Error occured", http.StatusInternalServerError)
		return
	}

	if err := h.dispatch(r.Context(), event); err != nil {
		h.Log.Error("failed to process webhook event", "type", event.Type, "error", err)
		http.Error(w, "Error occured", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *webhookHandlers) dispatch(ctx context.Context, event dto.IdentityEvent) error {
	switch event.Type {
	case "user.created", "user.updated":
		var data dto.IdentityUserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if event.Type == "user.created" {
			return h.UserSvc.CreateUser(ctx, data)
		}
		return h.UserSvc.UpdateUser(ctx, data)
	case "user.deleted":
		var data dto.IdentityUserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		return h.UserSvc.DeleteUser(ctx, data.ID)
	default:
		h.Log.Info("ignoring webhook event", "type", event.Type)
		return nil
	}
}

// verifySignature checks the svix-style HMAC the identity provider signs
// deliveries with: base64(HMAC-SHA256(secret, "{id}.{timestamp}.{body}"))
// where the signature header holds space-separated "v1,<sig>" entries.
func verifySignature(secret string, header http.Header, body []byte) bool {
	id := header.Get("svix-id")
	timestamp := header.Get("svix-timestamp")
	signatures := header.Get("svix-signature")
	if id == "" || timestamp == "" || signatures == "" {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, part := range strings.Fields(signatures) {
		_, sig, found := strings.Cut(part, ",")
		if found && hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}
