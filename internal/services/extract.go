package services

import (
	"context"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/extract"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

const extractSystemPrompt = `You extract tables from raw document text.
Respond with JSON only, no prose and no code fences, in the shape
{"tables":[{"page":1,"rows":[["Header","Header"],["cell","cell"]]}]}.
The first row of each table is its header row. If the text has page
markers, set each table's page number accordingly. If no tables are
present respond with {"tables":[]}.`

type extractModel interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type extractService struct {
	model extractModel
}

// NewExtractService builds the extraction pipeline. model may be nil, in
// which case only the heuristic parser runs.
func NewExtractService(model extractModel) *extractService {
	return &extractService{model: model}
}

// ExtractTables never fails: when the model path errors or emits
// undecodable output, the heuristic parser takes over, and an empty table
// list is a valid answer.
func (s *extractService) ExtractTables(ctx context.Context, text string) dto.ExtractTablesResponse {
	log := logger.FromContext(ctx)

	if s.model != nil {
		resp, err := s.model.GenerateContent(ctx, dto.VertexGenerateRequest{
			System:      extractSystemPrompt,
			UserMessage: text,
		})
		if err == nil {
			if tables, ok := extract.ParseModelOutput(resp.Text); ok {
				if tables == nil {
					tables = []extract.Table{}
				}
				return dto.ExtractTablesResponse{Tables: tables}
			}
			log.Warn("model output not decodable, falling back to heuristic parser")
		} else {
			log.Warn("model extraction failed, falling back to heuristic parser", "error", err)
		}
	}

	tables := extract.Fallback(text)
	if tables == nil {
		tables = []extract.Table{}
	}
	return dto.ExtractTablesResponse{Tables: tables}
}
