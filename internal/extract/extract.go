// Package extract turns raw document text into tables: first by parsing
// the JSON a model was asked to emit, and failing that by a heuristic
// line parser tuned to page-marked, space-aligned report dumps.
package extract

import (
	"encoding/json"
	"strings"
)

// Table is one extracted table. Rows include the header row.
type Table struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

type tablesEnvelope struct {
	Tables []Table `json:"tables"`
}

// ParseModelOutput decodes the model's response text into tables. It
// tolerates code fences and either a bare array or a {"tables": []}
// envelope. ok is false when nothing decodable was found.
func ParseModelOutput(text string) ([]Table, bool) {
	text = stripCodeFences(text)
	if text == "" {
		return nil, false
	}

	var env tablesEnvelope
	if err := json.Unmarshal([]byte(text), &env); err == nil && env.Tables != nil {
		return env.Tables, true
	}
	var tables []Table
	if err := json.Unmarshal([]byte(text), &tables); err == nil {
		return tables, true
	}
	return nil, false
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
