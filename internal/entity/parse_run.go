package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ParseRun represents one engine invocation over a stored file.
type ParseRun struct {
	ID           uuid.UUID       `json:"id"`
	SourcePath   string          `json:"source_path"`
	Format       string          `json:"format"`
	ContentHash  []byte          `json:"content_hash"`
	Status       string          `json:"status"`
	CompanyCode  string          `json:"company_code,omitempty"`
	ItemCount    int             `json:"item_count"`
	NeedsReview  bool            `json:"needs_review"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}
