package project

import (
	"time"

	"github.com/ganot/sheetd/internal/domain/record"
)

// Project is the top-level persisted entity: sheet metadata plus a tree of
// measurement records.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Details   string          `json:"details"`
	Records   []record.Record `json:"records"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Summary is the listing shape: project metadata without the record tree.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summarize strips a project down to its listing shape.
func Summarize(p Project) Summary {
	return Summary{
		ID:        p.ID,
		Name:      p.Name,
		Details:   p.Details,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
