package repository

import (
	"context"

	"github.com/ganot/sheetd/internal/domain/project"
)

// Store manages whole-collection project persistence. LoadAll returns the
// full collection with record trees normalized; a missing or unreadable
// backing document degrades to an empty collection. SaveAll replaces the
// persisted collection in one shot.
type Store interface {
	LoadAll(ctx context.Context) ([]project.Project, error)
	SaveAll(ctx context.Context, projects []project.Project) error
}
