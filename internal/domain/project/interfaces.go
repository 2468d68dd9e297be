package project

import "context"

// Store provides whole-collection persistence for projects. Loads return
// the full collection with every record tree already normalized; saves
// replace the persisted collection outright.
type Store interface {
	LoadAll(ctx context.Context) ([]Project, error)
	SaveAll(ctx context.Context, projects []Project) error
}
