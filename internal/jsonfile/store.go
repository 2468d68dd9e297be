// Package jsonfile persists the project collection as a single JSON
// document on disk. It is the default store driver.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/ganot/sheetd/internal/domain/record"
	"github.com/ganot/sheetd/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store over a single JSON file. A missing or
// unparseable file loads as an empty collection so reads degrade
// gracefully; saves replace the whole document atomically.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store backed by the JSON document at path. The file is
// created on first save.
func New(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return &Store{path: path, logger: logger}, nil
}

// LoadAll reads the full project collection. Every project's record tree
// is normalized on the way out, so stale documents self-heal on read.
func (s *Store) LoadAll(ctx context.Context) ([]project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Warn("unreadable project store, starting empty", "path", s.path, "error", err)
		}
		return []project.Project{}, nil
	}

	var projects []project.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		if s.logger != nil {
			s.logger.Warn("corrupt project store, starting empty", "path", s.path, "error", err)
		}
		return []project.Project{}, nil
	}
	if projects == nil {
		projects = []project.Project{}
	}

	for i := range projects {
		projects[i].Records = record.Normalize(projects[i].Records, record.NewID)
	}
	return projects, nil
}

// SaveAll overwrites the persisted collection. The document is written to
// a temp file and renamed into place so readers never see a torn write.
func (s *Store) SaveAll(ctx context.Context, projects []project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if projects == nil {
		projects = []project.Project{}
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding projects: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".projects-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing projects: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
