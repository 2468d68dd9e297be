package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ganot/sheetd/internal/domain/record"
	"github.com/google/uuid"
)

// Service handles project operations. Every mutation is a read-modify-write
// cycle over the full collection; the mutex serializes those cycles so two
// concurrent writes cannot overwrite each other's changes.
type Service struct {
	store  Store
	logger *slog.Logger

	mu sync.Mutex
}

// NewService creates a new project service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateRequest defines project creation inputs. Records is the raw record
// tree from the request body; malformed input degrades to an empty tree.
type CreateRequest struct {
	Name    string
	Details string
	Records json.RawMessage
}

// UpdateRequest defines a partial project update. Nil fields are left
// untouched.
type UpdateRequest struct {
	Name    *string
	Details *string
	Records json.RawMessage
}

// List returns summaries of all projects, without record trees.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	summaries := make([]Summary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, Summarize(p))
	}
	return summaries, nil
}

// Get returns a full project, including its normalized records.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, ErrProjectNotFound
}

// Create creates a new project. The name is required and trimmed; records
// from the request are normalized before persisting.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	now := time.Now().UTC()
	proj := Project{
		ID:        uuid.NewString(),
		Name:      name,
		Details:   req.Details,
		Records:   record.NormalizeTree(req.Records, record.NewID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	projects = append(projects, proj)
	if err := s.store.SaveAll(ctx, projects); err != nil {
		return nil, fmt.Errorf("saving projects: %w", err)
	}

	return &proj, nil
}

// Update merges the provided fields into an existing project, refreshes
// its updatedAt timestamp, and persists the collection.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	return s.merge(ctx, id, req)
}

// Save applies a bulk project-data merge, the whole-sheet save operation.
// Identity and creation time are immutable; everything else merges like an
// update.
func (s *Service) Save(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	return s.merge(ctx, id, req)
}

func (s *Service) merge(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	idx := -1
	for i := range projects {
		if projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrProjectNotFound
	}

	proj := &projects[idx]
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			proj.Name = name
		}
	}
	if req.Details != nil {
		proj.Details = *req.Details
	}
	if req.Records != nil {
		proj.Records = record.NormalizeTree(req.Records, record.NewID)
	}
	proj.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveAll(ctx, projects); err != nil {
		return nil, fmt.Errorf("saving projects: %w", err)
	}

	updated := *proj
	return &updated, nil
}

// Delete removes a project and persists the shrunk collection immediately.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}

	remaining := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(projects) {
		return ErrProjectNotFound
	}

	if err := s.store.SaveAll(ctx, remaining); err != nil {
		return fmt.Errorf("saving projects: %w", err)
	}
	return nil
}
