package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/ganot/sheetd/internal/domain/record"
	"github.com/ganot/sheetd/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store for SQLite. The collection contract is
// the same as the JSON file driver's: LoadAll returns everything with
// normalized record trees, SaveAll replaces the whole table in one
// transaction. The record tree is kept as a JSON column since its shape is
// open-ended.
type Store struct {
	db     *DB
	logger *slog.Logger
}

// NewStore creates a new Store
func NewStore(db *DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// LoadAll returns the full project collection in stored order.
func (s *Store) LoadAll(ctx context.Context) ([]project.Project, error) {
	query := `
		SELECT id, name, details, records, created_at, updated_at
		FROM projects
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		var proj project.Project
		var recordsJSON string
		err := rows.Scan(
			&proj.ID,
			&proj.Name,
			&proj.Details,
			&recordsJSON,
			&proj.CreatedAt,
			&proj.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		var recs []record.Record
		if err := json.Unmarshal([]byte(recordsJSON), &recs); err != nil {
			if s.logger != nil {
				s.logger.Warn("corrupt record tree, starting empty", "project", proj.ID, "error", err)
			}
			recs = []record.Record{}
		}
		proj.Records = record.Normalize(recs, record.NewID)

		projects = append(projects, proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// SaveAll replaces the persisted collection with the given one.
func (s *Store) SaveAll(ctx context.Context, projects []project.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	insert := `
		INSERT INTO projects (id, name, details, records, created_at, updated_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for i, proj := range projects {
		recs := proj.Records
		if recs == nil {
			recs = []record.Record{}
		}
		recordsJSON, err := json.Marshal(recs)
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}

		_, err = tx.ExecContext(ctx, insert,
			proj.ID,
			proj.Name,
			proj.Details,
			string(recordsJSON),
			proj.CreatedAt,
			proj.UpdatedAt,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
