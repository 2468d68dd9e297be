package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/ganot/sheetd/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	store, err := New(path, nil)
	require.NoError(t, err)
	return store, path
}

func TestStore_LoadMissingFileReturnsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	projects, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, projects)
	require.Empty(t, projects)
}

func TestStore_LoadCorruptFileReturnsEmpty(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))

	projects, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestStore_SaveThenLoadRoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []project.Project{{
		ID:        "p1",
		Name:      "Kitchen",
		Details:   "ground floor",
		Records:   []record.Record{{ID: "r1", Seq: record.SeqOf(1)}},
		CreatedAt: now,
		UpdatedAt: now,
	}}

	require.NoError(t, store.SaveAll(ctx, in))

	// File is created and holds a JSON array.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic []map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	require.Len(t, generic, 1)

	out, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestStore_SaveNilWritesEmptyArray(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.SaveAll(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestStore_LoadNormalizesStaleRecords(t *testing.T) {
	store, path := newTestStore(t)

	// A document written by an older client: record without id, siblings
	// out of id order.
	doc := `[{
		"id": "p1",
		"name": "Kitchen",
		"details": "",
		"records": [{"id":"zz"}, {"id":"aa"}, {"desc":"no id yet"}],
		"createdAt": "2026-03-01T12:00:00Z",
		"updatedAt": "2026-03-01T12:00:00Z"
	}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	projects, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)

	recs := projects[0].Records
	require.Len(t, recs, 3)
	for _, rec := range recs {
		require.NotEmpty(t, rec.ID)
	}
	for i := 1; i < len(recs); i++ {
		require.Less(t, recs[i-1].ID, recs[i].ID)
	}
}

func TestStore_SaveReplacesWholeCollection(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []project.Project{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}))
	require.NoError(t, store.SaveAll(ctx, []project.Project{{ID: "p2", Name: "B"}}))

	projects, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "p2", projects[0].ID)
}
