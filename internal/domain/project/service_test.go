package project_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/ganot/sheetd/internal/domain/record"
	"github.com/ganot/sheetd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	svc := project.NewService(store, nil)

	_, err := svc.Create(ctx, project.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	// The store must not be touched on validation failure.
	store.AssertNotCalled(t, "LoadAll", mock.Anything)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestProjectService_CreateDefaults(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{}, nil)
	store.On("SaveAll", ctx, mock.Anything).Return(nil)

	svc := project.NewService(store, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{Name: "Kitchen"})
	require.NoError(t, err)

	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Kitchen", proj.Name)
	require.Empty(t, proj.Details)
	require.NotNil(t, proj.Records)
	require.Empty(t, proj.Records)
	require.Equal(t, proj.CreatedAt, proj.UpdatedAt)
}

func TestProjectService_CreateNormalizesRecords(t *testing.T) {
	ctx := context.Background()

	var saved []project.Project
	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{}, nil)
	store.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]project.Project)
	}).Return(nil)

	svc := project.NewService(store, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		Name:    "Site A",
		Records: json.RawMessage(`[{"sn":"3"},{"sn":"1"}]`),
	})
	require.NoError(t, err)

	require.Len(t, proj.Records, 2)
	require.NotEmpty(t, proj.Records[0].ID)
	require.NotEmpty(t, proj.Records[1].ID)
	require.Less(t, proj.Records[0].ID, proj.Records[1].ID)

	// Coerced to native integers, in generated-id order rather than sn order.
	seqs := []record.SeqNum{proj.Records[0].Seq, proj.Records[1].Seq}
	require.ElementsMatch(t, []record.SeqNum{record.SeqOf(3), record.SeqOf(1)}, seqs)

	require.Len(t, saved, 1)
	require.Equal(t, proj.ID, saved[0].ID)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{{ID: "other"}}, nil)

	svc := project.NewService(store, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_UpdateMergesProvidedFieldsOnly(t *testing.T) {
	ctx := context.Background()

	created := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	existing := project.Project{
		ID:        "p1",
		Name:      "Kitchen",
		Details:   "old",
		Records:   []record.Record{{ID: "r1"}},
		CreatedAt: created,
		UpdatedAt: created,
	}

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{existing}, nil)
	store.On("SaveAll", ctx, mock.Anything).Return(nil)

	svc := project.NewService(store, nil)
	details := "new"
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Details: &details})
	require.NoError(t, err)

	require.Equal(t, "Kitchen", updated.Name)
	require.Equal(t, "new", updated.Details)
	require.Equal(t, existing.Records, updated.Records)
	require.Equal(t, created, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(created))
}

func TestProjectService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{}, nil)

	svc := project.NewService(store, nil)
	_, err := svc.Update(ctx, "missing", project.UpdateRequest{})
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestProjectService_SaveReplacesRecordTree(t *testing.T) {
	ctx := context.Background()

	existing := project.Project{ID: "p1", Name: "Kitchen", CreatedAt: time.Now().UTC()}

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{existing}, nil)
	store.On("SaveAll", ctx, mock.Anything).Return(nil)

	svc := project.NewService(store, nil)
	merged, err := svc.Save(ctx, "p1", project.UpdateRequest{
		Records: json.RawMessage(`[{"id":"b"},{"id":"a"}]`),
	})
	require.NoError(t, err)

	require.Equal(t, "p1", merged.ID)
	require.Equal(t, existing.CreatedAt, merged.CreatedAt)
	require.Len(t, merged.Records, 2)
	require.Equal(t, "a", merged.Records[0].ID)
	require.Equal(t, "b", merged.Records[1].ID)
}

func TestProjectService_DeleteLastProject(t *testing.T) {
	ctx := context.Background()

	var saved []project.Project
	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{{ID: "p1", Name: "Only"}}, nil)
	store.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]project.Project)
	}).Return(nil)

	svc := project.NewService(store, nil)
	require.NoError(t, svc.Delete(ctx, "p1"))
	require.Empty(t, saved)
}

func TestProjectService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return([]project.Project{}, nil)

	svc := project.NewService(store, nil)
	err := svc.Delete(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestProjectService_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("disk full")
	store := &mocks.Store{}
	store.On("LoadAll", ctx).Return(nil, boom)

	svc := project.NewService(store, nil)
	_, err := svc.List(ctx)
	require.ErrorIs(t, err, boom)
}
