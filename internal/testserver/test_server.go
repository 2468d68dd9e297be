package testserver

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ganot/sheetd/internal/domain/project"
	"github.com/ganot/sheetd/internal/httpapi"
	"github.com/ganot/sheetd/internal/jsonfile"
	"github.com/stretchr/testify/require"
)

// TestServer is a REST server over a throwaway JSON file store.
type TestServer struct {
	Server    *httptest.Server
	StorePath string
	Projects  *project.Service
}

func New(t *testing.T) *TestServer {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "projects.json")
	store, err := jsonfile.New(storePath, nil)
	require.NoError(t, err)

	projectSvc := project.NewService(store, nil)

	api, err := httpapi.NewServer(projectSvc, nil, nil)
	require.NoError(t, err)

	server := httptest.NewServer(api)

	ts := &TestServer{
		Server:    server,
		StorePath: storePath,
		Projects:  projectSvc,
	}

	t.Cleanup(server.Close)

	return ts
}

// URL returns the base URL of the running server.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}
