// Package mcp exposes the project operations as MCP tools, so agent
// clients can work a measurement sheet over stdio.
package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/sheetd/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Summary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Save(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// Config contains server configuration.
type Config struct {
	Projects ProjectService
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sheetd",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Projects)

	return server
}

const serverInstructions = `sheetd manages measurement-sheet projects. Each project holds a
tree of measurement records; records and their nested sub-records are kept
sorted by identifier, and missing identifiers are assigned automatically.

Use list_projects to see what exists, get_project for the full record
tree, and create/update/save/delete to change it. Tools that accept a
record tree take it as a JSON array string; unknown record fields are
preserved as-is.`
