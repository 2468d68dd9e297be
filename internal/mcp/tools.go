package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ganot/sheetd/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type projectInfo struct {
	ID          string `json:"id" jsonschema:"Project identifier"`
	Name        string `json:"name" jsonschema:"Project display name"`
	Details     string `json:"details,omitempty" jsonschema:"Project details"`
	RecordCount int    `json:"record_count" jsonschema:"Number of top-level records"`
	CreatedAt   string `json:"created_at" jsonschema:"Creation timestamp (RFC 3339)"`
	UpdatedAt   string `json:"updated_at" jsonschema:"Last modification timestamp (RFC 3339)"`
}

func summaryInfo(s project.Summary) projectInfo {
	return projectInfo{
		ID:        s.ID,
		Name:      s.Name,
		Details:   s.Details,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func fullInfo(p *project.Project) projectInfo {
	return projectInfo{
		ID:          p.ID,
		Name:        p.Name,
		Details:     p.Details,
		RecordCount: len(p.Records),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// projectResult returns the full project document as text content so
// clients get the normalized record tree verbatim.
func projectResult(p *project.Project) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []projectInfo `json:"projects" jsonschema:"All projects, without record trees"`
	Total    int           `json:"total" jsonschema:"Number of projects"`
}

type getProjectInput struct {
	ID string `json:"id" jsonschema:"required,Project identifier"`
}

type createProjectInput struct {
	Name        string `json:"name" jsonschema:"required,Project display name"`
	Details     string `json:"details,omitempty" jsonschema:"Project details"`
	RecordsJSON string `json:"records_json,omitempty" jsonschema:"Initial record tree as a JSON array string"`
}

type updateProjectInput struct {
	ID          string `json:"id" jsonschema:"required,Project identifier"`
	Name        string `json:"name,omitempty" jsonschema:"New project name (empty = unchanged)"`
	Details     string `json:"details,omitempty" jsonschema:"New details (empty = unchanged)"`
	RecordsJSON string `json:"records_json,omitempty" jsonschema:"Replacement record tree as a JSON array string (empty = unchanged)"`
}

type saveProjectInput struct {
	ID              string `json:"id" jsonschema:"required,Project identifier"`
	ProjectDataJSON string `json:"project_data_json" jsonschema:"required,Full project data to merge, as a JSON object string"`
}

type deleteProjectInput struct {
	ID string `json:"id" jsonschema:"required,Project identifier"`
}

type deleteProjectOutput struct {
	ID      string `json:"id" jsonschema:"Deleted project identifier"`
	Deleted bool   `json:"deleted" jsonschema:"Whether the project was removed"`
}

func registerTools(server *sdkmcp.Server, projects ProjectService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all measurement-sheet projects (metadata only, no record trees).",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		summaries, err := projects.List(ctx)
		if err != nil {
			return nil, listProjectsOutput{}, fmt.Errorf("listing projects: %w", err)
		}

		out := listProjectsOutput{Projects: make([]projectInfo, 0, len(summaries)), Total: len(summaries)}
		for _, s := range summaries {
			out.Projects = append(out.Projects, summaryInfo(s))
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project including its full, normalized record tree.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args getProjectInput) (*sdkmcp.CallToolResult, projectInfo, error) {
		proj, err := projects.Get(ctx, args.ID)
		if err != nil {
			return nil, projectInfo{}, err
		}
		res, err := projectResult(proj)
		if err != nil {
			return nil, projectInfo{}, err
		}
		return res, fullInfo(proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project. An optional initial record tree is normalized: missing record ids are assigned and siblings sorted by id.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args createProjectInput) (*sdkmcp.CallToolResult, projectInfo, error) {
		proj, err := projects.Create(ctx, project.CreateRequest{
			Name:    args.Name,
			Details: args.Details,
			Records: rawOrNil(args.RecordsJSON),
		})
		if err != nil {
			return nil, projectInfo{}, err
		}
		res, err := projectResult(proj)
		if err != nil {
			return nil, projectInfo{}, err
		}
		return res, fullInfo(proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Update a project's name, details, or record tree. Empty inputs leave the stored value untouched.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args updateProjectInput) (*sdkmcp.CallToolResult, projectInfo, error) {
		update := project.UpdateRequest{Records: rawOrNil(args.RecordsJSON)}
		if args.Name != "" {
			update.Name = &args.Name
		}
		if args.Details != "" {
			update.Details = &args.Details
		}

		proj, err := projects.Update(ctx, args.ID, update)
		if err != nil {
			return nil, projectInfo{}, err
		}
		res, err := projectResult(proj)
		if err != nil {
			return nil, projectInfo{}, err
		}
		return res, fullInfo(proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_project",
		Description: "Merge a full project document into an existing project (the whole-sheet save). Identity and creation time never change.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args saveProjectInput) (*sdkmcp.CallToolResult, projectInfo, error) {
		var data struct {
			Name    *string         `json:"name"`
			Details *string         `json:"details"`
			Records json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal([]byte(args.ProjectDataJSON), &data); err != nil {
			return nil, projectInfo{}, fmt.Errorf("project_data_json is not a JSON object: %w", err)
		}

		proj, err := projects.Save(ctx, args.ID, project.UpdateRequest{
			Name:    data.Name,
			Details: data.Details,
			Records: data.Records,
		})
		if err != nil {
			return nil, projectInfo{}, err
		}
		res, err := projectResult(proj)
		if err != nil {
			return nil, projectInfo{}, err
		}
		return res, fullInfo(proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project. The shrunk collection is persisted immediately.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args deleteProjectInput) (*sdkmcp.CallToolResult, deleteProjectOutput, error) {
		if err := projects.Delete(ctx, args.ID); err != nil {
			return nil, deleteProjectOutput{}, err
		}
		return nil, deleteProjectOutput{ID: args.ID, Deleted: true}, nil
	})
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
