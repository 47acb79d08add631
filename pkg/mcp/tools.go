package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/store"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// tools returns the meta-tools for the server's mode.
func (s *Server) tools() []server.ServerTool {
	var tools []server.ServerTool
	if s.mode == ModeDynamic {
		tools = append(tools,
			server.ServerTool{Tool: discoverTool(), Handler: s.handleDiscover},
			server.ServerTool{Tool: manageTool(), Handler: s.handleManage},
		)
	}
	tools = append(tools, server.ServerTool{Tool: listTool(), Handler: s.handleList})
	if s.history != nil {
		tools = append(tools, server.ServerTool{Tool: historyTool(), Handler: s.handleHistory})
	}
	return tools
}

// --- Tool definitions ---

func discoverTool() mcp.Tool {
	return mcp.NewTool(ToolDiscover,
		mcp.WithDescription("Describe your task and let the server enable the most relevant workflow of tools"),
		mcp.WithString("taskDescription", mcp.Required(),
			mcp.Description("What you are trying to do, e.g. \"build and run my iOS app from MyApp.xcworkspace on the simulator\""),
		),
		mcp.WithBoolean("additive", mcp.Description("Keep the currently enabled tools and add to them (default: replace)")),
	)
}

func manageTool() mcp.Tool {
	return mcp.NewTool(ToolManage,
		mcp.WithDescription("Enable workflows of tools by id"),
		mcp.WithArray("workflowIds", mcp.Required(), mcp.WithStringItems(),
			mcp.Description("Workflow ids to enable; see list_workflows"),
		),
		mcp.WithBoolean("additive", mcp.Description("Keep the currently enabled tools and add to them (default: replace)")),
	)
}

func listTool() mcp.Tool {
	return mcp.NewTool(ToolList,
		mcp.WithDescription("List available workflows and whether they are active"),
		mcp.WithString("filter", mcp.Description("Boolean expression over `workflow`, e.g. \"iOS\" in workflow.platforms")),
		mcp.WithString("language", mcp.Enum("cel", "expr"), mcp.Description("Filter language (default: cel)")),
		mcp.WithString("projection", mcp.Description("jq program applied to the array of matching workflows")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func historyTool() mcp.Tool {
	return mcp.NewTool(ToolHistory,
		mcp.WithDescription("Show recent workflow activations, newest first"),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Max(maxHistoryLimit), mcp.Description("Maximum records to return (default: 20)")),
		mcp.WithString("workflowId", mcp.Description("Only activations that requested this workflow")),
		mcp.WithString("source", mcp.Enum("direct", "classifier", "startup"), mcp.Description("Only activations from this source")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// --- Handlers ---

// handleDiscover classifies a task description and activates the result.
func (s *Server) handleDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx)
	task := strings.TrimSpace(req.GetString("taskDescription", ""))
	additive := req.GetBool("additive", false)

	resp := s.classifier.Classify(ctx, s, task, additive)
	if resp.IsError() {
		return mcp.NewToolResultError(resp.Text), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

// handleManage activates workflows by id.
func (s *Server) handleManage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx)
	ids, err := req.RequireStringSlice("workflowIds")
	if err != nil {
		return mcp.NewToolResultError("workflowIds is required"), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("workflowIds must name at least one workflow; available: %s",
			strings.Join(s.registry.IDs(), ", "))), nil
	}
	additive := req.GetBool("additive", false)

	out := s.activator.Activate(ctx, s, ids, additive)
	if len(out.Activated) == 0 {
		text := out.Summary()
		if len(out.Unknown) > 0 {
			text += fmt.Sprintf("\nAvailable workflows: %s.", strings.Join(s.registry.IDs(), ", "))
		}
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(out.Summary()), nil
}

// workflowView is a descriptor annotated with its activation state.
type workflowView struct {
	schema.WorkflowDescriptor
	Active bool `json:"active"`
}

// handleList lists workflows, optionally filtered and projected.
func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := s.activator.Active()
	q := registry.Query{
		Filter:     req.GetString("filter", ""),
		Language:   req.GetString("language", ""),
		Projection: req.GetString("projection", ""),
		Annotate: func(id string, m map[string]any) {
			m["active"] = active.WorkflowActive(id)
		},
	}
	if q.Filter == "" && q.Projection == "" {
		views := make([]workflowView, 0, s.registry.Len())
		for _, d := range s.registry.Descriptors() {
			views = append(views, workflowView{WorkflowDescriptor: d, Active: active.WorkflowActive(d.ID)})
		}
		return marshalResult(views)
	}

	result, err := s.registry.Query(ctx, s.engines, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return marshalResult(result)
}

// handleHistory returns recent activation records.
func (s *Server) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	records, err := s.history.ListActivations(ctx, store.ActivationFilter{
		Source:     req.GetString("source", ""),
		WorkflowID: req.GetString("workflowId", ""),
		Limit:      limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list activations: %v", err)), nil
	}
	if records == nil {
		records = []*store.ActivationRecord{}
	}
	return marshalResult(records)
}

// --- Helpers ---

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
