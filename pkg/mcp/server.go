// Package mcp adapts the workflow runtime to a mark3labs/mcp-go server: it
// owns the live tool table, the meta-tools, sampling and the transports.
package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/activation"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/classifier"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/expressions"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/logging"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/store"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/telemetry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/validation"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Mode selects which meta-tools the server exposes.
type Mode string

const (
	// ModeDynamic exposes discover_tools and manage_workflows.
	ModeDynamic Mode = "dynamic"
	// ModeStatic activates configured workflows at start and exposes no
	// activation tools.
	ModeStatic Mode = "static"
)

// Meta-tool names.
const (
	ToolDiscover = "discover_tools"
	ToolManage   = "manage_workflows"
	ToolList     = "list_workflows"
	ToolHistory  = "activation_history"
)

// ServerDeps holds the dependencies for creating a Server.
type ServerDeps struct {
	Registry  *registry.Registry
	Engines   *expressions.Set
	History   store.Store
	Validator validation.Validator
	// Executor runs the external commands of workflow tools. Nil uses the
	// process executor.
	Executor  command.Executor
	Telemetry *telemetry.Telemetry
	Logger    *slog.Logger

	Mode              Mode
	Version           string
	SamplingMaxTokens int
}

type schemaChecker interface {
	CheckSchema(raw []byte) error
}

// Server wraps an MCP server with the workflow runtime.
type Server struct {
	registry   *registry.Registry
	engines    *expressions.Set
	history    store.Store
	validator  validation.Validator
	executor   command.Executor
	logger     *slog.Logger
	mode       Mode
	activator  *activation.Activator
	classifier *classifier.Classifier
	mcpServer  *server.MCPServer
}

const instructions = "XcodeBuildMCP exposes Xcode, simulator, device and Swift package tooling grouped into workflows. " +
	"Only a few workflows are active at a time. Call discover_tools with a description of your task to enable the right ones, " +
	"or manage_workflows with explicit workflow ids. list_workflows shows every workflow and whether it is active."

// NewServer creates a Server with its meta-tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Registry == nil {
		return nil, errors.New("mcp: registry is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if deps.Mode == "" {
		deps.Mode = ModeDynamic
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	if deps.Validator == nil {
		deps.Validator = validation.NewJSONSchemaValidator()
	}
	if deps.Engines == nil {
		engines, err := expressions.NewSet()
		if err != nil {
			return nil, err
		}
		deps.Engines = engines
	}

	s := &Server{
		registry:  deps.Registry,
		engines:   deps.Engines,
		history:   deps.History,
		validator: deps.Validator,
		executor:  deps.Executor,
		logger:    logger,
		mode:      deps.Mode,
	}

	mcpSrv := server.NewMCPServer(
		"xcodebuildmcp",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	if s.mode == ModeDynamic {
		mcpSrv.EnableSampling()
	}
	s.mcpServer = mcpSrv

	metaTools := s.tools()
	reserved := make([]string, len(metaTools))
	for i, t := range metaTools {
		reserved[i] = t.Tool.Name
	}
	var recorder activation.HistoryRecorder
	if s.history != nil {
		recorder = s.history
	}
	s.activator = activation.New(deps.Registry, nil, activation.Options{
		Logger:    logger,
		History:   recorder,
		Telemetry: deps.Telemetry,
		Reserved:  reserved,
	})
	s.classifier = classifier.New(s.activator, s, classifier.Options{
		MaxTokens: deps.SamplingMaxTokens,
		Logger:    logger,
		Telemetry: deps.Telemetry,
		Validator: deps.Validator,
	})

	mcpSrv.AddTools(metaTools...)
	return s, nil
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Activator returns the server's activator.
func (s *Server) Activator() *activation.Activator {
	return s.activator
}

// ActivateAtStartup activates ids additively before any client connects.
// An empty list activates every workflow.
func (s *Server) ActivateAtStartup(ctx context.Context, ids []string) *activation.Outcome {
	if len(ids) == 0 {
		ids = s.registry.IDs()
	}
	return s.activator.Run(ctx, s, activation.Request{
		IDs:      ids,
		Additive: true,
		Source:   schema.SourceStartup,
	})
}

// --- activation.ToolServer ---

// Register installs a workflow tool on the live server.
func (s *Server) Register(t *schema.Tool) error {
	if t == nil || t.Name == "" {
		return schema.NewError(schema.ErrCodeRegistrationFailed, "tool has no name")
	}
	raw := t.Schema
	if len(raw) == 0 {
		raw = []byte(schema.EmptyObjectSchema)
	}
	if checker, ok := s.validator.(schemaChecker); ok {
		if err := checker.CheckSchema(raw); err != nil {
			return schema.NewErrorf(schema.ErrCodeRegistrationFailed, "tool %s has an invalid schema", t.Name).WithCause(err)
		}
	}
	s.mcpServer.AddTools(server.ServerTool{
		Tool:    mcp.NewToolWithRawSchema(t.Name, t.Description, raw),
		Handler: s.wrap(t, raw),
	})
	return nil
}

// Deregister removes workflow tools from the live server.
func (s *Server) Deregister(names ...string) error {
	s.mcpServer.DeleteTools(names...)
	return nil
}

// NotifyListChanged tells every connected client to refetch the tool list.
func (s *Server) NotifyListChanged(context.Context) error {
	s.mcpServer.SendNotificationToAllClients(mcp.MethodNotificationToolsListChanged, nil)
	return nil
}

// wrap adapts a workflow tool handler to mcp-go: arguments are validated
// against the tool's schema and every failure becomes a tool error result.
func (s *Server) wrap(t *schema.Tool, raw []byte) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = s.requestContext(ctx)
		args := req.GetArguments()
		if err := s.validator.ValidateArgs(args, raw); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if s.executor != nil {
			ctx = command.WithExecutor(ctx, s.executor)
		}

		start := time.Now()
		resp, err := t.Handler(ctx, schema.Args(args))
		s.logger.DebugContext(ctx, "tool call",
			slog.String("tool", t.Name),
			slog.Duration("duration", time.Since(start)),
			slog.Bool("error", err != nil || (resp != nil && resp.IsError)),
		)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if resp == nil {
			return mcp.NewToolResultText(""), nil
		}
		if resp.IsError {
			return mcp.NewToolResultError(resp.Text), nil
		}
		return mcp.NewToolResultText(resp.Text), nil
	}
}

// requestContext attaches the client session id for log correlation.
func (s *Server) requestContext(ctx context.Context) context.Context {
	if session := server.ClientSessionFromContext(ctx); session != nil {
		ctx = logging.WithSessionID(ctx, session.SessionID())
	}
	return ctx
}

// --- Transports ---

// ServeStdio serves over in/out and blocks until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, in, out)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sse transport listening", slog.String("addr", addr), slog.String("base_url", baseURL))
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}
