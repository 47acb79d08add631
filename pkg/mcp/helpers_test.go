package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// --- Test workflows ---

var listSims = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "list_sims",
		Description: "Lists simulators.",
		Handler: func(ctx context.Context, _ schema.Args) (*schema.Response, error) {
			res, err := command.FromContext(ctx).Run(ctx, command.Request{Name: "xcrun", Args: []string{"simctl", "list"}})
			if err != nil {
				return nil, err
			}
			return schema.Text("simulators: %s", res.Stdout), nil
		},
	}
})

var buildSim = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "build_sim",
		Description: "Builds for a simulator.",
		Schema: []byte(`{
  "type": "object",
  "properties": {"scheme": {"type": "string"}},
  "required": ["scheme"]
}`),
		Handler: func(_ context.Context, args schema.Args) (*schema.Response, error) {
			scheme := args.String("scheme", "")
			if scheme == "Broken" {
				return schema.Failure("Build failed for %s", scheme), nil
			}
			if scheme == "Panic" {
				return nil, errors.New("xcodebuild exploded")
			}
			return schema.Text("Built %s", scheme), nil
		},
	}
})

var buildMac = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{Name: "build_mac", Description: "Builds a macOS app."}
})

func testRegistry() *registry.Registry {
	module := func(decl schema.Declaration, factories map[string]schema.ToolFactory) schema.LoaderFunc {
		return func(context.Context) (*schema.Module, error) {
			return schema.Assemble(decl, factories)
		}
	}
	loaders := map[string]schema.LoaderFunc{
		"simulator-workspace": module(schema.Declaration{Name: "Simulator"}, map[string]schema.ToolFactory{
			"ListSims": listSims,
			"BuildSim": buildSim,
		}),
		"macos-workspace": module(schema.Declaration{Name: "macOS"}, map[string]schema.ToolFactory{
			"BuildMac": buildMac,
			"ListSims": listSims,
		}),
		"broken": func(context.Context) (*schema.Module, error) {
			return nil, errors.New("boom")
		},
	}
	metadata := map[string]schema.WorkflowDescriptor{
		"simulator-workspace": {
			ID: "simulator-workspace", DisplayName: "Simulator",
			Description: "Build and run iOS apps on simulators from workspaces.",
			Platforms:   []string{"iOS"}, Targets: []string{"simulator"}, ProjectTypes: []string{"workspace"},
		},
		"macos-workspace": {
			ID: "macos-workspace", DisplayName: "macOS",
			Description: "Build and run macOS apps from workspaces.",
			Platforms:   []string{"macOS"}, ProjectTypes: []string{"workspace"},
		},
		"broken": {ID: "broken", DisplayName: "Broken", Description: "Always fails to load."},
	}
	return registry.New(loaders, metadata)
}

// --- Fake client session ---

type fakeSession struct {
	id            string
	notifications chan mcp.JSONRPCNotification
	initialized   atomic.Bool

	mu      sync.Mutex
	info    mcp.Implementation
	caps    mcp.ClientCapabilities
	reply   any
	err     error
	prompts []mcp.CreateMessageRequest
}

func newFakeSession(id string, sampling bool) *fakeSession {
	s := &fakeSession{id: id, notifications: make(chan mcp.JSONRPCNotification, 64)}
	if sampling {
		s.caps.Sampling = &struct{}{}
	}
	s.initialized.Store(true)
	return s
}

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) Initialize()       { s.initialized.Store(true) }
func (s *fakeSession) Initialized() bool { return s.initialized.Load() }

func (s *fakeSession) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return s.notifications
}

func (s *fakeSession) GetClientInfo() mcp.Implementation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *fakeSession) SetClientInfo(info mcp.Implementation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

func (s *fakeSession) GetClientCapabilities() mcp.ClientCapabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

func (s *fakeSession) SetClientCapabilities(caps mcp.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caps = caps
}

func (s *fakeSession) RequestSampling(_ context.Context, req mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req)
	if s.err != nil {
		return nil, s.err
	}
	return &mcp.CreateMessageResult{
		SamplingMessage: mcp.SamplingMessage{Role: mcp.RoleAssistant, Content: s.reply},
		Model:           "test-model",
	}, nil
}

func (s *fakeSession) samplingRequests() []mcp.CreateMessageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mcp.CreateMessageRequest(nil), s.prompts...)
}

// listChanged drains pending notifications and counts tools/list_changed.
func (s *fakeSession) listChanged() int {
	n := 0
	for {
		select {
		case note := <-s.notifications:
			if note.Method == mcp.MethodNotificationToolsListChanged {
				n++
			}
		default:
			return n
		}
	}
}

// --- Harness ---

type harness struct {
	t       *testing.T
	server  *Server
	session *fakeSession
	ctx     context.Context
	nextID  int
}

func newHarness(t *testing.T, deps ServerDeps, sampling bool) *harness {
	t.Helper()
	if deps.Registry == nil {
		deps.Registry = testRegistry()
	}
	s, err := NewServer(deps)
	require.NoError(t, err)

	session := newFakeSession("session-1", sampling)
	require.NoError(t, s.MCPServer().RegisterSession(context.Background(), session))
	ctx := s.MCPServer().WithContext(context.Background(), session)
	return &harness{t: t, server: s, session: session, ctx: ctx}
}

type toolResult struct {
	Text    string
	IsError bool
}

// call invokes a tool through the JSON-RPC surface.
func (h *harness) call(name string, args map[string]any) toolResult {
	h.t.Helper()
	h.nextID++
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      h.nextID,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(h.t, err)

	resp := h.server.MCPServer().HandleMessage(h.ctx, raw)
	data, err := json.Marshal(resp)
	require.NoError(h.t, err)

	var decoded struct {
		Result *struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(h.t, json.Unmarshal(data, &decoded))
	if decoded.Error != nil {
		h.t.Fatalf("tools/call %s: protocol error %d: %s", name, decoded.Error.Code, decoded.Error.Message)
	}
	require.NotNil(h.t, decoded.Result)

	out := toolResult{IsError: decoded.Result.IsError}
	for _, c := range decoded.Result.Content {
		if c.Type == "text" {
			out.Text += c.Text
		}
	}
	return out
}

// listTools returns the tool names the client would see.
func (h *harness) listTools() []string {
	h.t.Helper()
	h.nextID++
	raw := []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"tools/list"}`, h.nextID))
	resp := h.server.MCPServer().HandleMessage(h.ctx, raw)
	data, err := json.Marshal(resp)
	require.NoError(h.t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(h.t, json.Unmarshal(data, &decoded))
	names := make([]string, len(decoded.Result.Tools))
	for i, tool := range decoded.Result.Tools {
		names[i] = tool.Name
	}
	return names
}

// recordingExecutor captures command requests.
type recordingExecutor struct {
	mu       sync.Mutex
	requests []command.Request
	stdout   string
}

func (r *recordingExecutor) Run(_ context.Context, req command.Request) (*command.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return &command.Result{Stdout: r.stdout}, nil
}
