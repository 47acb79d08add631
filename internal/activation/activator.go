// Package activation reconciles the live server's tool set against the
// workflows a client asks for.
package activation

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/logging"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/store"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/telemetry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// ToolServer is the live server the activator registers tools on.
type ToolServer interface {
	Register(tool *schema.Tool) error
	Deregister(names ...string) error
}

// ListChangedNotifier is implemented by servers that can tell clients their
// tool list changed.
type ListChangedNotifier interface {
	NotifyListChanged(ctx context.Context) error
}

// HistoryRecorder persists activation outcomes. Satisfied by store.Store.
type HistoryRecorder interface {
	AppendActivation(ctx context.Context, rec *store.ActivationRecord) error
}

// Request is one activation call.
type Request struct {
	IDs      []string
	Additive bool
	Source   schema.ActivationSource
	// Task is the free-text description that led to the request, if any.
	Task string
}

// Options configures an Activator.
type Options struct {
	Logger    *slog.Logger
	History   HistoryRecorder
	Telemetry *telemetry.Telemetry
	// Reserved are tool names the server owns outside the active set.
	Reserved []string
}

// Activator is the single mutation path for an ActiveSet.
type Activator struct {
	registry  *registry.Registry
	logger    *slog.Logger
	history   HistoryRecorder
	telemetry *telemetry.Telemetry
	reserved  map[string]bool

	mu     sync.Mutex
	active *ActiveSet
}

// New creates an Activator over reg that mutates set. A nil set starts empty.
func New(reg *registry.Registry, set *ActiveSet, opts Options) *Activator {
	if set == nil {
		set = NewActiveSet()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reserved := make(map[string]bool, len(opts.Reserved))
	for _, name := range opts.Reserved {
		reserved[name] = true
	}
	return &Activator{
		registry:  reg,
		logger:    logger,
		history:   opts.History,
		telemetry: opts.Telemetry,
		reserved:  reserved,
		active:    set,
	}
}

// Registry returns the registry the activator resolves ids against.
func (a *Activator) Registry() *registry.Registry {
	return a.registry
}

// Active returns a snapshot of the active set.
func (a *Activator) Active() *ActiveSet {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active.clone()
}

// Activate loads the requested workflows and reconciles server against them.
func (a *Activator) Activate(ctx context.Context, server ToolServer, ids []string, additive bool) *Outcome {
	return a.Run(ctx, server, Request{IDs: ids, Additive: additive, Source: schema.SourceDirect})
}

type candidate struct {
	tool      *schema.Tool
	workflows []string
}

// Run executes req against server. Calls are serialized.
func (a *Activator) Run(ctx context.Context, server ToolServer, req Request) *Outcome {
	start := time.Now()
	out := &Outcome{
		ID:     uuid.NewString(),
		Mode:   schema.ModeFor(req.Additive),
		Source: req.Source,
		Task:   req.Task,
	}
	if out.Source == "" {
		out.Source = schema.SourceDirect
	}
	ctx = logging.WithActivationID(ctx, out.ID)
	ctx, span := a.telemetry.Start(ctx, "activation.run",
		attribute.String("activation.id", out.ID),
		attribute.String("activation.mode", string(out.Mode)),
		attribute.String("activation.source", string(out.Source)),
	)

	a.locked(func() {
		a.reconcile(ctx, server, req, out)
		out.ActiveWorkflows = a.active.Workflows()
	})

	out.Duration = time.Since(start)
	a.finish(ctx, out)
	span.SetAttributes(
		attribute.StringSlice("activation.workflows", out.Activated),
		attribute.Int("activation.registered", len(out.Registered)),
		attribute.Int("activation.removed", len(out.Removed)),
	)
	telemetry.End(span, out.Err())
	return out
}

func (a *Activator) locked(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
}

// load runs a workflow loader, turning a panic in its tool factories into a
// load failure for that workflow alone.
func load(ctx context.Context, loader *registry.Loader) (mod *schema.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod = nil
			err = schema.NewErrorf(schema.ErrCodeLoadFailed, "workflow %s panicked while loading: %v", loader.ID(), r).
				WithWorkflow(loader.ID())
		}
	}()
	return loader.Load(ctx)
}

func (a *Activator) reconcile(ctx context.Context, server ToolServer, req Request, out *Outcome) {
	additive := req.Additive
	out.Requested = dedupe(req.IDs)

	modules := make(map[string]*schema.Module)
	for _, id := range out.Requested {
		loader, ok := a.registry.Loader(id)
		if !ok {
			out.Unknown = append(out.Unknown, id)
			continue
		}
		mod, err := load(logging.WithWorkflowID(ctx, id), loader)
		if err != nil {
			if out.Failed == nil {
				out.Failed = make(map[string]error)
			}
			out.Failed[id] = err
			a.logger.WarnContext(ctx, "workflow load failed",
				slog.String("workflow_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		modules[id] = mod
		out.Activated = append(out.Activated, id)
	}

	desired, names := a.plan(out, modules)

	// A request in which nothing loaded must not wipe the tool set.
	if !additive && len(out.Activated) > 0 {
		var stale []string
		for _, name := range a.active.Names() {
			entry := a.active.tools[name]
			if c, ok := desired[name]; !ok || c.tool != entry.Tool {
				stale = append(stale, name)
			}
		}
		if len(stale) > 0 {
			if err := server.Deregister(stale...); err != nil {
				out.DeregisterErr = err
				a.logger.ErrorContext(ctx, "deregister failed",
					slog.Any("tools", stale),
					slog.String("error", err.Error()),
				)
			} else {
				for _, name := range stale {
					a.active.remove(name)
				}
				out.Removed = stale
			}
		}
	}

	for _, name := range names {
		c := desired[name]
		if entry, ok := a.active.tools[name]; ok {
			if entry.Tool == c.tool {
				a.active.attribute(name, c.workflows, additive)
				out.Unchanged = append(out.Unchanged, name)
				continue
			}
			out.Conflicts = append(out.Conflicts, Conflict{
				Tool:     name,
				Workflow: c.workflows[0],
				Holder:   holder(entry.Workflows),
			})
			continue
		}
		if err := server.Register(c.tool); err != nil {
			if out.RegisterErrors == nil {
				out.RegisterErrors = make(map[string]error)
			}
			out.RegisterErrors[name] = schema.NewErrorf(schema.ErrCodeRegistrationFailed,
				"register %s: %v", name, err).WithCause(err)
			continue
		}
		a.active.put(name, c.tool, c.workflows)
		out.Registered = append(out.Registered, name)
	}

	if out.Changed() || len(out.Activated) > 0 {
		if n, ok := server.(ListChangedNotifier); ok {
			if err := n.NotifyListChanged(ctx); err != nil {
				out.NotifyErr = err
				a.logger.WarnContext(ctx, "tool list notification failed", slog.String("error", err.Error()))
			} else {
				out.Notified = true
			}
		}
	}
}

// plan merges the loaded modules into one name -> tool map. Workflows are
// visited in sorted order, so the first provider of a name wins.
func (a *Activator) plan(out *Outcome, modules map[string]*schema.Module) (map[string]*candidate, []string) {
	desired := make(map[string]*candidate)
	for _, id := range out.Activated {
		mod := modules[id]
		tools := make([]*schema.Tool, 0, len(mod.Tools))
		for _, t := range mod.Tools {
			tools = append(tools, t)
		}
		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

		for _, t := range tools {
			if a.reserved[t.Name] {
				out.Conflicts = append(out.Conflicts, Conflict{Tool: t.Name, Workflow: id, Holder: "server"})
				continue
			}
			c, ok := desired[t.Name]
			switch {
			case !ok:
				desired[t.Name] = &candidate{tool: t, workflows: []string{id}}
			case c.tool == t:
				if c.workflows[len(c.workflows)-1] != id {
					c.workflows = append(c.workflows, id)
				}
			default:
				out.Conflicts = append(out.Conflicts, Conflict{Tool: t.Name, Workflow: id, Holder: c.workflows[0]})
			}
		}
	}
	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)
	return desired, names
}

func (a *Activator) finish(ctx context.Context, out *Outcome) {
	attrs := []any{
		slog.String("mode", string(out.Mode)),
		slog.String("source", string(out.Source)),
		slog.Any("requested", out.Requested),
		slog.Any("activated", out.Activated),
		slog.Int("registered", len(out.Registered)),
		slog.Int("removed", len(out.Removed)),
		slog.Int("unchanged", len(out.Unchanged)),
		slog.Any("active_workflows", out.ActiveWorkflows),
		slog.Duration("duration", out.Duration),
	}
	if err := out.Err(); err != nil {
		a.logger.WarnContext(ctx, "activation completed with failures", append(attrs, slog.String("error", err.Error()))...)
	} else {
		a.logger.InfoContext(ctx, "activation completed", attrs...)
	}

	a.telemetry.RecordActivation(ctx, telemetry.ActivationStats{
		Mode:       string(out.Mode),
		Source:     string(out.Source),
		Registered: len(out.Registered),
		Removed:    len(out.Removed),
		Conflicts:  len(out.Conflicts),
		Failed:     len(out.Failed) + len(out.Unknown),
		Duration:   out.Duration,
	})

	if a.history != nil {
		if err := a.history.AppendActivation(ctx, out.Record(logging.SessionID(ctx))); err != nil {
			a.logger.WarnContext(ctx, "record activation history failed", slog.String("error", err.Error()))
		}
	}
}

func holder(workflows []string) string {
	if len(workflows) == 0 {
		return "unknown"
	}
	return workflows[0]
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
