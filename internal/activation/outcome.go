package activation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/store"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Conflict is a tool that was not installed because its name is already
// bound to a different implementation.
type Conflict struct {
	Tool     string
	Workflow string
	// Holder is the workflow (or "server") that owns the name.
	Holder string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s from %s (already provided by %s)", c.Tool, c.Workflow, c.Holder)
}

// Outcome reports what one activation call did.
type Outcome struct {
	ID     string
	Mode   schema.ActivationMode
	Source schema.ActivationSource
	Task   string

	// Requested is the deduplicated, sorted request.
	Requested []string
	// Activated are the requested workflows that loaded.
	Activated []string
	Unknown   []string
	Failed    map[string]error

	Registered []string
	Removed    []string
	Unchanged  []string
	Conflicts  []Conflict
	// ActiveWorkflows are the workflows contributing tools after the call.
	ActiveWorkflows []string
	// RegisterErrors are tools the server refused to register.
	RegisterErrors map[string]error
	// DeregisterErr is set when removing stale tools failed; they stay active.
	DeregisterErr error

	Notified  bool
	NotifyErr error
	Duration  time.Duration
}

// Changed reports whether the live tool set changed.
func (o *Outcome) Changed() bool {
	return len(o.Registered) > 0 || len(o.Removed) > 0
}

// Err returns an ACTIVATION_PARTIAL_FAILURE error when any requested
// workflow or tool did not make it, or nil.
func (o *Outcome) Err() error {
	if len(o.Unknown) == 0 && len(o.Failed) == 0 && len(o.Conflicts) == 0 &&
		len(o.RegisterErrors) == 0 && o.DeregisterErr == nil {
		return nil
	}
	details := map[string]any{}
	if len(o.Unknown) > 0 {
		details["unknown"] = o.Unknown
	}
	if len(o.Failed) > 0 {
		failed := make(map[string]string, len(o.Failed))
		for id, err := range o.Failed {
			failed[id] = err.Error()
		}
		details["failed"] = failed
	}
	if len(o.Conflicts) > 0 {
		conflicts := make([]string, len(o.Conflicts))
		for i, c := range o.Conflicts {
			conflicts[i] = c.Tool
		}
		details["conflicts"] = conflicts
	}
	return schema.NewErrorf(schema.ErrCodePartialActivation,
		"activated %d of %d requested workflows", len(o.Activated), len(o.Requested)).
		WithDetails(details)
}

// Summary renders the outcome for a human reader.
func (o *Outcome) Summary() string {
	var b strings.Builder

	switch {
	case len(o.Activated) == 0:
		b.WriteString("No workflows were activated.")
	case o.Mode == schema.ModeAdditive:
		fmt.Fprintf(&b, "Added workflows: %s (additive mode).", strings.Join(o.Activated, ", "))
	default:
		fmt.Fprintf(&b, "Enabled workflows: %s (replace mode).", strings.Join(o.Activated, ", "))
	}
	if len(o.Activated) > 0 || o.Changed() {
		fmt.Fprintf(&b, " Registered %d tools, removed %d, %d unchanged.",
			len(o.Registered), len(o.Removed), len(o.Unchanged))
	}
	if len(o.Registered) > 0 {
		fmt.Fprintf(&b, "\nNew tools: %s.", strings.Join(o.Registered, ", "))
	}
	if len(o.Removed) > 0 {
		fmt.Fprintf(&b, "\nRemoved tools: %s.", strings.Join(o.Removed, ", "))
	}
	if len(o.Unknown) > 0 {
		fmt.Fprintf(&b, "\nUnknown workflows: %s.", strings.Join(o.Unknown, ", "))
	}
	for _, id := range sortedKeys(o.Failed) {
		fmt.Fprintf(&b, "\nFailed to load %s: %v", id, o.Failed[id])
	}
	for _, c := range o.Conflicts {
		fmt.Fprintf(&b, "\nConflict: %s", c)
	}
	for _, name := range sortedKeys(o.RegisterErrors) {
		fmt.Fprintf(&b, "\nCould not register %s: %v", name, o.RegisterErrors[name])
	}
	if o.DeregisterErr != nil {
		fmt.Fprintf(&b, "\nCould not remove stale tools: %v", o.DeregisterErr)
	}
	return b.String()
}

// Record converts the outcome to a history record.
func (o *Outcome) Record(sessionID string) *store.ActivationRecord {
	rec := &store.ActivationRecord{
		ID:         o.ID,
		Source:     string(o.Source),
		Mode:       string(o.Mode),
		SessionID:  sessionID,
		Task:       o.Task,
		Requested:  o.Requested,
		Activated:  o.Activated,
		Unknown:    o.Unknown,
		Registered: o.Registered,
		Removed:    o.Removed,
		Summary:    o.Summary(),
		DurationMs: o.Duration.Milliseconds(),
	}
	if len(o.Failed) > 0 {
		rec.Failed = make(map[string]string, len(o.Failed))
		for id, err := range o.Failed {
			rec.Failed[id] = err.Error()
		}
	}
	for _, c := range o.Conflicts {
		rec.Conflicts = append(rec.Conflicts, c.Tool)
	}
	return rec
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
