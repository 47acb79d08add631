// Package registry exposes the generated workflow catalogue: static metadata
// that is always available and loaders that run workflow code on demand.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Registry is the immutable catalogue of known workflows. Building it runs no
// workflow code.
type Registry struct {
	ids         []string
	descriptors map[string]schema.WorkflowDescriptor
	loaders     map[string]*Loader
}

// New builds a Registry from the generated Loaders and Metadata maps. A
// workflow is known when it has a loader; metadata missing for a loader is
// synthesized from the id.
func New(loaders map[string]schema.LoaderFunc, metadata map[string]schema.WorkflowDescriptor) *Registry {
	r := &Registry{
		descriptors: make(map[string]schema.WorkflowDescriptor, len(loaders)),
		loaders:     make(map[string]*Loader, len(loaders)),
	}
	for id, fn := range loaders {
		if fn == nil {
			continue
		}
		d, ok := metadata[id]
		if !ok {
			d = schema.WorkflowDescriptor{ID: id, DisplayName: id}
		}
		r.ids = append(r.ids, id)
		r.descriptors[id] = d
		r.loaders[id] = &Loader{id: id, load: fn}
	}
	sort.Strings(r.ids)
	return r
}

// IDs returns the known workflow ids, sorted. The slice is a copy.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Len returns the number of known workflows.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Has reports whether id is a known workflow.
func (r *Registry) Has(id string) bool {
	_, ok := r.loaders[id]
	return ok
}

// Metadata returns the descriptor of a workflow.
func (r *Registry) Metadata(id string) (schema.WorkflowDescriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// Descriptors returns every descriptor, sorted by id.
func (r *Registry) Descriptors() []schema.WorkflowDescriptor {
	out := make([]schema.WorkflowDescriptor, len(r.ids))
	for i, id := range r.ids {
		out[i] = r.descriptors[id]
	}
	return out
}

// Loader returns the memoized loader of a workflow.
func (r *Registry) Loader(id string) (*Loader, bool) {
	l, ok := r.loaders[id]
	return l, ok
}

// Loader loads one workflow module at most once. Concurrent first calls are
// serialized; a failed load is not cached and will be retried.
type Loader struct {
	id   string
	load schema.LoaderFunc

	mu     sync.Mutex
	module *schema.Module
}

// ID returns the workflow id this loader belongs to.
func (l *Loader) ID() string {
	return l.id
}

// Load returns the workflow's module, invoking the generated loader on first
// use.
func (l *Loader) Load(ctx context.Context) (*schema.Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.module != nil {
		return l.module, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mod, err := l.load(ctx)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeLoadFailed, "load workflow: %v", err).
			WithWorkflow(l.id).
			WithCause(err)
	}
	if mod == nil {
		return nil, schema.NewError(schema.ErrCodeLoadFailed, "loader returned no module").WithWorkflow(l.id)
	}
	l.module = mod
	return mod, nil
}
