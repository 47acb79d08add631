package activation

import (
	"sort"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Entry is one active tool and the workflows that contributed it.
type Entry struct {
	Tool      *schema.Tool
	Workflows []string
}

// ActiveSet is the set of workflow-managed tools currently registered on the
// live server, keyed by tool name. Only an Activator mutates it.
type ActiveSet struct {
	tools map[string]*Entry
}

// NewActiveSet returns an empty set.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{tools: make(map[string]*Entry)}
}

// Len returns the number of active tools.
func (s *ActiveSet) Len() int {
	return len(s.tools)
}

// Names returns the active tool names, sorted.
func (s *ActiveSet) Names() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the entry for a tool name.
func (s *ActiveSet) Get(name string) (Entry, bool) {
	e, ok := s.tools[name]
	if !ok {
		return Entry{}, false
	}
	return Entry{Tool: e.Tool, Workflows: append([]string(nil), e.Workflows...)}, true
}

// Workflows returns the ids of the workflows contributing at least one
// active tool, sorted.
func (s *ActiveSet) Workflows() []string {
	var ids []string
	for _, e := range s.tools {
		ids = mergeSorted(ids, e.Workflows)
	}
	return ids
}

// WorkflowActive reports whether id contributes at least one active tool.
func (s *ActiveSet) WorkflowActive(id string) bool {
	for _, e := range s.tools {
		for _, w := range e.Workflows {
			if w == id {
				return true
			}
		}
	}
	return false
}

func (s *ActiveSet) clone() *ActiveSet {
	c := NewActiveSet()
	for name, e := range s.tools {
		c.tools[name] = &Entry{Tool: e.Tool, Workflows: append([]string(nil), e.Workflows...)}
	}
	return c
}

func (s *ActiveSet) put(name string, tool *schema.Tool, workflows []string) {
	s.tools[name] = &Entry{Tool: tool, Workflows: workflows}
}

func (s *ActiveSet) remove(name string) {
	delete(s.tools, name)
}

func (s *ActiveSet) attribute(name string, workflows []string, additive bool) {
	e, ok := s.tools[name]
	if !ok {
		return
	}
	if !additive {
		e.Workflows = workflows
		return
	}
	e.Workflows = mergeSorted(e.Workflows, workflows)
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
