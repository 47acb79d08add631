package schema

import (
	"context"
	"sort"
)

// Declaration is the metadata a workflow package declares in its workflow.go file:
//
//	var Workflow = schema.Declaration{
//		Name:        "iOS Simulator Workspace Development",
//		Description: "Build and run iOS apps on simulators from .xcworkspace files.",
//		Platforms:   []string{"iOS"},
//	}
//
// The generator reads it textually; only literal values are understood.
type Declaration struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Platforms    []string `json:"platforms,omitempty"`
	Targets      []string `json:"targets,omitempty"`
	ProjectTypes []string `json:"project_types,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// WorkflowDescriptor is the static, immutable metadata of one workflow.
// ID is the name of the workflow's source directory.
type WorkflowDescriptor struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description"`
	Platforms    []string `json:"platforms,omitempty"`
	Targets      []string `json:"targets,omitempty"`
	ProjectTypes []string `json:"project_types,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// AsMap returns the descriptor as a plain map for expression evaluation.
func (d WorkflowDescriptor) AsMap() map[string]any {
	return map[string]any{
		"id":            d.ID,
		"display_name":  d.DisplayName,
		"description":   d.Description,
		"platforms":     stringsToAny(d.Platforms),
		"targets":       stringsToAny(d.Targets),
		"project_types": stringsToAny(d.ProjectTypes),
		"capabilities":  stringsToAny(d.Capabilities),
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// Module is the result of loading a workflow: its declaration plus its tools
// keyed by the exported name of each tool factory.
type Module struct {
	Metadata Declaration
	Tools    map[string]*Tool
}

// ToolNames returns the global names of the module's tools, sorted.
func (m *Module) ToolNames() []string {
	names := make([]string, 0, len(m.Tools))
	for _, t := range m.Tools {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// LoaderFunc loads a workflow module. The registry memoizes its result.
type LoaderFunc func(ctx context.Context) (*Module, error)

// Assemble builds a Module from a declaration and its tool factories.
// It fails if a factory yields nil or an unnamed tool, or if two factories
// yield different tools under the same global name.
func Assemble(decl Declaration, factories map[string]ToolFactory) (*Module, error) {
	locals := make([]string, 0, len(factories))
	for local := range factories {
		locals = append(locals, local)
	}
	sort.Strings(locals)

	tools := make(map[string]*Tool, len(factories))
	byName := make(map[string]*Tool, len(factories))
	for _, local := range locals {
		factory := factories[local]
		if factory == nil {
			return nil, NewErrorf(ErrCodeLoadFailed, "tool factory %s is nil", local)
		}
		t := factory()
		if t == nil {
			return nil, NewErrorf(ErrCodeLoadFailed, "tool factory %s returned nil", local)
		}
		if t.Name == "" {
			return nil, NewErrorf(ErrCodeLoadFailed, "tool factory %s returned a tool without a name", local)
		}
		if prev, ok := byName[t.Name]; ok && prev != t {
			return nil, NewErrorf(ErrCodeRegistrationConflict,
				"tool %q is defined twice with different implementations", t.Name)
		}
		byName[t.Name] = t
		tools[local] = t
	}
	return &Module{Metadata: decl, Tools: tools}, nil
}
