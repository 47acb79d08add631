// Package expressions evaluates the filter and projection expressions used to
// query the workflow catalogue.
package expressions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Engine evaluates an expression against a data map.
// Three implementations: CEL and Expr (predicates), GoJQ (projections).
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}

// Set holds one engine per language name.
type Set struct {
	engines map[string]Engine
}

// NewSet builds the default engine set: cel, expr and jq.
func NewSet() (*Set, error) {
	celEngine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	return NewSetOf(celEngine, NewExprEngine(), NewGoJQEngine()), nil
}

// NewSetOf builds a Set from the given engines, keyed by Name.
func NewSetOf(engines ...Engine) *Set {
	s := &Set{engines: make(map[string]Engine, len(engines))}
	for _, e := range engines {
		s.engines[e.Name()] = e
	}
	return s
}

// Get returns the engine for a language name.
func (s *Set) Get(language string) (Engine, error) {
	e, ok := s.engines[strings.ToLower(language)]
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"unknown expression language %q (available: %s)", language, strings.Join(s.Languages(), ", "))
	}
	return e, nil
}

// Languages returns the registered language names, sorted.
func (s *Set) Languages() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EvaluateBool evaluates a predicate and requires a boolean result.
func EvaluateBool(ctx context.Context, e Engine, expression string, data map[string]any) (bool, error) {
	out, err := e.Evaluate(ctx, expression, data)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, schema.NewErrorf(schema.ErrCodeValidation,
			"%s expression %q must evaluate to a boolean, got %s", e.Name(), expression, typeName(out))
	}
	return b, nil
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
