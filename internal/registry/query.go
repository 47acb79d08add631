package registry

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/expressions"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Query selects and reshapes workflow descriptors.
type Query struct {
	// Filter is a boolean predicate over `workflow`. Empty selects all.
	Filter string
	// Language of Filter: "cel" (default) or "expr".
	Language string
	// Projection is a jq program applied to the array of selected
	// descriptors. Empty returns the array itself.
	Projection string
	// Annotate may add keys to each descriptor map before filtering.
	Annotate func(id string, m map[string]any)
}

// DefaultFilterLanguage is used when Query.Language is empty.
const DefaultFilterLanguage = "cel"

// Query evaluates q over every descriptor in id order. The result is the
// []any of descriptor maps, or the projection's output.
func (r *Registry) Query(ctx context.Context, engines *expressions.Set, q Query) (any, error) {
	var filter expressions.Engine
	if q.Filter != "" {
		lang := q.Language
		if lang == "" {
			lang = DefaultFilterLanguage
		}
		if lang == "jq" {
			return nil, schema.NewError(schema.ErrCodeValidation, "jq cannot be used as a filter language; use projection")
		}
		e, err := engines.Get(lang)
		if err != nil {
			return nil, err
		}
		filter = e
	}

	selected := make([]any, 0, len(r.ids))
	for _, d := range r.Descriptors() {
		m := d.AsMap()
		if q.Annotate != nil {
			q.Annotate(d.ID, m)
		}
		if filter != nil {
			ok, err := expressions.EvaluateBool(ctx, filter, q.Filter, map[string]any{"workflow": m})
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		selected = append(selected, m)
	}

	if q.Projection == "" {
		return selected, nil
	}
	jq, err := engines.Get("jq")
	if err != nil {
		return nil, err
	}
	runner, ok := jq.(*expressions.GoJQEngine)
	if !ok {
		return nil, schema.NewError(schema.ErrCodeValidation, "jq engine does not support array input")
	}
	return runner.Run(ctx, q.Projection, selected)
}
