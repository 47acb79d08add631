package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Args) (*Response, error) { return Text("ok"), nil }

func TestDefineTool_Memoized(t *testing.T) {
	calls := 0
	factory := DefineTool(func() *Tool {
		calls++
		return &Tool{Name: "clean", Handler: noop}
	})

	a := factory()
	b := factory()
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestAssemble(t *testing.T) {
	shared := DefineTool(func() *Tool { return &Tool{Name: "list_sims", Handler: noop} })
	own := DefineTool(func() *Tool { return &Tool{Name: "build_sim", Handler: noop} })

	mod, err := Assemble(Declaration{Name: "Sim"}, map[string]ToolFactory{
		"ListSims": shared,
		"BuildSim": own,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sim", mod.Metadata.Name)
	assert.Equal(t, []string{"build_sim", "list_sims"}, mod.ToolNames())
	assert.Same(t, shared(), mod.Tools["ListSims"])
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name      string
		factories map[string]ToolFactory
		code      string
	}{
		{
			name:      "nil factory",
			factories: map[string]ToolFactory{"A": nil},
			code:      ErrCodeLoadFailed,
		},
		{
			name:      "nil tool",
			factories: map[string]ToolFactory{"A": func() *Tool { return nil }},
			code:      ErrCodeLoadFailed,
		},
		{
			name:      "unnamed tool",
			factories: map[string]ToolFactory{"A": func() *Tool { return &Tool{} }},
			code:      ErrCodeLoadFailed,
		},
		{
			name: "same name different identity",
			factories: map[string]ToolFactory{
				"A": func() *Tool { return &Tool{Name: "x"} },
				"B": func() *Tool { return &Tool{Name: "x"} },
			},
			code: ErrCodeRegistrationConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(Declaration{}, tt.factories)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), err.Error())
		})
	}
}

func TestWorkflowDescriptor_AsMap(t *testing.T) {
	d := WorkflowDescriptor{ID: "utilities", DisplayName: "Utilities", Platforms: []string{"iOS", "macOS"}}
	m := d.AsMap()
	assert.Equal(t, "utilities", m["id"])
	assert.Equal(t, []any{"iOS", "macOS"}, m["platforms"])
	assert.Equal(t, []any{}, m["targets"])
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, ModeAdditive, ModeFor(true))
	assert.Equal(t, ModeReplace, ModeFor(false))
}
