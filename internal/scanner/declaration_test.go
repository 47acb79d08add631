package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclaration(t *testing.T) {
	src := []byte(`package swiftpackage

import "example.com/app/pkg/schema"

var Workflow = schema.Declaration{
	Name: "Swift Package Manager",
	Description: "Build, test and run " +
		"Swift packages.",
	Platforms: []string{"iOS", "macOS"},
	Capabilities: []string{},
}
`)
	parsed, err := ParseDeclaration("workflow.go", src)
	require.NoError(t, err)
	assert.Empty(t, parsed.Warnings)
	assert.Equal(t, "Swift Package Manager", parsed.Declaration.Name)
	assert.Equal(t, "Build, test and run Swift packages.", parsed.Declaration.Description)
	assert.Equal(t, []string{"iOS", "macOS"}, parsed.Declaration.Platforms)
	assert.Empty(t, parsed.Declaration.Capabilities)
}

func TestParseDeclaration_UnqualifiedType(t *testing.T) {
	src := []byte("package schema\n\nvar Workflow = Declaration{Name: `raw`, Description: \"d\"}\n")
	parsed, err := ParseDeclaration("workflow.go", src)
	require.NoError(t, err)
	assert.Equal(t, "raw", parsed.Declaration.Name)
}

func TestParseDeclaration_Warnings(t *testing.T) {
	src := []byte(`package wf

import "example.com/app/pkg/schema"

var platforms = []string{"iOS"}

var Workflow = schema.Declaration{
	Name:         "n",
	Description:  "d",
	Platforms:    platforms,
	Targets:      []string{"device", deviceKind},
	ProjectTypes: [2]string{"a", "b"},
	Extra:        "x",
}
`)
	parsed, err := ParseDeclaration("workflow.go", src)
	require.NoError(t, err)
	require.Len(t, parsed.Warnings, 4)
	assert.Contains(t, parsed.Warnings[0], "Platforms")
	assert.Contains(t, parsed.Warnings[1], "Targets")
	assert.Contains(t, parsed.Warnings[2], "ProjectTypes")
	assert.Contains(t, parsed.Warnings[3], "unknown field Extra")
	assert.Nil(t, parsed.Declaration.Platforms)
}

func TestParseDeclaration_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"wrong type", "package wf\n\nvar Workflow = Other{Name: \"n\", Description: \"d\"}\n", "no `var Workflow"},
		{"not a literal", "package wf\n\nvar Workflow = build()\n", "no `var Workflow"},
		{"positional", "package wf\n\nvar Workflow = Declaration{\"n\", \"d\"}\n", "positional"},
		{"empty name", "package wf\n\nvar Workflow = Declaration{Name: \"\", Description: \"d\"}\n", "Name is required"},
		{"computed description", "package wf\n\nvar Workflow = Declaration{Name: \"n\", Description: fmt.Sprint(1)}\n", "Description must be a string literal"},
		{"syntax error", "package wf\n\nvar Workflow = Declaration{\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeclaration("workflow.go", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExportedVars(t *testing.T) {
	src := []byte(`package wf

import (
	"time"

	"example.com/app/pkg/schema"
	simws "example.com/app/internal/workflows/simulator-workspace"
)

var (
	BuildSim = schema.DefineTool(func() *schema.Tool { return nil })
	helper   = 2
)

var ListSims, bootSim = simws.ListSims, simws.BootSim

var Alias = BuildSim

var Typed schema.ToolFactory = build

var (
	DefaultTimeout = 300 * time.Second
	ErrNoScheme    = errors.New("no scheme")
	Limit          = 10
	Pair, Other    = split()
	Deadline       time.Duration
)

const Exported = 5

func Run() {}
`)
	factories, other, err := exportedVars("tool.go", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"BuildSim", "ListSims", "Alias", "Typed"}, factories)
	assert.Equal(t, []string{"DefaultTimeout", "ErrNoScheme", "Limit", "Pair", "Other", "Deadline"}, other)
}
