package command

import (
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRef(t *testing.T) {
	ws, proj, err := ProjectRef(schema.Args{"workspacePath": "A.xcworkspace"})
	require.NoError(t, err)
	assert.Equal(t, "A.xcworkspace", ws)
	assert.Empty(t, proj)

	_, proj, err = ProjectRef(schema.Args{"projectPath": "A.xcodeproj"})
	require.NoError(t, err)
	assert.Equal(t, "A.xcodeproj", proj)

	_, _, err = ProjectRef(schema.Args{"workspacePath": "a", "projectPath": "b"})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))

	_, _, err = ProjectRef(schema.Args{})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestSimulator(t *testing.T) {
	id, name, err := Simulator(schema.Args{"simulatorId": "ABC", "simulatorName": "iPhone 16"})
	require.NoError(t, err)
	assert.Equal(t, "ABC", id)
	assert.Equal(t, "iPhone 16", name)

	_, _, err = Simulator(schema.Args{})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestBuildFromArgs(t *testing.T) {
	spec, err := BuildFromArgs(schema.Args{"scheme": "App", "extraArgs": []any{"-quiet"}}, "build")
	require.NoError(t, err)
	assert.Equal(t, BuildSpec{Action: "build", Scheme: "App", Configuration: "Debug", Extra: []string{"-quiet"}}, spec)

	_, err = BuildFromArgs(schema.Args{}, "build")
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}
