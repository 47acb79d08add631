package validation

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildArgsSchema = []byte(`{
	"type": "object",
	"required": ["scheme"],
	"properties": {
		"scheme": {"type": "string", "minLength": 1},
		"configuration": {"type": "string", "enum": ["Debug", "Release"]},
		"timeout": {"type": "integer", "minimum": 1},
		"extraArgs": {"type": "array", "items": {"type": "string"}}
	}
}`)

func TestValidateArgs_EmptySchema(t *testing.T) {
	v := NewJSONSchemaValidator()

	assert.NoError(t, v.ValidateArgs(map[string]any{"foo": "bar"}, nil))
	assert.NoError(t, v.ValidateArgs(map[string]any{"foo": "bar"}, []byte{}))
}

func TestValidateArgs_NilArgsIsEmptyObject(t *testing.T) {
	v := NewJSONSchemaValidator()

	assert.NoError(t, v.ValidateArgs(nil, []byte(schema.EmptyObjectSchema)))

	err := v.ValidateArgs(nil, buildArgsSchema)
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestValidateArgs(t *testing.T) {
	v := NewJSONSchemaValidator()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"minimal", map[string]any{"scheme": "App"}, false},
		{"full", map[string]any{
			"scheme":        "App",
			"configuration": "Release",
			"timeout":       30,
			"extraArgs":     []any{"-quiet"},
		}, false},
		{"missing required", map[string]any{"configuration": "Debug"}, true},
		{"empty scheme", map[string]any{"scheme": ""}, true},
		{"bad enum", map[string]any{"scheme": "App", "configuration": "Profile"}, true},
		{"below minimum", map[string]any{"scheme": "App", "timeout": 0}, true},
		{"wrong item type", map[string]any{"scheme": "App", "extraArgs": []any{1}}, true},
		{"float for integer", map[string]any{"scheme": "App", "timeout": 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateArgs(tt.args, buildArgsSchema)
			if tt.wantErr {
				require.Error(t, err)
				pErr, ok := err.(*schema.PluginError)
				require.True(t, ok)
				assert.Equal(t, schema.ErrCodeValidation, pErr.Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateArgs_ErrorDetails(t *testing.T) {
	v := NewJSONSchemaValidator()

	err := v.ValidateArgs(map[string]any{"scheme": "", "timeout": 0}, buildArgsSchema)
	require.Error(t, err)

	pErr := err.(*schema.PluginError)
	violations, ok := pErr.Details["violations"].([]string)
	require.True(t, ok)
	assert.Len(t, violations, 2)
	assert.Contains(t, pErr.Message, "2 errors")
}

func TestValidateValue_WorkflowIDList(t *testing.T) {
	v := NewJSONSchemaValidator()
	listSchema := []byte(WorkflowIDListSchema)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"ids", `["simulator-workspace","utilities"]`, false},
		{"empty", `[]`, false},
		{"object", `{"ids":["a"]}`, true},
		{"numbers", `[1,2]`, true},
		{"string", `"simulator-workspace"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded any
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &decoded))
			err := v.ValidateValue(decoded, listSchema)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckSchema(t *testing.T) {
	v := NewJSONSchemaValidator()

	assert.NoError(t, v.CheckSchema(nil))
	assert.NoError(t, v.CheckSchema(buildArgsSchema))
	assert.Error(t, v.CheckSchema([]byte(`{"type":`)))
	assert.Error(t, v.CheckSchema([]byte(`{"type": 42}`)))
}

func TestSchemaCache(t *testing.T) {
	v := NewJSONSchemaValidator()

	require.NoError(t, v.ValidateArgs(map[string]any{"scheme": "A"}, buildArgsSchema))
	require.NoError(t, v.ValidateArgs(map[string]any{"scheme": "B"}, buildArgsSchema))

	v.mu.RLock()
	defer v.mu.RUnlock()
	assert.Len(t, v.cache, 1)
}

func TestConcurrentValidation(t *testing.T) {
	v := NewJSONSchemaValidator()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			args := map[string]any{"scheme": "App"}
			if i%2 == 0 {
				args["timeout"] = i + 1
			}
			errs <- v.ValidateArgs(args, buildArgsSchema)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
