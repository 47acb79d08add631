package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// WorkflowIDListSchema describes the reply expected from the classifier's
// completion request.
const WorkflowIDListSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": { "type": "string" }
}`

// JSONSchemaValidator implements Validator. Compiled schemas are cached by
// their source text. It is safe for concurrent use.
type JSONSchemaValidator struct {
	mu    sync.RWMutex
	seq   int
	cache map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator creates a validator with an empty schema cache.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{cache: make(map[string]*jsonschema.Schema)}
}

// ValidateArgs validates tool call arguments. A nil map is treated as an
// empty object; an empty schema accepts anything.
func (v *JSONSchemaValidator) ValidateArgs(args map[string]any, argsSchema []byte) error {
	if len(argsSchema) == 0 {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	return v.ValidateValue(args, argsSchema)
}

// ValidateValue validates an arbitrary Go value after normalizing it through
// JSON so numbers become json.Number.
func (v *JSONSchemaValidator) ValidateValue(value any, valueSchema []byte) error {
	if len(valueSchema) == 0 {
		return nil
	}

	compiled, err := v.getOrCompile(valueSchema)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "invalid schema").WithCause(err)
	}

	doc, err := toJSONValue(value)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize value").WithCause(err)
	}

	if err := compiled.Validate(doc); err != nil {
		return toPluginError(err)
	}
	return nil
}

// CheckSchema reports whether raw compiles as a JSON Schema. Used for tool
// parameter schemas before a tool is registered.
func (v *JSONSchemaValidator) CheckSchema(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := v.getOrCompile(raw); err != nil {
		return schema.NewError(schema.ErrCodeValidation, "invalid schema").WithCause(err)
	}
	return nil
}

func (v *JSONSchemaValidator) getOrCompile(schemaBytes []byte) (*jsonschema.Schema, error) {
	key := string(schemaBytes)

	v.mu.RLock()
	if cached, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if cached, ok := v.cache[key]; ok {
		return cached, nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(key))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	v.seq++
	url := fmt.Sprintf("xcodebuildmcp://schema/%d.json", v.seq)

	// A fresh compiler per schema avoids resource collisions.
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// toPluginError converts a jsonschema.ValidationError into a PluginError
// listing each leaf violation with its instance location.
func toPluginError(err error) *schema.PluginError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
