package validation

// Validator checks tool arguments and decoded JSON documents against
// JSON Schema Draft 2020-12 schemas supplied as raw bytes.
type Validator interface {
	ValidateArgs(args map[string]any, argsSchema []byte) error
	ValidateValue(value any, valueSchema []byte) error
}
