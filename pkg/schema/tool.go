package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Tool is a single externally invocable operation. A tool is owned by exactly
// one workflow; other workflows reference the same *Tool, never a copy.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Handler     Handler
}

// Handler executes a tool with its (already schema-validated) arguments.
type Handler func(ctx context.Context, args Args) (*Response, error)

// ToolFactory lazily produces a tool. Factories created with DefineTool
// return the same *Tool on every call.
type ToolFactory func() *Tool

// DefineTool wraps build in a memoized ToolFactory. Workflow packages export
// one factory per tool file:
//
//	var ListSims = schema.DefineTool(func() *schema.Tool { ... })
//
// and re-export a shared tool by referencing the owner's factory.
func DefineTool(build func() *Tool) ToolFactory {
	return sync.OnceValue(build)
}

// EmptyObjectSchema is the parameter schema of a tool that takes no arguments.
const EmptyObjectSchema = `{"type":"object","properties":{}}`

// Response is the text result of a tool invocation.
type Response struct {
	Text    string
	IsError bool
}

// Text builds a successful response.
func Text(format string, args ...any) *Response {
	return &Response{Text: fmt.Sprintf(format, args...)}
}

// Failure builds an error response that is reported to the client as a tool
// error rather than a protocol error.
func Failure(format string, args ...any) *Response {
	return &Response{Text: fmt.Sprintf(format, args...), IsError: true}
}
