package swiftpackage

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var SwiftPackageTest = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "swift_package_test",
		Description: "Runs the tests of a Swift package with swift test.",
		Schema: []byte(`{
  "type": "object",
  "required": ["packagePath"],
  "properties": {
    "packagePath": {"type": "string", "minLength": 1},
    "filter": {"type": "string", "description": "Only run tests matching this regular expression."},
    "parallel": {"type": "boolean"},
    "configuration": {"type": "string", "enum": ["debug", "release"]}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			var extra []string
			if filter := args.String("filter", ""); filter != "" {
				extra = append(extra, "--filter", filter)
			}
			if args.Bool("parallel", false) {
				extra = append(extra, "--parallel")
			}
			return runSwift(ctx, args, "test", "Swift package test", extra)
		},
	}
})
