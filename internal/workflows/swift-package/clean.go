package swiftpackage

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var SwiftPackageClean = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "swift_package_clean",
		Description: "Removes the build artifacts of a Swift package with swift package clean.",
		Schema: []byte(`{
  "type": "object",
  "required": ["packagePath"],
  "properties": {
    "packagePath": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			pkg, err := args.RequireString("packagePath")
			if err != nil {
				return nil, err
			}
			return runSwift(ctx, schema.Args{"packagePath": pkg}, "package", "Swift package clean", []string{"clean"})
		},
	}
})
