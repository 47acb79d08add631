package swiftpackage

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var SwiftPackageBuild = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "swift_package_build",
		Description: "Builds a Swift package with swift build.",
		Schema: []byte(`{
  "type": "object",
  "required": ["packagePath"],
  "properties": {
    "packagePath": {"type": "string", "minLength": 1},
    "targetName": {"type": "string"},
    "configuration": {"type": "string", "enum": ["debug", "release"]},
    "extraArgs": {"type": "array", "items": {"type": "string"}}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			extra := args.Strings("extraArgs")
			if target := args.String("targetName", ""); target != "" {
				extra = append([]string{"--target", target}, extra...)
			}
			return runSwift(ctx, args, "build", "Swift package build", extra)
		},
	}
})

// runSwift runs `swift <subcommand> --package-path <packagePath> [-c cfg] extra...`.
func runSwift(ctx context.Context, args schema.Args, subcommand, label string, extra []string) (*schema.Response, error) {
	pkg, err := args.RequireString("packagePath")
	if err != nil {
		return nil, err
	}
	argv := []string{subcommand, "--package-path", pkg}
	if cfg := args.String("configuration", ""); cfg != "" {
		argv = append(argv, "-c", cfg)
	}
	argv = append(argv, extra...)

	res, err := command.FromContext(ctx).Run(ctx, command.Request{Name: "swift", Args: argv})
	return command.Respond(label, res, err)
}
