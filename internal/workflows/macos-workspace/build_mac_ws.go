package macosworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const buildSchema = `{
  "type": "object",
  "required": ["workspacePath", "scheme"],
  "properties": {
    "workspacePath": {"type": "string", "minLength": 1},
    "scheme": {"type": "string", "minLength": 1},
    "arch": {"type": "string", "enum": ["arm64", "x86_64"]},
    "configuration": {"type": "string"},
    "derivedDataPath": {"type": "string"},
    "extraArgs": {"type": "array", "items": {"type": "string"}}
  }
}`

var BuildMacWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "build_mac_ws",
		Description: "Builds a workspace scheme for macOS.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			return runMacAction(ctx, args, "build", "Build")
		},
	}
})

func runMacAction(ctx context.Context, args schema.Args, action, label string) (*schema.Response, error) {
	spec, err := command.BuildFromArgs(args, action)
	if err != nil {
		return nil, err
	}
	spec.Workspace = args.String("workspacePath", "")
	spec.Destination = "platform=macOS"
	if arch := args.String("arch", ""); arch != "" {
		spec.Destination += ",arch=" + arch
	}

	res, err := command.Xcodebuild(ctx, spec)
	return command.Respond(label, res, err)
}
