package utilities

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var Clean = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "clean",
		Description: "Cleans build products for a workspace or project scheme with xcodebuild clean.",
		Schema: []byte(`{
  "type": "object",
  "properties": {
    "workspacePath": {"type": "string"},
    "projectPath": {"type": "string"},
    "scheme": {"type": "string"},
    "configuration": {"type": "string"},
    "derivedDataPath": {"type": "string"}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			workspace, project, err := command.ProjectRef(args)
			if err != nil {
				return nil, err
			}
			scheme := args.String("scheme", "")
			if workspace != "" && scheme == "" {
				return schema.Failure("scheme is required when cleaning a workspace."), nil
			}
			res, err := command.Xcodebuild(ctx, command.BuildSpec{
				Action:          "clean",
				Workspace:       workspace,
				Project:         project,
				Scheme:          scheme,
				Configuration:   args.String("configuration", ""),
				DerivedDataPath: args.String("derivedDataPath", ""),
			})
			return command.Respond("Clean", res, err)
		},
	}
})
