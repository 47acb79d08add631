package projectdiscovery

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var ShowBuildSettings = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "show_build_settings",
		Description: "Shows the resolved build settings of a scheme.",
		Schema: []byte(`{
  "type": "object",
  "required": ["scheme"],
  "properties": {
    "workspacePath": {"type": "string"},
    "projectPath": {"type": "string"},
    "scheme": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			workspace, project, err := command.ProjectRef(args)
			if err != nil {
				return nil, err
			}
			res, err := command.Xcodebuild(ctx, command.BuildSpec{
				Workspace: workspace,
				Project:   project,
				Scheme:    args.String("scheme", ""),
				Extra:     []string{"-showBuildSettings"},
			})
			return command.Respond("Show build settings", res, err)
		},
	}
})
