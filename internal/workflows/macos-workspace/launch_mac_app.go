package macosworkspace

import (
	"context"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var LaunchMacApp = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "launch_mac_app",
		Description: "Launches a built macOS .app bundle.",
		Schema: []byte(`{
  "type": "object",
  "required": ["appPath"],
  "properties": {
    "appPath": {"type": "string", "minLength": 1},
    "args": {"type": "array", "items": {"type": "string"}}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			app, err := args.RequireString("appPath")
			if err != nil {
				return nil, err
			}
			if !strings.HasSuffix(strings.TrimRight(app, "/"), ".app") {
				return schema.Failure("%s is not an .app bundle.", app), nil
			}
			argv := []string{app}
			if extra := args.Strings("args"); len(extra) > 0 {
				argv = append(argv, "--args")
				argv = append(argv, extra...)
			}
			res, err := command.FromContext(ctx).Run(ctx, command.Request{Name: "open", Args: argv})
			return command.Respond("Launch app", res, err)
		},
	}
})
