package simulatorworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var InstallAppSim = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "install_app_sim",
		Description: "Installs a built .app bundle on a simulator.",
		Schema: []byte(`{
  "type": "object",
  "required": ["simulatorUuid", "appPath"],
  "properties": {
    "simulatorUuid": {"type": "string", "minLength": 1},
    "appPath": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			udid, err := args.RequireString("simulatorUuid")
			if err != nil {
				return nil, err
			}
			app, err := args.RequireString("appPath")
			if err != nil {
				return nil, err
			}
			res, err := command.Xcrun(ctx, "simctl", "install", udid, app)
			return command.Respond("Install app", res, err)
		},
	}
})
