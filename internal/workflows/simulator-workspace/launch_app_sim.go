package simulatorworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var LaunchAppSim = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "launch_app_sim",
		Description: "Launches an installed app on a simulator by bundle identifier.",
		Schema: []byte(`{
  "type": "object",
  "required": ["simulatorUuid", "bundleId"],
  "properties": {
    "simulatorUuid": {"type": "string", "minLength": 1},
    "bundleId": {"type": "string", "minLength": 1},
    "args": {"type": "array", "items": {"type": "string"}}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			udid, err := args.RequireString("simulatorUuid")
			if err != nil {
				return nil, err
			}
			bundleID, err := args.RequireString("bundleId")
			if err != nil {
				return nil, err
			}
			argv := append([]string{"simctl", "launch", udid, bundleID}, args.Strings("args")...)
			res, err := command.Xcrun(ctx, argv...)
			return command.Respond("Launch app", res, err)
		},
	}
})
