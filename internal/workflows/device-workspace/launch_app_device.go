package deviceworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var LaunchAppDevice = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "launch_app_device",
		Description: "Launches an installed app on a physical device by bundle identifier.",
		Schema: []byte(`{
  "type": "object",
  "required": ["deviceId", "bundleId"],
  "properties": {
    "deviceId": {"type": "string", "minLength": 1},
    "bundleId": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			device, err := args.RequireString("deviceId")
			if err != nil {
				return nil, err
			}
			bundleID, err := args.RequireString("bundleId")
			if err != nil {
				return nil, err
			}
			res, err := command.Xcrun(ctx, "devicectl", "device", "process", "launch", "--device", device, bundleID)
			return command.Respond("Launch app", res, err)
		},
	}
})
