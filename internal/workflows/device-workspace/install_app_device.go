package deviceworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var InstallAppDevice = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "install_app_device",
		Description: "Installs a built .app bundle on a physical device.",
		Schema: []byte(`{
  "type": "object",
  "required": ["deviceId", "appPath"],
  "properties": {
    "deviceId": {"type": "string", "minLength": 1},
    "appPath": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			device, err := args.RequireString("deviceId")
			if err != nil {
				return nil, err
			}
			app, err := args.RequireString("appPath")
			if err != nil {
				return nil, err
			}
			res, err := command.Xcrun(ctx, "devicectl", "device", "install", "app", "--device", device, app)
			return command.Respond("Install app", res, err)
		},
	}
})
