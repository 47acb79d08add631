package deviceworkspace

import (
	"context"
	"fmt"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const buildSchema = `{
  "type": "object",
  "required": ["workspacePath", "scheme"],
  "properties": {
    "workspacePath": {"type": "string", "minLength": 1},
    "scheme": {"type": "string", "minLength": 1},
    "deviceId": {"type": "string", "description": "Device UDID from list_devices; generic destination when omitted."},
    "platform": {"type": "string", "enum": ["iOS", "watchOS", "tvOS", "visionOS"]},
    "configuration": {"type": "string"},
    "derivedDataPath": {"type": "string"},
    "extraArgs": {"type": "array", "items": {"type": "string"}}
  }
}`

var BuildDevWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "build_dev_ws",
		Description: "Builds a workspace scheme for a physical device.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			return runDeviceAction(ctx, args, "build", "Build")
		},
	}
})

func deviceDestination(platform, id string) string {
	if id == "" {
		return fmt.Sprintf("generic/platform=%s", platform)
	}
	return fmt.Sprintf("platform=%s,id=%s", platform, id)
}

func runDeviceAction(ctx context.Context, args schema.Args, action, label string) (*schema.Response, error) {
	spec, err := command.BuildFromArgs(args, action)
	if err != nil {
		return nil, err
	}
	spec.Workspace = args.String("workspacePath", "")
	spec.Destination = deviceDestination(args.String("platform", "iOS"), args.String("deviceId", ""))

	res, err := command.Xcodebuild(ctx, spec)
	return command.Respond(label, res, err)
}
