package simulatorworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// buildSchema is shared by the workspace build and test tools.
const buildSchema = `{
  "type": "object",
  "required": ["workspacePath", "scheme"],
  "properties": {
    "workspacePath": {"type": "string", "minLength": 1},
    "scheme": {"type": "string", "minLength": 1},
    "simulatorId": {"type": "string", "description": "Simulator UDID from list_sims."},
    "simulatorName": {"type": "string", "description": "Simulator name, e.g. 'iPhone 16'."},
    "configuration": {"type": "string", "description": "Build configuration (default Debug)."},
    "derivedDataPath": {"type": "string"},
    "extraArgs": {"type": "array", "items": {"type": "string"}}
  }
}`

var BuildSimWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "build_sim_ws",
		Description: "Builds a workspace scheme for an iOS simulator.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			return runSimulatorAction(ctx, args, "build", "Build")
		},
	}
})

func runSimulatorAction(ctx context.Context, args schema.Args, action, label string) (*schema.Response, error) {
	spec, err := command.BuildFromArgs(args, action)
	if err != nil {
		return nil, err
	}
	id, name, err := command.Simulator(args)
	if err != nil {
		return nil, err
	}
	spec.Workspace = args.String("workspacePath", "")
	spec.Destination = command.SimulatorDestination("iOS", id, name)

	res, err := command.Xcodebuild(ctx, spec)
	return command.Respond(label, res, err)
}
