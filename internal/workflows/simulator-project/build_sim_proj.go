package simulatorproject

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const buildSchema = `{
  "type": "object",
  "required": ["projectPath", "scheme"],
  "properties": {
    "projectPath": {"type": "string", "minLength": 1},
    "scheme": {"type": "string", "minLength": 1},
    "simulatorId": {"type": "string"},
    "simulatorName": {"type": "string"},
    "configuration": {"type": "string"},
    "derivedDataPath": {"type": "string"},
    "extraArgs": {"type": "array", "items": {"type": "string"}}
  }
}`

var BuildSimProj = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "build_sim_proj",
		Description: "Builds a project scheme for an iOS simulator.",
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
	spec.Project = args.String("projectPath", "")
	spec.Destination = command.SimulatorDestination("iOS", id, name)

	res, err := command.Xcodebuild(ctx, spec)
	return command.Respond(label, res, err)
}
