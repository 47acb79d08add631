package simulatorworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var TestSimWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "test_sim_ws",
		Description: "Runs the tests of a workspace scheme on an iOS simulator.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			return runSimulatorAction(ctx, args, "test", "Test")
		},
	}
})
