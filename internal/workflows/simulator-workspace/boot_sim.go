package simulatorworkspace

import (
	"context"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var BootSim = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "boot_sim",
		Description: "Boots a simulator by UDID.",
		Schema: []byte(`{
  "type": "object",
  "required": ["simulatorUuid"],
  "properties": {
    "simulatorUuid": {"type": "string", "minLength": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			udid, err := args.RequireString("simulatorUuid")
			if err != nil {
				return nil, err
			}
			res, err := command.Xcrun(ctx, "simctl", "boot", udid)
			if err == nil && !res.Success() && strings.Contains(res.Stderr, "current state: Booted") {
				return schema.Text("Simulator %s is already booted.", udid), nil
			}
			return command.Respond("Boot simulator", res, err)
		},
	}
})
