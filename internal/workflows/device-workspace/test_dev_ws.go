package deviceworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var TestDevWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "test_dev_ws",
		Description: "Runs the tests of a workspace scheme on a physical device.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			if args.String("deviceId", "") == "" {
				return nil, schema.NewError(schema.ErrCodeValidation, "deviceId is required to run tests on a device")
			}
			return runDeviceAction(ctx, args, "test", "Test")
		},
	}
})
