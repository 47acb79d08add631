package macosworkspace

import (
	"context"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var TestMacWs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "test_mac_ws",
		Description: "Runs the tests of a workspace scheme on macOS.",
		Schema:      []byte(buildSchema),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			return runMacAction(ctx, args, "test", "Test")
		},
	}
})
