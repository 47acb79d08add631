package swiftpackage

import (
	"context"
	"time"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var SwiftPackageRun = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "swift_package_run",
		Description: "Builds and runs an executable product of a Swift package with swift run.",
		Schema: []byte(`{
  "type": "object",
  "required": ["packagePath"],
  "properties": {
    "packagePath": {"type": "string", "minLength": 1},
    "executableName": {"type": "string"},
    "arguments": {"type": "array", "items": {"type": "string"}},
    "configuration": {"type": "string", "enum": ["debug", "release"]},
    "timeoutSeconds": {"type": "integer", "minimum": 1}
  }
}`),
		Handler: func(ctx context.Context, args schema.Args) (*schema.Response, error) {
			var extra []string
			if exe := args.String("executableName", ""); exe != "" {
				extra = append(extra, exe)
			}
			if argv := args.Strings("arguments"); len(argv) > 0 {
				extra = append(extra, argv...)
			}
			if secs := args.Int("timeoutSeconds", 0); secs > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
				defer cancel()
			}
			return runSwift(ctx, args, "run", "Swift package run", extra)
		},
	}
})
