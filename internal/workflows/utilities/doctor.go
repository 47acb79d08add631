package utilities

import (
	"context"
	"fmt"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var Doctor = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "doctor",
		Description: "Reports the active developer directory and the versions of xcodebuild and swift.",
		Schema:      []byte(schema.EmptyObjectSchema),
		Handler:     doctor,
	}
})

var doctorChecks = []struct {
	label string
	req   command.Request
}{
	{"Developer directory", command.Request{Name: "xcode-select", Args: []string{"-p"}}},
	{"Xcode", command.Request{Name: "xcodebuild", Args: []string{"-version"}}},
	{"Swift", command.Request{Name: "swift", Args: []string{"--version"}}},
	{"Simulator runtimes", command.Request{Name: "xcrun", Args: []string{"simctl", "list", "runtimes"}}},
}

func doctor(ctx context.Context, _ schema.Args) (*schema.Response, error) {
	exec := command.FromContext(ctx)

	var b strings.Builder
	failed := 0
	for _, check := range doctorChecks {
		res, err := exec.Run(ctx, check.req)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(&b, "%s: unavailable (%v)\n", check.label, err)
		case !res.Success():
			failed++
			fmt.Fprintf(&b, "%s: error (exit code %d) %s\n", check.label, res.ExitCode, strings.TrimSpace(res.Stderr))
		default:
			fmt.Fprintf(&b, "%s: %s\n", check.label, strings.TrimSpace(command.Tail(res.Stdout, 5)))
		}
	}

	if failed > 0 {
		return schema.Failure("%d of %d checks failed.\n%s", failed, len(doctorChecks), strings.TrimRight(b.String(), "\n")), nil
	}
	return schema.Text("%s", strings.TrimRight(b.String(), "\n")), nil
}
