package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// maxResponseLines bounds how much tool output is echoed back to the client.
const maxResponseLines = 60

// BuildSpec describes one xcodebuild invocation.
type BuildSpec struct {
	Action          string
	Workspace       string
	Project         string
	Scheme          string
	Configuration   string
	Destination     string
	DerivedDataPath string
	Extra           []string
}

// Args renders the xcodebuild argument list.
func (b BuildSpec) Args() []string {
	var args []string
	switch {
	case b.Workspace != "":
		args = append(args, "-workspace", b.Workspace)
	case b.Project != "":
		args = append(args, "-project", b.Project)
	}
	if b.Scheme != "" {
		args = append(args, "-scheme", b.Scheme)
	}
	if b.Configuration != "" {
		args = append(args, "-configuration", b.Configuration)
	}
	if b.Destination != "" {
		args = append(args, "-destination", b.Destination)
	}
	if b.DerivedDataPath != "" {
		args = append(args, "-derivedDataPath", b.DerivedDataPath)
	}
	args = append(args, b.Extra...)
	if b.Action != "" {
		args = append(args, b.Action)
	}
	return args
}

// Xcodebuild runs xcodebuild with spec using the executor carried by ctx.
func Xcodebuild(ctx context.Context, spec BuildSpec) (*Result, error) {
	return FromContext(ctx).Run(ctx, Request{Name: "xcodebuild", Args: spec.Args()})
}

// Xcrun runs `xcrun args...` using the executor carried by ctx.
func Xcrun(ctx context.Context, args ...string) (*Result, error) {
	return FromContext(ctx).Run(ctx, Request{Name: "xcrun", Args: args})
}

// SimulatorDestination builds an xcodebuild destination for a simulator
// given either its UDID or its name.
func SimulatorDestination(platform, id, name string) string {
	if id != "" {
		return fmt.Sprintf("platform=%s Simulator,id=%s", platform, id)
	}
	return fmt.Sprintf("platform=%s Simulator,name=%s", platform, name)
}

// Respond converts a command outcome into a tool response. Process failures
// become error responses, never Go errors.
func Respond(label string, res *Result, err error) (*schema.Response, error) {
	if err != nil {
		return schema.Failure("%s failed: %v", label, err), nil
	}
	if res.Killed {
		return schema.Failure("%s timed out after %s.\n%s", label, res.Duration.Round(time.Millisecond), Tail(res.Output(), maxResponseLines)), nil
	}
	if !res.Success() {
		return schema.Failure("%s failed (exit code %d).\n%s", label, res.ExitCode, Tail(res.Output(), maxResponseLines)), nil
	}
	out := Tail(res.Stdout, maxResponseLines)
	if out == "" {
		return schema.Text("%s succeeded.", label), nil
	}
	return schema.Text("%s succeeded.\n%s", label, out), nil
}

// Tail returns the last n non-empty-trimmed lines of s.
func Tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return fmt.Sprintf("... (%d lines omitted)\n%s", len(lines)-n, strings.Join(lines[len(lines)-n:], "\n"))
}
