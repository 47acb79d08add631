// Package macosworkspace builds, tests and launches macOS apps from an
// .xcworkspace.
package macosworkspace

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "macOS Workspace Development",
	Description:  "Build, test and launch macOS apps from .xcworkspace files.",
	Platforms:    []string{"macOS"},
	Targets:      []string{"mac"},
	ProjectTypes: []string{"workspace"},
	Capabilities: []string{"build", "test", "run"},
}
