// Package simulatorproject builds and tests apps from an .xcodeproj on iOS
// simulators.
package simulatorproject

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "iOS Simulator Project Development",
	Description:  "Build and test iOS apps on simulators from .xcodeproj files, then boot simulators and launch the result.",
	Platforms:    []string{"iOS"},
	Targets:      []string{"simulator"},
	ProjectTypes: []string{"project"},
	Capabilities: []string{"build", "test", "run"},
}
