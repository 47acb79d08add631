// Package simulatorworkspace builds, tests and runs apps from an
// .xcworkspace on iOS simulators, and owns the simulator management tools.
package simulatorworkspace

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "iOS Simulator Workspace Development",
	Description:  "Build, test, install and launch iOS apps on simulators from .xcworkspace files, and manage simulators.",
	Platforms:    []string{"iOS"},
	Targets:      []string{"simulator"},
	ProjectTypes: []string{"workspace"},
	Capabilities: []string{"build", "test", "run", "simulator-management"},
}
