// Package deviceworkspace builds, tests and deploys workspace apps to
// physical devices.
package deviceworkspace

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "iOS Device Workspace Development",
	Description:  "Build, test, install and launch apps on physical Apple devices from .xcworkspace files.",
	Platforms:    []string{"iOS", "watchOS", "tvOS", "visionOS"},
	Targets:      []string{"device"},
	ProjectTypes: []string{"workspace"},
	Capabilities: []string{"build", "test", "run", "device-management"},
}
