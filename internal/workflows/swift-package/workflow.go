// Package swiftpackage drives Swift Package Manager.
package swiftpackage

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "Swift Package Manager",
	Description:  "Build, test, run and clean Swift packages with swift build, swift test and swift run.",
	Platforms:    []string{"iOS", "macOS", "linux"},
	ProjectTypes: []string{"swift-package"},
	Capabilities: []string{"build", "test", "run", "clean"},
}
