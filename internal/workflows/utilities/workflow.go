// Package utilities holds project maintenance tools shared by the other
// workflows.
package utilities

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "Project Utilities",
	Description:  "Clean build products and derived data, and diagnose the local Xcode toolchain.",
	Platforms:    []string{"iOS", "macOS", "watchOS", "tvOS", "visionOS"},
	Capabilities: []string{"clean", "diagnostics"},
}
