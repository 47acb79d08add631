// Package projectdiscovery finds Xcode projects and inspects their schemes
// and build settings.
package projectdiscovery

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

var Workflow = schema.Declaration{
	Name:         "Project Discovery",
	Description:  "Discover Xcode projects and workspaces in a directory, list their schemes and show build settings.",
	Platforms:    []string{"iOS", "macOS", "watchOS", "tvOS", "visionOS"},
	ProjectTypes: []string{"project", "workspace"},
	Capabilities: []string{"discovery", "inspection"},
}
