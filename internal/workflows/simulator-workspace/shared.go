package simulatorworkspace

import (
	projectdiscovery "github.com/cameroncooke/XcodeBuildMCP-sub013/internal/workflows/project-discovery"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/workflows/utilities"
)

// Tools owned by other workflows, offered here by reference.
var (
	DiscoverProjs = projectdiscovery.DiscoverProjs
	ListSchemes   = projectdiscovery.ListSchemes
	Clean         = utilities.Clean
)
