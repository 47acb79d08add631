package simulatorproject

import simulatorworkspace "github.com/cameroncooke/XcodeBuildMCP-sub013/internal/workflows/simulator-workspace"

// Simulator management tools owned by the workspace workflow.
var (
	ListSims     = simulatorworkspace.ListSims
	BootSim      = simulatorworkspace.BootSim
	LaunchAppSim = simulatorworkspace.LaunchAppSim
)
