package classifier

import (
	"fmt"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// BuildPrompt renders the classification prompt from workflow metadata.
func BuildPrompt(task string, workflows []schema.WorkflowDescriptor) string {
	var b strings.Builder
	b.WriteString("You are selecting which Xcode development workflows to enable for a task.\n\n")
	fmt.Fprintf(&b, "Task: %s\n\n", task)
	b.WriteString("Available workflows:\n")
	for _, w := range workflows {
		fmt.Fprintf(&b, "- %s: %s", w.ID, w.Description)
		if len(w.Platforms) > 0 {
			fmt.Fprintf(&b, " [platforms: %s]", strings.Join(w.Platforms, ", "))
		}
		if len(w.ProjectTypes) > 0 {
			fmt.Fprintf(&b, " [project types: %s]", strings.Join(w.ProjectTypes, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Guidance:
- Pick workflows by project kind: "workspace" workflows need a .xcworkspace, "project" workflows need a .xcodeproj, and Swift packages use swift-package.
- Pick workflows by target platform: simulator, physical device or macOS.
- Choose the smallest set of workflows that covers the task. If the project kind is unclear, include project-discovery.

Respond with ONLY a JSON array of workflow ids, for example ["simulator-workspace"]. No prose.`)
	return b.String()
}
