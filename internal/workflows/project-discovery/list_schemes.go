package projectdiscovery

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var ListSchemes = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "list_schemes",
		Description: "Lists the schemes of an Xcode workspace or project.",
		Schema: []byte(`{
  "type": "object",
  "properties": {
    "workspacePath": {"type": "string", "description": "Path to the .xcworkspace."},
    "projectPath": {"type": "string", "description": "Path to the .xcodeproj."}
  }
}`),
		Handler: listSchemes,
	}
})

type listOutput struct {
	Project   *listContainer `json:"project"`
	Workspace *listContainer `json:"workspace"`
}

type listContainer struct {
	Name    string   `json:"name"`
	Schemes []string `json:"schemes"`
}

func listSchemes(ctx context.Context, args schema.Args) (*schema.Response, error) {
	workspace, project, err := command.ProjectRef(args)
	if err != nil {
		return nil, err
	}

	res, err := command.Xcodebuild(ctx, command.BuildSpec{
		Workspace: workspace,
		Project:   project,
		Extra:     []string{"-list", "-json"},
	})
	if err != nil || !res.Success() {
		return command.Respond("List schemes", res, err)
	}

	var out listOutput
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return schema.Failure("List schemes: unexpected xcodebuild output: %v", err), nil
	}
	container := out.Workspace
	if container == nil {
		container = out.Project
	}
	if container == nil || len(container.Schemes) == 0 {
		return schema.Text("No schemes found."), nil
	}
	return schema.Text("Schemes:\n- %s", strings.Join(container.Schemes, "\n- ")), nil
}
