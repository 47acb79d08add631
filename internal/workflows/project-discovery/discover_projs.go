package projectdiscovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const defaultMaxDepth = 5

var DiscoverProjs = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "discover_projs",
		Description: "Scans a directory for .xcodeproj and .xcworkspace bundles.",
		Schema: []byte(`{
  "type": "object",
  "required": ["workspaceRoot"],
  "properties": {
    "workspaceRoot": {"type": "string", "description": "Directory to scan."},
    "maxDepth": {"type": "integer", "minimum": 0, "description": "Maximum directory depth (default 5)."}
  }
}`),
		Handler: discoverProjs,
	}
})

func discoverProjs(ctx context.Context, args schema.Args) (*schema.Response, error) {
	root, err := args.RequireString("workspaceRoot")
	if err != nil {
		return nil, err
	}
	maxDepth := args.Int("maxDepth", defaultMaxDepth)

	projects, workspaces, err := findBundles(ctx, root, maxDepth)
	if err != nil {
		return schema.Failure("Failed to scan %s: %v", root, err), nil
	}
	if len(projects) == 0 && len(workspaces) == 0 {
		return schema.Text("No Xcode projects or workspaces found under %s.", root), nil
	}

	var b strings.Builder
	b.WriteString("Discovery finished.\n")
	if len(projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, p := range projects {
			b.WriteString("- " + p + "\n")
		}
	}
	if len(workspaces) > 0 {
		b.WriteString("\nWorkspaces:\n")
		for _, w := range workspaces {
			b.WriteString("- " + w + "\n")
		}
	}
	return schema.Text("%s", strings.TrimRight(b.String(), "\n")), nil
}

func findBundles(ctx context.Context, root string, maxDepth int) (projects, workspaces []string, err error) {
	root = filepath.Clean(root)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "build" || name == "DerivedData" || name == "Pods") {
			return filepath.SkipDir
		}
		switch filepath.Ext(name) {
		case ".xcodeproj":
			projects = append(projects, path)
			return filepath.SkipDir
		case ".xcworkspace":
			workspaces = append(workspaces, path)
			return filepath.SkipDir
		}
		if depth(root, path) >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	sort.Strings(projects)
	sort.Strings(workspaces)
	return projects, workspaces, err
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
