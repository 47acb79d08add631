package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/expressions"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/workflows"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "List the workflows compiled into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkflows(cmd, registry.New(workflows.Loaders, workflows.Metadata))
		},
	}
	cmd.Flags().String("filter", "", `Boolean expression over workflow, e.g. "iOS" in workflow.platforms`)
	cmd.Flags().String("language", registry.DefaultFilterLanguage, "Filter language: cel or expr")
	cmd.Flags().String("projection", "", "jq program applied to the matching workflows; prints JSON")
	cmd.Flags().Bool("json", false, "Print descriptors as JSON")
	cmd.Flags().Bool("tools", false, "Load each workflow and list its tools")
	return cmd
}

func runWorkflows(cmd *cobra.Command, reg *registry.Registry) error {
	filter, _ := cmd.Flags().GetString("filter")
	language, _ := cmd.Flags().GetString("language")
	projection, _ := cmd.Flags().GetString("projection")
	asJSON, _ := cmd.Flags().GetBool("json")
	withTools, _ := cmd.Flags().GetBool("tools")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		color.NoColor = true
	}

	engines, err := expressions.NewSet()
	if err != nil {
		return err
	}
	result, err := reg.Query(cmd.Context(), engines, registry.Query{
		Filter:     filter,
		Language:   language,
		Projection: projection,
	})
	if err != nil {
		return exitError(exitUsage, "query: %v", err)
	}

	w := cmd.OutOrStdout()
	if asJSON || projection != "" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	items, _ := result.([]any)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		d, _ := reg.Metadata(id)

		cyan.Fprintf(w, "%-22s", d.ID)
		fmt.Fprintf(w, " %s\n", d.DisplayName)
		gray.Fprintf(w, "%-22s %s\n", "", d.Description)
		if tags := descriptorTags(d); tags != "" {
			gray.Fprintf(w, "%-22s %s\n", "", tags)
		}
		if withTools {
			if err := printTools(cmd, reg, id); err != nil {
				color.New(color.FgRed).Fprintf(w, "%-22s load failed: %v\n", "", err)
			}
		}
	}
	fmt.Fprintf(w, "%d of %d workflows\n", len(items), reg.Len())
	return nil
}

func descriptorTags(d schema.WorkflowDescriptor) string {
	var parts []string
	if len(d.Platforms) > 0 {
		parts = append(parts, "platforms: "+strings.Join(d.Platforms, ", "))
	}
	if len(d.Targets) > 0 {
		parts = append(parts, "targets: "+strings.Join(d.Targets, ", "))
	}
	if len(d.ProjectTypes) > 0 {
		parts = append(parts, "project types: "+strings.Join(d.ProjectTypes, ", "))
	}
	return strings.Join(parts, " | ")
}

func printTools(cmd *cobra.Command, reg *registry.Registry, id string) error {
	loader, ok := reg.Loader(id)
	if !ok {
		return schema.NewErrorf(schema.ErrCodeNotFound, "workflow %s not found", id)
	}
	mod, err := loader.Load(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-22s tools: %s\n", "", strings.Join(mod.ToolNames(), ", "))
	return nil
}
