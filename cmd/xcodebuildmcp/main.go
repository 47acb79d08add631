// Command xcodebuildmcp serves Xcode tooling over MCP and generates the
// workflow registry.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xcodebuildmcp",
		Short: "Xcode build tools for MCP clients",
		Long: "xcodebuildmcp exposes Xcode, simulator, device and Swift package tooling to MCP clients, " +
			"enabling only the workflows a task needs.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to settings.yaml (default: ~/.xcodebuildmcp/settings.yaml)")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("xcodebuildmcp version %s\n", version))

	root.AddCommand(newServeCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newWorkflowsCmd())
	root.AddCommand(newVersionCmd())
	return root
}
