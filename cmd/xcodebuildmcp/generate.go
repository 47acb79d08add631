package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/logging"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/scanner"
)

const generatedFile = "registry_gen.go"

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the workflow registry from the tool source tree",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}

	cmd.Flags().String("root", "internal/workflows", "Tool source tree; each subdirectory is a workflow")
	cmd.Flags().String("out", "", "Output file (default: <root>/"+generatedFile+")")
	cmd.Flags().StringSlice("deny", nil, "File names that never hold tools (default: doc.go)")
	cmd.Flags().String("import-prefix", "", "Import path of the root (default: derived from go.mod)")
	cmd.Flags().Bool("check", false, "Fail if the generated file is out of date instead of writing it")
	cmd.Flags().Bool("watch", false, "Regenerate whenever a workflow source file changes")
	cmd.Flags().Duration("debounce", scanner.DefaultDebounce, "Quiet period before regenerating in watch mode")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	out, _ := cmd.Flags().GetString("out")
	deny, _ := cmd.Flags().GetStringSlice("deny")
	importPrefix, _ := cmd.Flags().GetString("import-prefix")
	check, _ := cmd.Flags().GetBool("check")
	watch, _ := cmd.Flags().GetBool("watch")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		color.NoColor = true
	}

	if out == "" {
		out = filepath.Join(root, generatedFile)
	}
	opts := scanner.Options{
		Root:         root,
		Deny:         deny,
		ImportPrefix: importPrefix,
		Logger:       logging.New(cmd.ErrOrStderr(), "warn", "text"),
	}
	w := cmd.OutOrStdout()

	if check {
		return checkGenerated(cmd.Context(), w, opts, out)
	}
	if watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		color.New(color.FgCyan).Fprintf(w, "watching %s (debounce %s)\n", root, debounce)
		return scanner.Watch(ctx, opts, out, debounce, func(res *scanner.Result, written bool, err error) {
			if err != nil {
				color.New(color.FgRed).Fprintf(w, "%s generate failed: %v\n", time.Now().Format(time.TimeOnly), err)
				return
			}
			reportScan(w, res, out, written)
		})
	}

	res, written, err := scanner.Generate(cmd.Context(), opts, out)
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
		return exitError(exitScanFailure, "generate: %v", err)
	}
	reportScan(w, res, out, written)
	return nil
}

// checkGenerated compares the rendered registry with the file on disk.
func checkGenerated(ctx context.Context, w io.Writer, opts scanner.Options, out string) error {
	res, err := scanner.Scan(ctx, opts)
	if err != nil {
		return exitError(exitScanFailure, "generate: %v", err)
	}
	src, err := scanner.Render(res)
	if err != nil {
		return exitError(exitScanFailure, "generate: %v", err)
	}
	existing, err := os.ReadFile(out)
	if err != nil || !bytes.Equal(existing, src) {
		color.New(color.FgRed).Fprintf(w, "✗ %s is out of date; run xcodebuildmcp generate\n", out)
		return exitError(exitFailure, "%s is out of date", out)
	}
	color.New(color.FgGreen).Fprintf(w, "✓ %s is up to date (%d workflows)\n", out, len(res.Workflows))
	return nil
}

func reportScan(w io.Writer, res *scanner.Result, out string, written bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	for _, issue := range res.Diagnostics.Warnings {
		yellow.Fprint(w, "  ! ")
		fmt.Fprintln(w, issue.String())
	}
	for _, wf := range res.Workflows {
		green.Fprint(w, "  ▶ ")
		fmt.Fprintf(w, "%-22s", wf.ID)
		gray.Fprintf(w, " %d tools\n", len(wf.Factories))
	}
	if written {
		green.Fprintf(w, "✓ wrote %s", out)
	} else {
		gray.Fprintf(w, "✓ %s unchanged", out)
	}
	fmt.Fprintf(w, " (%d workflows, %d warnings)\n", len(res.Workflows), len(res.Diagnostics.Warnings))
}
