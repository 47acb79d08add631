package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/logging"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/registry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/scheduler"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/store"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/telemetry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/workflows"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/mcp"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("mode", "", "Activation mode: dynamic or static")
	cmd.Flags().String("transport", "", "Transport: stdio or sse")
	cmd.Flags().String("listen-addr", "", "Listen address for the sse transport")
	cmd.Flags().String("base-url", "", "Public base URL for the sse transport")
	cmd.Flags().StringSlice("enable", nil, "Workflows to activate at start (repeatable or comma separated)")
	cmd.Flags().String("db-path", "", "Activation history database (empty disables history)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "", "Log format: text or json")
	cmd.Flags().Bool("trace-stderr", false, "Write OpenTelemetry spans to stderr")
	return cmd
}

// applyServeFlags overrides cfg with the flags the user set explicitly.
func applyServeFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("mode", &cfg.Mode)
	str("transport", &cfg.Transport)
	str("listen-addr", &cfg.ListenAddr)
	str("base-url", &cfg.BaseURL)
	str("db-path", &cfg.DBPath)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	if flags.Changed("enable") {
		cfg.EnabledWorkflows, _ = flags.GetStringSlice("enable")
	}
	if flags.Changed("trace-stderr") {
		cfg.TraceStderr, _ = flags.GetBool("trace-stderr")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath, os.Getenv)
	if err != nil {
		return exitError(exitUsage, "config: %v", err)
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.validate(); err != nil {
		return exitError(exitUsage, "config: %v", err)
	}

	// stdout belongs to the stdio transport.
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx, cfg, logger, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Mode == string(mcp.ModeStatic) || len(cfg.EnabledWorkflows) > 0 {
		out := srv.ActivateAtStartup(ctx, cfg.EnabledWorkflows)
		if err := out.Err(); err != nil {
			logger.Warn("startup activation incomplete", slog.String("error", err.Error()))
		}
	}

	logger.Info("xcodebuildmcp starting",
		slog.String("version", version),
		slog.String("mode", cfg.Mode),
		slog.String("transport", cfg.Transport),
		slog.Int("workflows", len(workflows.Loaders)),
	)

	switch cfg.Transport {
	case "sse":
		err = srv.ServeSSE(ctx, cfg.ListenAddr, cfg.BaseURL)
	default:
		err = srv.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("xcodebuildmcp stopped")
	return nil
}

// buildServer wires the registry, history, telemetry and MCP server. The
// returned cleanup releases everything it opened.
func buildServer(ctx context.Context, cfg Config, logger *slog.Logger, traceOut io.Writer) (*mcp.Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.TraceStderr {
		shutdown, err := telemetry.InstallTraceWriter(traceOut, version)
		if err != nil {
			return nil, cleanup, fmt.Errorf("telemetry: %w", err)
		}
		closers = append(closers, func() { _ = shutdown(context.Background()) })
	}
	tel, err := telemetry.NewGlobal()
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("telemetry: %w", err)
	}

	var history store.Store
	if cfg.DBPath != "" {
		st, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("open history: %w", err)
		}
		closers = append(closers, func() { _ = st.Close() })
		history = st

		sched, err := scheduler.NewScheduler(st, scheduler.Config{
			Schedule:  cfg.PruneSchedule,
			Retention: cfg.HistoryRetention,
		}, logger)
		if err != nil {
			cleanup()
			return nil, func() {}, exitError(exitUsage, "prune_schedule: %v", err)
		}
		if err := sched.Start(ctx); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("start pruner: %w", err)
		}
		closers = append(closers, func() { _ = sched.Stop() })
	}

	srv, err := mcp.NewServer(mcp.ServerDeps{
		Registry:          registry.New(workflows.Loaders, workflows.Metadata),
		History:           history,
		Executor:          command.NewProcessExecutor(command.Config{Logger: logger}),
		Telemetry:         tel,
		Logger:            logger,
		Mode:              mcp.Mode(cfg.Mode),
		Version:           version,
		SamplingMaxTokens: cfg.SamplingMaxTokens,
	})
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return srv, cleanup, nil
}
