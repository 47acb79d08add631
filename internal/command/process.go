package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

const (
	defaultTimeout       = 10 * time.Minute
	defaultMaxOutputSize = 10 * 1024 * 1024 // 10MB
)

// Config configures a ProcessExecutor.
type Config struct {
	DefaultTimeout time.Duration
	MaxOutputSize  int64
	Logger         *slog.Logger
}

// ProcessExecutor runs requests as child processes.
type ProcessExecutor struct {
	cfg Config
}

// NewProcessExecutor creates a ProcessExecutor, filling in defaults.
func NewProcessExecutor(cfg Config) *ProcessExecutor {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultTimeout
	}
	if cfg.MaxOutputSize <= 0 {
		cfg.MaxOutputSize = defaultMaxOutputSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ProcessExecutor{cfg: cfg}
}

// Run executes req. It returns an error only if the process could not be
// started; exit status and timeouts are reported in the Result.
func (p *ProcessExecutor) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Name == "" {
		return nil, schema.NewError(schema.ErrCodeValidation, "command: missing executable name")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.cfg.DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, req.Name, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range req.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	if req.Stdin != "" {
		cmd.Stdin = strings.NewReader(req.Stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdoutBuf, limit: p.cfg.MaxOutputSize}
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: p.cfg.MaxOutputSize}

	p.cfg.Logger.DebugContext(ctx, "running command", "command", req.String(), "dir", req.Dir)

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	res := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: duration,
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, schema.NewErrorf(schema.ErrCodeExecution, "command %s: %v", req.Name, runErr).WithCause(runErr)
		}
		res.ExitCode = exitErr.ExitCode()
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			res.Killed = true
		}
	}

	p.cfg.Logger.DebugContext(ctx, "command finished",
		"command", req.Name,
		"exit_code", res.ExitCode,
		"killed", res.Killed,
		"duration_ms", duration.Milliseconds(),
	)
	return res, nil
}

// limitedWriter wraps a writer and silently discards bytes beyond the limit.
// Write always reports the full len(p) consumed to prevent the subprocess from
// blocking on a full pipe.
type limitedWriter struct {
	w       io.Writer
	limit   int64
	written int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	total := len(p)
	remaining := lw.limit - lw.written
	if remaining <= 0 {
		return total, nil
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := lw.w.Write(p)
	lw.written += int64(n)
	if err != nil {
		return total, err
	}
	return total, nil
}
