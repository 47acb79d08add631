package command

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor() *ProcessExecutor {
	return NewProcessExecutor(Config{
		DefaultTimeout: 10 * time.Second,
		MaxOutputSize:  1024 * 1024,
	})
}

func TestProcessExecutor_Echo(t *testing.T) {
	res, err := newTestExecutor().Run(context.Background(), Request{Name: "echo", Args: []string{"hello", "world"}})
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
}

func TestProcessExecutor_ExitCode(t *testing.T) {
	res, err := newTestExecutor().Run(context.Background(), Request{Name: "/bin/sh", Args: []string{"-c", "exit 42"}})
	require.NoError(t, err)
	assert.Equal(t, 42, res.ExitCode)
	assert.False(t, res.Success())
}

func TestProcessExecutor_Stderr(t *testing.T) {
	res, err := newTestExecutor().Run(context.Background(), Request{
		Name: "/bin/sh",
		Args: []string{"-c", "echo error_output >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "error_output\n", res.Stderr)
	assert.Equal(t, "", res.Stdout)
	assert.Equal(t, "error_output\n", res.Output())
}

func TestProcessExecutor_StdinEnvDir(t *testing.T) {
	dir := t.TempDir()
	res, err := newTestExecutor().Run(context.Background(), Request{
		Name:  "/bin/sh",
		Args:  []string{"-c", `cat; echo " $XBM_TEST_VAR"; pwd`},
		Dir:   dir,
		Env:   map[string]string{"XBM_TEST_VAR": "value"},
		Stdin: "from stdin",
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "from stdin value", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], filepath.Base(dir)), lines[1])
}

func TestProcessExecutor_Timeout(t *testing.T) {
	res, err := newTestExecutor().Run(context.Background(), Request{
		Name:    "sleep",
		Args:    []string{"60"},
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, res.Killed)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.False(t, res.Success())
}

func TestProcessExecutor_CommandNotFound(t *testing.T) {
	_, err := newTestExecutor().Run(context.Background(), Request{Name: "nonexistent_binary_xyz_xcodebuildmcp_test"})
	require.Error(t, err)

	var pErr *schema.PluginError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, schema.ErrCodeExecution, pErr.Code)
}

func TestProcessExecutor_MissingName(t *testing.T) {
	_, err := newTestExecutor().Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestProcessExecutor_MaxOutputSize(t *testing.T) {
	exec := NewProcessExecutor(Config{MaxOutputSize: 64})
	res, err := exec.Run(context.Background(), Request{
		Name: "/bin/sh",
		Args: []string{"-c", "dd if=/dev/zero bs=1024 count=1 2>/dev/null | tr '\\0' 'A'"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Stdout, 64)
	assert.Equal(t, 0, res.ExitCode)
}

func TestProcessExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExecutor().Run(ctx, Request{Name: "echo", Args: []string{"hello"}})
	require.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Same(t, defaultExecutor, FromContext(context.Background()))

	var got Request
	fake := ExecutorFunc(func(_ context.Context, req Request) (*Result, error) {
		got = req
		return &Result{Stdout: "ok"}, nil
	})
	ctx := WithExecutor(context.Background(), fake)

	res, err := FromContext(ctx).Run(ctx, Request{Name: "xcrun", Args: []string{"simctl", "list"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Stdout)
	assert.Equal(t, "xcrun simctl list", got.String())
}

// --- limitedWriter tests ---

func TestLimitedWriter_UnderLimit(t *testing.T) {
	var buf strings.Builder
	lw := &limitedWriter{w: &buf, limit: 100}

	n, err := lw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
	assert.Equal(t, int64(5), lw.written)
}

func TestLimitedWriter_OverLimit(t *testing.T) {
	var buf strings.Builder
	lw := &limitedWriter{w: &buf, limit: 3}

	n, err := lw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n) // Reports full len consumed.
	assert.Equal(t, "hel", buf.String())

	n, err = lw.Write([]byte("world"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hel", buf.String())
}
