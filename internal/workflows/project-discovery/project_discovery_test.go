package projectdiscovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeExec(t *testing.T, res *command.Result, got *command.Request) context.Context {
	t.Helper()
	return command.WithExecutor(context.Background(), command.ExecutorFunc(
		func(_ context.Context, req command.Request) (*command.Result, error) {
			if got != nil {
				*got = req
			}
			return res, nil
		}))
}

func TestDiscoverProjs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		"App/App.xcodeproj/project.xcworkspace",
		"App.xcworkspace",
		"Packages/Core/Core.xcodeproj",
		".build/Hidden.xcodeproj",
		"a/b/c/d/e/f/Deep.xcodeproj",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	resp, err := DiscoverProjs().Handler(context.Background(), schema.Args{"workspaceRoot": root})
	require.NoError(t, err)
	require.False(t, resp.IsError, resp.Text)

	assert.Contains(t, resp.Text, filepath.Join(root, "App", "App.xcodeproj"))
	assert.Contains(t, resp.Text, filepath.Join(root, "Packages", "Core", "Core.xcodeproj"))
	assert.Contains(t, resp.Text, filepath.Join(root, "App.xcworkspace"))
	assert.NotContains(t, resp.Text, "project.xcworkspace")
	assert.NotContains(t, resp.Text, "Hidden")
	assert.NotContains(t, resp.Text, "Deep")

	resp, err = DiscoverProjs().Handler(context.Background(), schema.Args{"workspaceRoot": root, "maxDepth": float64(10)})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Deep.xcodeproj")
}

func TestDiscoverProjs_Empty(t *testing.T) {
	resp, err := DiscoverProjs().Handler(context.Background(), schema.Args{"workspaceRoot": t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "No Xcode projects")
}

func TestDiscoverProjs_MissingRoot(t *testing.T) {
	resp, err := DiscoverProjs().Handler(context.Background(), schema.Args{"workspaceRoot": filepath.Join(t.TempDir(), "nope")})
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	_, err = DiscoverProjs().Handler(context.Background(), schema.Args{})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestListSchemes(t *testing.T) {
	var got command.Request
	ctx := fakeExec(t, &command.Result{
		Stdout: `{"workspace":{"name":"App","schemes":["App","AppTests"]}}`,
	}, &got)

	resp, err := ListSchemes().Handler(ctx, schema.Args{"workspacePath": "App.xcworkspace"})
	require.NoError(t, err)
	assert.Equal(t, "Schemes:\n- App\n- AppTests", resp.Text)
	assert.Equal(t, []string{"-workspace", "App.xcworkspace", "-list", "-json"}, got.Args)
}

func TestListSchemes_Failures(t *testing.T) {
	ctx := fakeExec(t, &command.Result{ExitCode: 66, Stderr: "does not exist"}, nil)
	resp, err := ListSchemes().Handler(ctx, schema.Args{"projectPath": "Missing.xcodeproj"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	ctx = fakeExec(t, &command.Result{Stdout: "not json"}, nil)
	resp, err = ListSchemes().Handler(ctx, schema.Args{"projectPath": "App.xcodeproj"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	_, err = ListSchemes().Handler(ctx, schema.Args{})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestShowBuildSettings(t *testing.T) {
	var got command.Request
	ctx := fakeExec(t, &command.Result{Stdout: "PRODUCT_NAME = App\n"}, &got)

	resp, err := ShowBuildSettings().Handler(ctx, schema.Args{"projectPath": "App.xcodeproj", "scheme": "App"})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "PRODUCT_NAME = App")
	assert.Equal(t, "xcodebuild -project App.xcodeproj -scheme App -showBuildSettings", got.String())
}
