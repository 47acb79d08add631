package macosworkspace

import (
	"context"
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacTools(t *testing.T) {
	var got []command.Request
	ctx := command.WithExecutor(context.Background(), command.ExecutorFunc(
		func(_ context.Context, req command.Request) (*command.Result, error) {
			got = append(got, req)
			return &command.Result{}, nil
		}))

	_, err := BuildMacWs().Handler(ctx, schema.Args{"workspacePath": "Mac.xcworkspace", "scheme": "Mac", "arch": "arm64"})
	require.NoError(t, err)
	_, err = TestMacWs().Handler(ctx, schema.Args{"workspacePath": "Mac.xcworkspace", "scheme": "Mac"})
	require.NoError(t, err)
	resp, err := LaunchMacApp().Handler(ctx, schema.Args{"appPath": "/build/Mac.app", "args": []any{"-v"}})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	require.Len(t, got, 3)
	assert.Contains(t, got[0].Args, "platform=macOS,arch=arm64")
	assert.Equal(t, "test", got[1].Args[len(got[1].Args)-1])
	assert.Equal(t, "open /build/Mac.app --args -v", got[2].String())
}

func TestLaunchMacApp_RejectsNonBundle(t *testing.T) {
	resp, err := LaunchMacApp().Handler(context.Background(), schema.Args{"appPath": "/build/tool"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}
