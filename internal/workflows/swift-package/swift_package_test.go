package swiftpackage

import (
	"context"
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwiftPackageTools(t *testing.T) {
	var got []string
	ctx := command.WithExecutor(context.Background(), command.ExecutorFunc(
		func(_ context.Context, req command.Request) (*command.Result, error) {
			got = append(got, req.String())
			return &command.Result{Stdout: "Build complete!\n"}, nil
		}))

	tests := []struct {
		name string
		tool schema.ToolFactory
		args schema.Args
		want string
	}{
		{
			name: "build",
			tool: SwiftPackageBuild,
			args: schema.Args{"packagePath": "/pkg", "targetName": "Core", "configuration": "release"},
			want: "swift build --package-path /pkg -c release --target Core",
		},
		{
			name: "test",
			tool: SwiftPackageTest,
			args: schema.Args{"packagePath": "/pkg", "filter": "CoreTests", "parallel": true},
			want: "swift test --package-path /pkg --filter CoreTests --parallel",
		},
		{
			name: "run",
			tool: SwiftPackageRun,
			args: schema.Args{"packagePath": "/pkg", "executableName": "cli", "arguments": []any{"--help"}, "timeoutSeconds": float64(5)},
			want: "swift run --package-path /pkg cli --help",
		},
		{
			name: "clean",
			tool: SwiftPackageClean,
			args: schema.Args{"packagePath": "/pkg", "configuration": "release"},
			want: "swift package --package-path /pkg clean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			resp, err := tt.tool().Handler(ctx, tt.args)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestSwiftPackage_MissingPath(t *testing.T) {
	_, err := SwiftPackageBuild().Handler(context.Background(), schema.Args{})
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}
