package workflows

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/scanner"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TestRegistryUpToDate fails when registry_gen.go no longer matches the
// workflow packages in this directory. Run `go generate ./internal/workflows`.
func TestRegistryUpToDate(t *testing.T) {
	res, err := scanner.Scan(context.Background(), scanner.Options{Root: "."})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics.Warnings)

	assert.Equal(t, res.IDs(), sortedKeys(Loaders))
	assert.Equal(t, res.IDs(), sortedKeys(Metadata))

	for _, wf := range res.Workflows {
		assert.Equal(t, wf.Descriptor, Metadata[wf.ID], wf.ID)

		mod, err := Loaders[wf.ID](context.Background())
		require.NoError(t, err, wf.ID)
		assert.Equal(t, wf.Factories, sortedKeys(mod.Tools), wf.ID)
		assert.Equal(t, wf.Descriptor.DisplayName, mod.Metadata.Name)
	}
}

func TestToolNamesAreUnique(t *testing.T) {
	owners := map[string]*schema.Tool{}
	for _, id := range sortedKeys(Loaders) {
		mod, err := Loaders[id](context.Background())
		require.NoError(t, err)
		for _, tool := range mod.Tools {
			if prev, ok := owners[tool.Name]; ok {
				assert.Same(t, prev, tool, "tool %s has two implementations", tool.Name)
				continue
			}
			owners[tool.Name] = tool
		}
	}
	assert.Contains(t, owners, "list_sims")
	assert.Contains(t, owners, "swift_package_build")
}

func TestToolSchemasAreObjects(t *testing.T) {
	for _, id := range sortedKeys(Loaders) {
		mod, err := Loaders[id](context.Background())
		require.NoError(t, err)
		for local, tool := range mod.Tools {
			assert.NotEmpty(t, tool.Description, "%s.%s", id, local)
			assert.NotNil(t, tool.Handler, "%s.%s", id, local)
			var doc map[string]any
			require.NoError(t, json.Unmarshal(tool.Schema, &doc), "%s.%s", id, local)
			assert.Equal(t, "object", doc["type"], "%s.%s", id, local)
		}
	}
}
