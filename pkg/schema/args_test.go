package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args{
		"scheme":  "App",
		"quiet":   true,
		"timeout": float64(30),
		"count":   json.Number("4"),
		"ids":     []any{"a", 1, "b"},
		"empty":   "",
	}

	assert.Equal(t, "App", args.String("scheme", ""))
	assert.Equal(t, "Debug", args.String("configuration", "Debug"))
	assert.Equal(t, "x", args.String("quiet", "x"))
	assert.True(t, args.Bool("quiet", false))
	assert.False(t, args.Bool("missing", false))
	assert.Equal(t, 30, args.Int("timeout", 0))
	assert.Equal(t, 4, args.Int("count", 0))
	assert.Equal(t, 7, args.Int("scheme", 7))
	assert.Equal(t, []string{"a", "b"}, args.Strings("ids"))
	assert.Nil(t, args.Strings("missing"))

	v, err := args.RequireString("scheme")
	require.NoError(t, err)
	assert.Equal(t, "App", v)

	_, err = args.RequireString("empty")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeValidation))
}
