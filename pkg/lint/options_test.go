package lint_test

import (
	"testing"

	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleOptions struct {
	Limit int      `mapstructure:"limit"`
	Names []string `mapstructure:"names"`
}

func TestDecodeOptions(t *testing.T) {
	t.Run("weakly typed input", func(t *testing.T) {
		var opts sampleOptions
		err := lint.DecodeOptions(map[string]any{
			"limit": "3",
			"names": []any{"a", "b"},
		}, &opts)
		require.NoError(t, err)

		assert.Equal(t, 3, opts.Limit)
		assert.Equal(t, []string{"a", "b"}, opts.Names)
	})

	t.Run("nil map keeps defaults", func(t *testing.T) {
		opts := sampleOptions{Limit: 10, Names: []string{"keep"}}
		require.NoError(t, lint.DecodeOptions(nil, &opts))

		assert.Equal(t, 10, opts.Limit)
		assert.Equal(t, []string{"keep"}, opts.Names)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		opts := sampleOptions{Limit: 10}
		require.NoError(t, lint.DecodeOptions(map[string]any{"bogus": true}, &opts))

		assert.Equal(t, 10, opts.Limit)
	})

	t.Run("incompatible value", func(t *testing.T) {
		var opts sampleOptions
		err := lint.DecodeOptions(map[string]any{
			"limit": map[string]any{"nested": 1},
		}, &opts)
		assert.Error(t, err)
	})
}
