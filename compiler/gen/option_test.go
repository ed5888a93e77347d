package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithPackage("example.com/app/generated")(c))
	assert.Equal(t, "example.com/app/generated", c.Package)

	err := WithPackage("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithTarget(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTarget("./generated")(c))
	assert.Equal(t, "./generated", c.Target)

	err := WithTarget("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(4)(c))
	assert.Equal(t, 4, c.Workers)

	require.NoError(t, WithWorkers(0)(c))
	assert.Equal(t, 0, c.Workers)

	err := WithWorkers(-1)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithLayers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithLayers(LayerSchema, LayerModel)(c))
	assert.Equal(t, []Layer{LayerSchema, LayerModel}, c.Layers)

	err := WithLayers("views")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Len(t, c.Layers, 2, "failed option leaves config untouched")
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithPackage(""), WithTarget("out"))
		require.Error(t, err)
		assert.Empty(t, c.Target)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithPackage(""), WithTarget(""), WithHeader("h"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "Target")
		assert.Equal(t, "h", c.Header)
	})
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig(WithPackage("example.com/app/gen"), WithTarget("gen"), WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/gen", c.Package)
	assert.Equal(t, "gen", c.Target)
	assert.Equal(t, 2, c.Workers)

	_, err = NewConfig(WithTarget(""))
	require.Error(t, err)

	assert.Panics(t, func() { MustNewConfig(WithPackage("")) })
	assert.NotPanics(t, func() { MustNewConfig(WithPackage("p")) })
}
