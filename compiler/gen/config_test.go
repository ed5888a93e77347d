package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPkgPath(t *testing.T) {
	c := &Config{Package: "example.com/app/generated/"}
	assert.Equal(t, "example.com/app/generated/dbmodel", c.PkgPath(LayerModel))
	assert.Equal(t, "example.com/app/generated/sql", c.PkgPath(LayerSQL))
}

func TestConfigHeaderComment(t *testing.T) {
	assert.Equal(t, DefaultHeader, (&Config{}).HeaderComment())
	assert.Equal(t, "custom", (&Config{Header: "custom"}).HeaderComment())
}

func TestConfigLayerEnabled(t *testing.T) {
	t.Run("all layers by default", func(t *testing.T) {
		c := &Config{}
		for _, l := range Layers {
			assert.True(t, c.LayerEnabled(l), l)
		}
	})

	t.Run("restricted layers keep sql", func(t *testing.T) {
		c := &Config{Layers: []Layer{LayerSchema}}
		assert.True(t, c.LayerEnabled(LayerSchema))
		assert.True(t, c.LayerEnabled(LayerSQL))
		assert.False(t, c.LayerEnabled(LayerModel))
		assert.False(t, c.LayerEnabled(LayerController))
	})
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, (&Config{Package: "p", Target: "t"}).Validate())

	err := (&Config{Target: "t"}).Validate()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "Package")

	err = (&Config{Package: "p"}).Validate()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "Target")

	err = (&Config{Package: "p", Target: "t", Layers: []Layer{"views"}}).Validate()
	require.ErrorIs(t, err, ErrMissingConfig)
}
