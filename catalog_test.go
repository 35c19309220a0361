package xtoast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xtoast"
)

func TestDefaults(t *testing.T) {
	c := xtoast.Defaults()

	assert.Equal(t, 5, c.Limit)
	assert.True(t, c.ShowClose)
	assert.Equal(t, xtoast.PositionBottomRight, c.Position)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.Equal(t, xtoast.ThemeDefault, c.Theme)
	require.NoError(t, c.Validate())
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *xtoast.Catalog)
	}{
		{"zero limit", func(c *xtoast.Catalog) { c.Limit = 0 }},
		{"negative timeout", func(c *xtoast.Catalog) { c.Timeout = -time.Second }},
		{"unknown position", func(c *xtoast.Catalog) { c.Position = "middle" }},
		{"unknown theme", func(c *xtoast.Catalog) { c.Theme = "neon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := xtoast.Defaults()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), xtoast.ErrInvalidCatalog)
		})
	}
}

func TestCatalogFromMap(t *testing.T) {
	t.Run("reads every key", func(t *testing.T) {
		c := xtoast.CatalogFromMap(map[string]any{
			"limit":      3,
			"show_close": false,
			"position":   "top-left",
			"timeout":    "250ms",
			"theme":      "bootstrap",
		})
		assert.Equal(t, xtoast.Catalog{
			Limit:     3,
			ShowClose: false,
			Position:  xtoast.PositionTopLeft,
			Timeout:   250 * time.Millisecond,
			Theme:     xtoast.ThemeBootstrap,
		}, c)
	})

	t.Run("bare numbers are milliseconds", func(t *testing.T) {
		assert.Equal(t, 1500*time.Millisecond, xtoast.CatalogFromMap(map[string]any{"timeout": 1500}).Timeout)
		assert.Equal(t, 2500*time.Millisecond, xtoast.CatalogFromMap(map[string]any{"timeout": float64(2500)}).Timeout)
	})

	t.Run("explicit null disables timeout", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), xtoast.CatalogFromMap(map[string]any{"timeout": nil}).Timeout)
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		c := xtoast.CatalogFromMap(map[string]any{
			"limit":    0,
			"position": "middle",
			"theme":    "neon",
			"timeout":  "soon",
		})
		assert.Equal(t, xtoast.Defaults(), c)
		require.NoError(t, c.Validate())
	})

	t.Run("nil map gives defaults", func(t *testing.T) {
		assert.Equal(t, xtoast.Defaults(), xtoast.CatalogFromMap(nil))
	})
}

func TestBuild_RejectsInvalidCatalog(t *testing.T) {
	c := xtoast.Defaults()
	c.Limit = 0

	_, err := xtoast.NewBusBuilder().WithCatalog(c).Build()
	assert.ErrorIs(t, err, xtoast.ErrInvalidCatalog)
}

func TestBuild_UnknownCodec(t *testing.T) {
	_, err := xtoast.NewBusBuilder().WithCodec("msgpack").Build()
	assert.Error(t, err)
}
