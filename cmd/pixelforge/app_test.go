package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/config"
	"github.com/ha1tch/pixelforge/internal/editor"
)

func newApp(t *testing.T, maxLayers int) *App {
	t.Helper()
	sess, err := editor.New(16, editor.WithMaxLayers(maxLayers))
	require.NoError(t, err)
	app, err := NewApp(sess, config.Default(), filepath.Join(t.TempDir(), "sprite.json"), 64, zap.NewNop())
	require.NoError(t, err)
	return app
}

func TestLayerPanelFitsDefaultCap(t *testing.T) {
	app := newApp(t, 25)
	assert.Equal(t, 25, app.layerRows())
	for app.sess.Stack().Len() < 25 {
		require.NoError(t, app.sess.AddLayer())
	}
	app.scrollLayers(true)
	assert.Zero(t, app.layerScroll)
	for i := range 25 {
		_, ok := app.layerRect(i)
		assert.True(t, ok, "layer %d", i)
	}
}

func TestLayerPanelScrollsPastDefaultCap(t *testing.T) {
	small := newApp(t, 25)
	app := newApp(t, 60)
	assert.Equal(t, small.height, app.height, "window does not grow with the cap")

	for app.sess.Stack().Len() < 60 {
		require.NoError(t, app.sess.AddLayer())
	}
	require.NoError(t, app.sess.SelectLayer(0))
	app.scrollLayers(true)
	assert.Equal(t, 60-app.layerRows(), app.layerScroll)
	r, ok := app.layerRect(0)
	require.True(t, ok, "current layer in view")
	assert.Less(t, r.Y, float32(app.height-layerFooter))
	_, ok = app.layerRect(59)
	assert.False(t, ok)

	app.layerScroll = 1000
	app.scrollLayers(false)
	assert.Equal(t, 60-app.layerRows(), app.layerScroll)
}

func TestLayerActionsAreBound(t *testing.T) {
	app := newApp(t, 25)
	for _, action := range []string{config.ActionRenameLayer, config.ActionMoveLayerUp, config.ActionMoveLayerDown} {
		assert.Contains(t, app.actions, action)
	}

	require.NoError(t, app.sess.AddLayer())
	app.run(config.ActionMoveLayerDown)
	assert.Equal(t, "Layer 2", app.sess.Stack().Layers()[0].Name)
	assert.Equal(t, 0, app.sess.Stack().Current())

	// The bottom layer cannot move down; that is a warning, not an error.
	app.run(config.ActionMoveLayerDown)
	assert.False(t, app.statusError)
	assert.NotEmpty(t, app.status)

	app.run(config.ActionRenameLayer)
	assert.Equal(t, 0, app.renaming)
	assert.Equal(t, "Layer 2", string(app.nameBuf))

	// Any layer change closes the entry.
	require.NoError(t, app.sess.SelectLayer(1))
	assert.Equal(t, -1, app.renaming)
}

func TestExportPNGSizes(t *testing.T) {
	app := newApp(t, 25)
	for _, size := range exportSizes {
		app.exportSize = size
		require.NoError(t, app.exportPNG())

		f, err := os.Open(fmt.Sprintf("%s-%d.png", app.exportBase(), size))
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, size, cfg.Width)
		assert.Equal(t, size, cfg.Height)
	}
}

