package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/pixelforge/internal/pixel"
)

var (
	red  = pixel.RGB(255, 0, 0)
	blue = pixel.RGB(0, 0, 255)
)

func TestLineHorizontal(t *testing.T) {
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, LinePoints(0, 0, 3, 0))
}

func TestLineSinglePoint(t *testing.T) {
	assert.Equal(t, []Point{{4, 4}}, LinePoints(4, 4, 4, 4))
}

func TestLineDiagonalAndReverse(t *testing.T) {
	assert.Equal(t, []Point{{0, 0}, {1, 1}, {2, 2}}, LinePoints(0, 0, 2, 2))
	assert.Equal(t, []Point{{3, 0}, {2, 0}, {1, 0}, {0, 0}}, LinePoints(3, 0, 0, 0))
}

func TestLineIsEightConnected(t *testing.T) {
	pts := LinePoints(1, 2, 13, 7)
	assert.Equal(t, Point{1, 2}, pts[0])
	assert.Equal(t, Point{13, 7}, pts[len(pts)-1])
	for i := 1; i < len(pts); i++ {
		dx := abs(pts[i].X - pts[i-1].X)
		dy := abs(pts[i].Y - pts[i-1].Y)
		assert.LessOrEqual(t, dx, 1)
		assert.LessOrEqual(t, dy, 1)
		assert.NotEqual(t, 0, dx+dy)
	}
	// steps along the major axis exactly once per column
	assert.Len(t, pts, 13)
}

func TestDrawLineClipsToBuffer(t *testing.T) {
	b := pixel.NewBuffer(16)
	assert.NotPanics(t, func() { DrawLine(b, -3, 0, 20, 0, red) })
	assert.Equal(t, 16, b.Painted())
}

func TestDisc(t *testing.T) {
	b := pixel.NewBuffer(16)
	DrawDisc(b, 5, 5, 2, red)
	assert.Equal(t, red, b.Get(5, 7), "distance exactly 2")
	assert.Equal(t, pixel.Transparent, b.Get(5, 8), "distance 3")
	assert.Equal(t, red, b.Get(6, 6))
	assert.Equal(t, pixel.Transparent, b.Get(7, 7))
	assert.Equal(t, 13, b.Painted())
}

func TestDiscZeroRadiusAndEdge(t *testing.T) {
	b := pixel.NewBuffer(16)
	DrawDisc(b, 0, 0, 0, red)
	assert.Equal(t, 1, b.Painted())

	b = pixel.NewBuffer(16)
	assert.NotPanics(t, func() { DrawDisc(b, 15, 15, 40, red) })
	assert.Equal(t, 256, b.Painted())
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 2, Radius(0, 2))
	assert.Equal(t, 2, Radius(2, 2)) // sqrt(8) = 2.83
	assert.Equal(t, 5, Radius(3, 4))
}

func TestFloodFillRegion(t *testing.T) {
	b := pixel.NewBuffer(16)
	// vertical wall at x=8
	for y := 0; y < 16; y++ {
		b.Set(8, y, blue)
	}
	assert.True(t, FloodFill(b, 0, 0, red))
	assert.Equal(t, red, b.Get(7, 15))
	assert.Equal(t, blue, b.Get(8, 3))
	assert.Equal(t, pixel.Transparent, b.Get(9, 0))
	assert.Equal(t, 8*16+16, b.Painted())
}

func TestFloodFillIsNotDiagonal(t *testing.T) {
	b := pixel.NewBuffer(16)
	b.Set(0, 0, blue)
	b.Set(1, 1, blue)
	b.Set(1, 0, red)
	b.Set(0, 1, red)
	assert.True(t, FloodFill(b, 0, 0, red))
	assert.Equal(t, blue, b.Get(1, 1))
}

func TestFloodFillSameColourIsNoop(t *testing.T) {
	b := pixel.NewBuffer(32)
	FloodFill(b, 0, 0, red)
	before := b.Clone()
	assert.False(t, FloodFill(b, 5, 5, red))
	assert.True(t, before.Equal(b))
}

func TestFloodFillLargeGrid(t *testing.T) {
	b := pixel.NewBuffer(64)
	assert.True(t, FloodFill(b, 63, 63, red))
	assert.Equal(t, 64*64, b.Painted())
	assert.False(t, FloodFill(b, 64, 0, blue))
}
