// Package composite flattens a layer stack into one RGBA image.
//
// The model is "last visible painted layer wins": layers are visited bottom
// to top and the highest visible layer with a painted cell supplies that
// cell. There is no blending between layers; only the winning layer's
// opacity is applied, scaling both the RGB channels and the alpha.
package composite

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
)

// Flatten composites layers, bottom first, into a size×size image. Cells no
// visible layer paints are fully transparent.
func Flatten(layers []*layer.Layer, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var (
				win     pixel.Color
				opacity float64
			)
			for _, l := range layers {
				if !l.Visible {
					continue
				}
				if c := l.Buffer.Get(x, y); c.IsSet() {
					win, opacity = c, l.Opacity
				}
			}
			if win.IsSet() {
				img.SetRGBA(x, y, Apply(win, opacity))
			}
		}
	}
	return img
}

// Apply scales a colour by opacity, truncating each channel.
func Apply(c pixel.Color, opacity float64) color.RGBA {
	opacity = layer.ClampOpacity(opacity)
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: uint8(255 * opacity),
	}
}

// Stack flattens a whole layer stack at its own grid size.
func Stack(s *layer.Stack) *image.RGBA {
	return Flatten(s.Layers(), s.GridSize())
}

// Scale resamples img to size×size with nearest-neighbour sampling. An
// image already at that size is returned as is.
func Scale(img *image.RGBA, size int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FlattenScaled flattens layers of the given grid size and resamples the
// result to outSize.
func FlattenScaled(layers []*layer.Layer, gridSize, outSize int) *image.RGBA {
	return Scale(Flatten(layers, gridSize), outSize)
}
