package animate

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"time"
)

// maxExact is the number of opaque colours that fit beside the transparent
// entry in a 256-entry palette.
const maxExact = 255

// Delay converts a frame duration to GIF centiseconds. GIF cannot express
// less than one centisecond.
func Delay(d time.Duration) int {
	return max(1, int(d/(10*time.Millisecond)))
}

// Encode writes frames as an infinitely looping GIF. Every frame uses delay
// d and is disposed to the background before the next is drawn. The canvas
// takes the first frame's size; larger frames are cropped.
func Encode(w io.Writer, frames []image.Image, d time.Duration) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if d <= 0 {
		return fmt.Errorf("%w: %v", ErrDuration, d)
	}
	b := frames[0].Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())
	pal := Palette(frames)

	g := &gif.GIF{
		LoopCount: 0,
		Config:    image.Config{ColorModel: pal, Width: rect.Dx(), Height: rect.Dy()},
	}
	delay := Delay(d)
	for _, f := range frames {
		pm := image.NewPaletted(rect, pal)
		fb := f.Bounds()
		for y := 0; y < min(rect.Dy(), fb.Dy()); y++ {
			for x := 0; x < min(rect.Dx(), fb.Dx()); x++ {
				pm.SetColorIndex(x, y, uint8(pal.Index(flatten(f.At(fb.Min.X+x, fb.Min.Y+y)))))
			}
		}
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return gif.EncodeAll(w, g)
}

// flatten reduces c to GIF's one-bit transparency.
func flatten(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return color.RGBA{}
	}
	return color.RGBA{n.R, n.G, n.B, 0xff}
}

// Palette returns the colour table for frames. Index 0 is transparent.
// Only pixels inside the first frame's canvas are considered, as Encode
// crops the rest. When they use at most 255 opaque colours they are kept
// exactly, in order of first appearance; otherwise they are mapped onto the
// web-safe palette.
func Palette(frames []image.Image) color.Palette {
	pal := color.Palette{color.RGBA{}}
	if len(frames) == 0 {
		return pal
	}
	seen := map[color.RGBA]bool{{}: true}
	canvas := frames[0].Bounds().Size()
	for _, f := range frames {
		fb := f.Bounds()
		for y := 0; y < min(canvas.Y, fb.Dy()); y++ {
			for x := 0; x < min(canvas.X, fb.Dx()); x++ {
				c := flatten(f.At(fb.Min.X+x, fb.Min.Y+y))
				if seen[c] {
					continue
				}
				if len(pal) > maxExact {
					return webSafe()
				}
				seen[c] = true
				pal = append(pal, c)
			}
		}
	}
	return pal
}

func webSafe() color.Palette {
	return append(color.Palette{color.RGBA{}}, palette.WebSafe...)
}
