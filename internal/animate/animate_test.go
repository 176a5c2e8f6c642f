package animate

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestSequenceOrdering(t *testing.T) {
	s := NewSequence("a", "b")
	s.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Paths())

	require.NoError(t, s.MoveUp(2))
	assert.Equal(t, []string{"a", "c", "b"}, s.Paths())
	require.NoError(t, s.MoveUp(0))
	require.NoError(t, s.MoveDown(2))
	assert.Equal(t, []string{"a", "c", "b"}, s.Paths())
	require.NoError(t, s.MoveDown(0))
	assert.Equal(t, []string{"c", "a", "b"}, s.Paths())

	require.NoError(t, s.Remove(1))
	assert.Equal(t, []string{"c", "b"}, s.Paths())
	assert.ErrorIs(t, s.Remove(5), ErrIndex)
	assert.ErrorIs(t, s.MoveUp(-1), ErrIndex)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestFrameDuration(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, 100*time.Millisecond, s.FrameDuration())
	assert.ErrorIs(t, s.SetFrameDuration(0), ErrDuration)
	assert.ErrorIs(t, s.SetFrameDuration(-time.Second), ErrDuration)
	require.NoError(t, s.SetFrameDuration(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, s.FrameDuration())
}

func TestDelay(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{100 * time.Millisecond, 10},
		{250 * time.Millisecond, 25},
		{15 * time.Millisecond, 1},
		{time.Millisecond, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delay(tt.d), tt.d.String())
	}
}

func TestEncode(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	first := solid(4, 4, red)
	first.SetRGBA(0, 0, color.RGBA{})
	second := solid(8, 2, color.RGBA{0, 0, 255, 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []image.Image{first, second}, 120*time.Millisecond))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, 0, g.LoopCount)
	assert.Equal(t, []int{12, 12}, g.Delay)
	assert.Equal(t, []byte{gif.DisposalBackground, gif.DisposalBackground}, g.Disposal)
	assert.Equal(t, 4, g.Config.Width)
	assert.Equal(t, 4, g.Config.Height)

	_, _, _, a := g.Image[0].At(0, 0).RGBA()
	assert.Zero(t, a)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, color.RGBAModel.Convert(g.Image[0].At(1, 1)))

	// The second frame is cropped to the canvas; rows it lacks stay clear.
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBAModel.Convert(g.Image[1].At(3, 1)))
	_, _, _, a = g.Image[1].At(3, 3).RGBA()
	assert.Zero(t, a)
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, nil, time.Second), ErrNoFrames)
	assert.ErrorIs(t, Encode(&buf, []image.Image{solid(1, 1, color.RGBA{})}, 0), ErrDuration)
}

func TestPaletteExactAndFallback(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < 255; i++ {
		small.SetRGBA(i%16, i/16, color.RGBA{uint8(i), 1, 2, 255})
	}
	pal := Palette([]image.Image{small})
	assert.Len(t, pal, 256)
	assert.Equal(t, color.RGBA{}, pal[0])
	assert.Equal(t, color.RGBA{0, 1, 2, 255}, pal[1])

	small.SetRGBA(15, 15, color.RGBA{9, 9, 9, 255})
	pal = Palette([]image.Image{small})
	assert.Len(t, pal, len(palette.WebSafe)+1)
	assert.Equal(t, color.RGBA{}, pal[0])
}

func TestPaletteIgnoresCroppedPixels(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	first := solid(2, 2, red)
	// Over a thousand colours, all outside the 2x2 canvas but the corner.
	big := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			big.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 7, 255})
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			big.SetRGBA(x, y, blue)
		}
	}

	frames := []image.Image{first, big}
	assert.Equal(t, color.Palette{color.RGBA{}, red, blue}, Palette(frames))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, frames, 100*time.Millisecond))
	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, blue, color.RGBAModel.Convert(g.Image[1].At(1, 1)))
}

func TestSequenceSave(t *testing.T) {
	dir := t.TempDir()
	s := NewSequence()
	assert.ErrorIs(t, s.Save(filepath.Join(dir, "empty.gif")), ErrNoFrames)

	s.Add(
		writePNG(t, dir, "1.png", solid(2, 2, color.RGBA{255, 0, 0, 255})),
		writePNG(t, dir, "2.png", solid(2, 2, color.RGBA{0, 255, 0, 255})),
	)
	out := filepath.Join(dir, "out.gif")
	require.NoError(t, s.Save(out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, []int{10, 10}, g.Delay)
}

func TestFramesRejectsNonPNG(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))
	_, err := NewSequence(bad).Frames()
	assert.Error(t, err)
	_, err = NewSequence(filepath.Join(dir, "missing.png")).Frames()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeTimer struct{ stopped bool }

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

// fakeClock queues scheduled steps until the test fires them.
type fakeClock struct {
	pending []func()
	delays  []time.Duration
}

func (c *fakeClock) schedule(d time.Duration, f func()) Timer {
	c.pending = append(c.pending, f)
	c.delays = append(c.delays, d)
	return &fakeTimer{}
}

func (c *fakeClock) fire() {
	fns := c.pending
	c.pending = nil
	for _, f := range fns {
		f()
	}
}

func TestPlayerCycles(t *testing.T) {
	clock := &fakeClock{}
	var shown []int
	p := NewPlayer(3, 50*time.Millisecond,
		WithScheduler(clock.schedule),
		OnFrame(func(i int) { shown = append(shown, i) }))

	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	for i := 0; i < 4; i++ {
		clock.fire()
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1}, shown)
	assert.Equal(t, 1, p.Frame())
	assert.Equal(t, 50*time.Millisecond, clock.delays[0])
	assert.Len(t, clock.pending, 1, "one step pending at a time")
}

func TestPlayerStopPreventsPendingStep(t *testing.T) {
	clock := &fakeClock{}
	var shown []int
	p := NewPlayer(2, time.Second,
		WithScheduler(clock.schedule),
		OnFrame(func(i int) { shown = append(shown, i) }))

	require.NoError(t, p.Start())
	p.Stop()
	clock.fire()
	assert.Equal(t, []int{0}, shown)
	assert.False(t, p.Running())
	assert.Empty(t, clock.pending)

	// A stale step from before a restart must not double the cadence.
	require.NoError(t, p.Start())
	p.Stop()
	require.NoError(t, p.Start())
	clock.fire()
	assert.Equal(t, []int{0, 1, 0, 1}, shown)
	assert.Len(t, clock.pending, 1)
}

func TestPlayerIdempotent(t *testing.T) {
	clock := &fakeClock{}
	p := NewPlayer(2, time.Second, WithScheduler(clock.schedule))
	require.NoError(t, p.Start())
	require.NoError(t, p.Start())
	assert.Len(t, clock.pending, 1)

	p.Stop()
	p.Stop()
	assert.False(t, p.Running())

	require.NoError(t, p.Toggle())
	assert.True(t, p.Running())
	require.NoError(t, p.Toggle())
	assert.False(t, p.Running())
}

func TestPlayerNoFrames(t *testing.T) {
	p := NewPlayer(0, time.Second, WithScheduler((&fakeClock{}).schedule))
	assert.ErrorIs(t, p.Start(), ErrNoFrames)
	assert.False(t, p.Running())
	assert.ErrorIs(t, p.SetDelay(0), ErrDuration)
}

func TestPlayerSetFrames(t *testing.T) {
	clock := &fakeClock{}
	p := NewPlayer(3, time.Second, WithScheduler(clock.schedule))
	require.NoError(t, p.Start())
	clock.fire()
	clock.fire()
	assert.Equal(t, 2, p.Frame())

	p.SetFrames(2)
	assert.Equal(t, 0, p.Frame())
	clock.fire()
	assert.Equal(t, 0, p.Frame())

	p.SetFrames(0)
	clock.fire()
	assert.Empty(t, clock.pending)
	assert.True(t, p.Running())
}

func TestPlayerRealTimer(t *testing.T) {
	frames := make(chan int, 8)
	p := NewPlayer(2, time.Millisecond, OnFrame(func(i int) {
		select {
		case frames <- i:
		default:
		}
	}))
	require.NoError(t, p.Start())
	defer p.Stop()
	assert.Equal(t, 0, <-frames)
	assert.Equal(t, 1, <-frames)
}
