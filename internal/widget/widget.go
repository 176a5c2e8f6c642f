// Package widget draws the immediate-mode buttons and sliders shared by the
// raylib front-ends.
package widget

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FontSize is the text size used across the panels.
const FontSize = 8

var (
	PanelColor    = rl.Color{R: 50, G: 50, B: 50, A: 255}
	BarColor      = rl.Color{R: 60, G: 60, B: 60, A: 255}
	Background    = rl.Color{R: 40, G: 40, B: 40, A: 255}
	buttonColor   = rl.Color{R: 70, G: 70, B: 70, A: 255}
	hoverColor    = rl.Color{R: 80, G: 80, B: 80, A: 255}
	selectedColor = rl.Color{R: 100, G: 100, B: 150, A: 255}
	edgeColor     = rl.Color{R: 90, G: 90, B: 90, A: 255}
	disabledText  = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// Button is a clickable labelled rectangle.
type Button struct {
	Rect     rl.Rectangle
	Text     string
	Tip      string
	Hover    bool
	Selected bool
	Disabled bool
}

// Update refreshes hover state and reports whether the button was clicked
// this frame.
func (b *Button) Update(mouse rl.Vector2) bool {
	b.Hover = rl.CheckCollisionPointRec(mouse, b.Rect)
	return b.Hover && !b.Disabled && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

// Draw renders the button, and its tooltip while hovered.
func (b *Button) Draw(mouse rl.Vector2) {
	color := buttonColor
	if b.Selected {
		color = selectedColor
	} else if b.Hover && !b.Disabled {
		color = hoverColor
	}
	rl.DrawRectangleRec(b.Rect, color)
	rl.DrawRectangleLinesEx(b.Rect, 1, edgeColor)

	text := rl.White
	if b.Disabled {
		text = disabledText
	}
	textW := rl.MeasureText(b.Text, FontSize)
	textX := int32(b.Rect.X + b.Rect.Width/2 - float32(textW)/2)
	textY := int32(b.Rect.Y + b.Rect.Height/2 - FontSize/2)
	rl.DrawText(b.Text, textX, textY, FontSize, text)

	if b.Hover && b.Tip != "" {
		rl.DrawText(b.Tip, int32(mouse.X+10), int32(mouse.Y), FontSize, rl.Yellow)
	}
}

// Row lays out buttons left to right starting at (x, y).
func Row(x, y, w, h, gap float32, labels ...string) []Button {
	buttons := make([]Button, len(labels))
	for i, l := range labels {
		buttons[i] = Button{
			Rect: rl.Rectangle{X: x + float32(i)*(w+gap), Y: y, Width: w, Height: h},
			Text: l,
		}
	}
	return buttons
}

// Grid lays out buttons in rows of cols starting at (x, y).
func Grid(x, y, size, gap float32, cols int, labels ...string) []Button {
	buttons := make([]Button, len(labels))
	for i, l := range labels {
		buttons[i] = Button{
			Rect: rl.Rectangle{
				X:      x + float32(i%cols)*(size+gap),
				Y:      y + float32(i/cols)*(size+gap),
				Width:  size,
				Height: size,
			},
			Text: l,
		}
	}
	return buttons
}

// Slider is a horizontal value picker.
type Slider struct {
	Rect  rl.Rectangle
	Value float32
	Min   float32
	Max   float32
	Label string

	dragging bool
}

// Update moves the slider with the mouse and reports whether the value
// changed this frame.
func (s *Slider) Update(mouse rl.Vector2) bool {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && rl.CheckCollisionPointRec(mouse, s.Rect) {
		s.dragging = true
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		s.dragging = false
	}
	if !s.dragging {
		return false
	}
	rel := mouse.X - s.Rect.X
	v := Clamp(s.Min+(rel/s.Rect.Width)*(s.Max-s.Min), s.Min, s.Max)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// Dragging reports whether the slider holds the mouse.
func (s *Slider) Dragging() bool { return s.dragging }

// Draw renders the slider with its label above and its value below.
func (s *Slider) Draw(format string) {
	rl.DrawText(s.Label, int32(s.Rect.X), int32(s.Rect.Y-12), FontSize, rl.LightGray)
	rl.DrawRectangleRec(s.Rect, BarColor)
	pos := s.Rect.X + (s.Value-s.Min)/(s.Max-s.Min)*s.Rect.Width
	rl.DrawRectangle(int32(pos-2), int32(s.Rect.Y), 4, int32(s.Rect.Height), rl.White)
	rl.DrawText(fmt.Sprintf(format, s.Value), int32(s.Rect.X+s.Rect.Width+6), int32(s.Rect.Y+s.Rect.Height/2-FontSize/2), FontSize, rl.White)
}

// Checkerboard fills r with the transparency pattern, tile pixels per
// square.
func Checkerboard(r rl.Rectangle, tile int32) {
	rl.DrawRectangleRec(r, rl.Color{R: 100, G: 100, B: 100, A: 255})
	cols := int32(r.Width) / tile
	rows := int32(r.Height) / tile
	for y := int32(0); y <= rows; y++ {
		for x := int32(0); x <= cols; x++ {
			if (x+y)%2 != 0 {
				continue
			}
			w := min(tile, int32(r.Width)-x*tile)
			h := min(tile, int32(r.Height)-y*tile)
			if w > 0 && h > 0 {
				rl.DrawRectangle(int32(r.X)+x*tile, int32(r.Y)+y*tile, w, h, rl.Color{R: 150, G: 150, B: 150, A: 255})
			}
		}
	}
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float32) float32 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
