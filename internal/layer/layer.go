// Package layer implements the ordered stack of pixel layers an editor
// paints into.
//
// Index 0 is the bottom of the stack and is painted first; higher indices
// paint over lower ones. "Above" a layer means the next higher index.
package layer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/pixelforge/internal/pixel"
)

// DefaultMaxLayers is the layer cap used when none is configured.
const DefaultMaxLayers = 25

var (
	// ErrLayerLimit is returned by Add and Duplicate on a full stack.
	ErrLayerLimit = errors.New("layer limit reached")
	// ErrLastLayer is returned when deleting the only layer.
	ErrLastLayer = errors.New("cannot delete the only layer")
	// ErrBoundary is returned when merging or moving past the top or
	// bottom layer.
	ErrBoundary = errors.New("no neighbouring layer")
	// ErrIndex is returned for layer indices outside the stack.
	ErrIndex = errors.New("layer index out of range")
)

// Layer is one independently visible, opacity-scaled grid.
type Layer struct {
	ID      uuid.UUID
	Name    string
	Buffer  *pixel.Buffer
	Visible bool
	Opacity float64
}

// New returns a transparent, visible, fully opaque layer.
func New(name string, size int) *Layer {
	return &Layer{
		ID:      uuid.New(),
		Name:    name,
		Buffer:  pixel.NewBuffer(size),
		Visible: true,
		Opacity: 1.0,
	}
}

// Clone returns a deep copy that keeps the layer's ID.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Buffer = l.Buffer.Clone()
	return &c
}

// Stack is an ordered list of layers with a current-layer pointer. It
// always holds between 1 and MaxLayers layers and the current index is
// always valid.
type Stack struct {
	size      int
	maxLayers int
	layers    []*Layer
	current   int
	counter   int // for default names
}

// NewStack returns a stack holding one blank layer of the given grid size.
// A maxLayers below 1 selects DefaultMaxLayers.
func NewStack(size, maxLayers int) *Stack {
	if maxLayers < 1 {
		maxLayers = DefaultMaxLayers
	}
	s := &Stack{size: size, maxLayers: maxLayers}
	s.layers = append(s.layers, s.newLayer())
	return s
}

// FromLayers builds a stack around existing layers, selecting the top one.
func FromLayers(size, maxLayers int, layers []*Layer) (*Stack, error) {
	if maxLayers < 1 {
		maxLayers = DefaultMaxLayers
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers")
	}
	if len(layers) > maxLayers {
		return nil, fmt.Errorf("%d layers: %w", len(layers), ErrLayerLimit)
	}
	for i, l := range layers {
		if l.Buffer == nil || l.Buffer.Size() != size {
			return nil, fmt.Errorf("layer %d is not %dx%d", i, size, size)
		}
	}
	s := &Stack{size: size, maxLayers: maxLayers, counter: len(layers)}
	s.layers = append(s.layers, layers...)
	s.current = len(layers) - 1
	return s, nil
}

func (s *Stack) newLayer() *Layer {
	s.counter++
	return New(fmt.Sprintf("Layer %d", s.counter), s.size)
}

// GridSize returns the edge length of every layer.
func (s *Stack) GridSize() int { return s.size }

// MaxLayers returns the layer cap.
func (s *Stack) MaxLayers() int { return s.maxLayers }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Layers returns the layers bottom to top. The slice must not be modified.
func (s *Stack) Layers() []*Layer { return s.layers }

// At returns layer i.
func (s *Stack) At(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	return s.layers[i], nil
}

// Current returns the selected index.
func (s *Stack) Current() int { return s.current }

// CurrentLayer returns the selected layer.
func (s *Stack) CurrentLayer() *Layer { return s.layers[s.current] }

func (s *Stack) check(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("%d of %d: %w", i, len(s.layers), ErrIndex)
	}
	return nil
}

// Select makes layer i current.
func (s *Stack) Select(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.current = i
	return nil
}

// Add appends a blank layer and selects it.
func (s *Stack) Add() error {
	if len(s.layers) >= s.maxLayers {
		return fmt.Errorf("%d layers: %w", s.maxLayers, ErrLayerLimit)
	}
	s.layers = append(s.layers, s.newLayer())
	s.current = len(s.layers) - 1
	return nil
}

// Duplicate appends a copy of layer i's pixels and selects it. The copy is
// visible at full opacity.
func (s *Stack) Duplicate(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if len(s.layers) >= s.maxLayers {
		return fmt.Errorf("%d layers: %w", s.maxLayers, ErrLayerLimit)
	}
	src := s.layers[i]
	dup := New(src.Name+" copy", s.size)
	dup.Buffer = src.Buffer.Clone()
	s.counter++
	s.layers = append(s.layers, dup)
	s.current = len(s.layers) - 1
	return nil
}

// Delete removes layer i and selects the one below it.
func (s *Stack) Delete(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if len(s.layers) == 1 {
		return ErrLastLayer
	}
	s.remove(i)
	s.current = max(0, i-1)
	return nil
}

func (s *Stack) remove(i int) {
	copy(s.layers[i:], s.layers[i+1:])
	s.layers[len(s.layers)-1] = nil
	s.layers = s.layers[:len(s.layers)-1]
}

// MergeAbove paints layer i's set cells onto layer i+1, removes layer i and
// selects the merged layer.
func (s *Stack) MergeAbove(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if i == len(s.layers)-1 {
		return fmt.Errorf("merge above top layer: %w", ErrBoundary)
	}
	s.merge(i, i+1)
	s.remove(i)
	s.current = i
	return nil
}

// MergeBelow paints layer i's set cells onto layer i-1, removes layer i and
// selects the merged layer.
func (s *Stack) MergeBelow(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if i == 0 {
		return fmt.Errorf("merge below bottom layer: %w", ErrBoundary)
	}
	s.merge(i, i-1)
	s.remove(i)
	s.current = i - 1
	return nil
}

// merge copies every painted cell of src over dst. Transparent source
// cells leave dst alone; opacity of either layer is ignored.
func (s *Stack) merge(src, dst int) {
	from, to := s.layers[src].Buffer, s.layers[dst].Buffer
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			if c := from.Get(x, y); c.IsSet() {
				to.Set(x, y, c)
			}
		}
	}
}

// ToggleVisibility flips layer i's visible flag.
func (s *Stack) ToggleVisibility(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].Visible = !s.layers[i].Visible
	return nil
}

// SetOpacity sets layer i's opacity, clamped to [0, 1].
func (s *Stack) SetOpacity(i int, v float64) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].Opacity = ClampOpacity(v)
	return nil
}

// ClampOpacity limits v to [0, 1].
func ClampOpacity(v float64) float64 {
	if v != v || v < 0 { // NaN counts as fully transparent
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rename sets layer i's name.
func (s *Stack) Rename(i int, name string) error {
	if err := s.check(i); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("empty layer name")
	}
	s.layers[i].Name = name
	return nil
}

// Move reorders the stack so the layer at from ends up at to. The current
// pointer follows the layer it pointed at.
func (s *Stack) Move(from, to int) error {
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	l := s.layers[from]
	s.remove(from)
	s.layers = append(s.layers[:to], append([]*Layer{l}, s.layers[to:]...)...)

	switch {
	case s.current == from:
		s.current = to
	case from < s.current && to >= s.current:
		s.current--
	case from > s.current && to <= s.current:
		s.current++
	}
	return nil
}

// Clone returns a deep copy of the stack, current pointer included.
func (s *Stack) Clone() *Stack {
	c := *s
	c.layers = make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		c.layers[i] = l.Clone()
	}
	return &c
}

// Equal reports whether both stacks hold equal layers in the same order
// with the same selection.
func (s *Stack) Equal(o *Stack) bool {
	if s.size != o.size || len(s.layers) != len(o.layers) || s.current != o.current {
		return false
	}
	for i, l := range s.layers {
		m := o.layers[i]
		if l.ID != m.ID || l.Name != m.Name || l.Visible != m.Visible ||
			l.Opacity != m.Opacity || !l.Buffer.Equal(m.Buffer) {
			return false
		}
	}
	return true
}
