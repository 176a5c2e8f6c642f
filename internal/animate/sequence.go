// Package animate turns an ordered list of PNG frames into an animated GIF
// and plays the sequence back for preview.
package animate

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// DefaultFrameDuration is the delay between frames of a new sequence.
const DefaultFrameDuration = 100 * time.Millisecond

var (
	ErrNoFrames = errors.New("no frames")
	ErrDuration = errors.New("frame duration must be positive")
	ErrIndex    = errors.New("frame index out of range")
)

// Sequence is an ordered list of PNG paths with one global frame duration.
type Sequence struct {
	paths    []string
	duration time.Duration
}

// NewSequence returns a sequence of paths using DefaultFrameDuration.
func NewSequence(paths ...string) *Sequence {
	return &Sequence{
		paths:    append([]string(nil), paths...),
		duration: DefaultFrameDuration,
	}
}

// Len returns the number of frames.
func (s *Sequence) Len() int { return len(s.paths) }

// Paths returns a copy of the frame paths in playback order.
func (s *Sequence) Paths() []string { return append([]string(nil), s.paths...) }

// Add appends paths to the end of the sequence.
func (s *Sequence) Add(paths ...string) { s.paths = append(s.paths, paths...) }

// Clear removes every frame.
func (s *Sequence) Clear() { s.paths = s.paths[:0] }

func (s *Sequence) check(i int) error {
	if i < 0 || i >= len(s.paths) {
		return fmt.Errorf("%w: %d of %d", ErrIndex, i, len(s.paths))
	}
	return nil
}

// Remove deletes frame i.
func (s *Sequence) Remove(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.paths = append(s.paths[:i], s.paths[i+1:]...)
	return nil
}

// MoveUp swaps frame i with the one before it. Moving the first frame is a
// no-op.
func (s *Sequence) MoveUp(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if i > 0 {
		s.paths[i-1], s.paths[i] = s.paths[i], s.paths[i-1]
	}
	return nil
}

// MoveDown swaps frame i with the one after it. Moving the last frame is a
// no-op.
func (s *Sequence) MoveDown(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if i < len(s.paths)-1 {
		s.paths[i+1], s.paths[i] = s.paths[i], s.paths[i+1]
	}
	return nil
}

// FrameDuration returns the delay between frames.
func (s *Sequence) FrameDuration() time.Duration { return s.duration }

// SetFrameDuration changes the delay between frames.
func (s *Sequence) SetFrameDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %v", ErrDuration, d)
	}
	s.duration = d
	return nil
}

// Frames decodes every PNG in order.
func (s *Sequence) Frames() ([]image.Image, error) {
	frames := make([]image.Image, 0, len(s.paths))
	for _, path := range s.paths {
		img, err := decodePNG(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save decodes the frames and writes them to path as an animated GIF.
func (s *Sequence) Save(path string) error {
	if len(s.paths) == 0 {
		return ErrNoFrames
	}
	frames, err := s.Frames()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, frames, s.duration); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
