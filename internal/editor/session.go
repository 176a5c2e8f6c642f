// Package editor holds the state of one sprite-editing session and every
// operation a front-end can invoke on it.
//
// A Session owns the layer stack, the undo history, the drawing colour,
// the recent-colour list and the active tool. It is driven from a single
// goroutine: the front-end forwards pointer events (Press, Drag, Release)
// and commands, and observes results through OnChange.
//
// History is global: every committed edit records a deep copy of the whole
// layer stack, so undo reverts structural edits (add, delete, merge) as
// well as pixel edits on any layer.
package editor

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/composite"
	"github.com/ha1tch/pixelforge/internal/history"
	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
	"github.com/ha1tch/pixelforge/internal/raster"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 256

// DefaultColor is the drawing colour of a new session.
var DefaultColor = pixel.RGB(0, 0, 0)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMaxLayers sets the layer cap.
func WithMaxLayers(n int) Option {
	return func(s *Session) { s.maxLayers = n }
}

// WithHistoryLimit bounds the undo stack; 0 means unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

// drag is the in-progress pointer gesture.
type drag struct {
	tool    Tool
	anchor  raster.Point
	last    raster.Point
	preview *pixel.Buffer // line/circle only; nil for pencil strokes
}

// Session is one editor session. It is not safe for concurrent use.
type Session struct {
	log          *zap.Logger
	maxLayers    int
	historyLimit int

	stack   *layer.Stack
	history *history.History[*layer.Stack]

	color  pixel.Color
	recent []pixel.Color
	tool   Tool
	drag   *drag

	// coalesce names the last command when repeated invocations should
	// share one undo step (opacity slider drags).
	coalesce string

	observers []func(Change)
}

// New starts a session with one blank layer of gridSize×gridSize cells.
func New(gridSize int, opts ...Option) (*Session, error) {
	if !pixel.ValidSize(gridSize) {
		return nil, fmt.Errorf("grid size %d not in %v", gridSize, pixel.Sizes)
	}
	s := &Session{
		log:          zap.NewNop(),
		maxLayers:    layer.DefaultMaxLayers,
		historyLimit: DefaultHistoryLimit,
		color:        DefaultColor,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stack = layer.NewStack(gridSize, s.maxLayers)
	s.history = history.New[*layer.Stack](s.historyLimit)
	return s, nil
}

// OnChange registers fn to be called after every state change.
func (s *Session) OnChange(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) notify(c Change) {
	for _, fn := range s.observers {
		fn(c)
	}
}

// GridSize returns the edge length of the sprite.
func (s *Session) GridSize() int { return s.stack.GridSize() }

// Stack returns the layer stack. Callers must change it only through the
// session so history stays consistent.
func (s *Session) Stack() *layer.Stack { return s.stack }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// Color returns the drawing colour.
func (s *Session) Color() pixel.Color { return s.color }

// RecentColors returns the colours picked so far, oldest first.
func (s *Session) RecentColors() []pixel.Color { return s.recent }

// Dragging reports whether a pointer gesture is in progress.
func (s *Session) Dragging() bool { return s.drag != nil }

// CanUndo reports whether Undo would restore something.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would restore something.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// SetColor makes c the drawing colour and remembers it in the recent list.
func (s *Session) SetColor(c pixel.Color) error {
	if !c.IsSet() {
		return errors.New("drawing colour must be opaque")
	}
	s.color = c
	known := false
	for _, r := range s.recent {
		if r == c {
			known = true
			break
		}
	}
	if !known {
		s.recent = append(s.recent, c)
	}
	s.notify(ChangeColors)
	return nil
}

// SetTool selects the pointer tool, abandoning any gesture in progress.
func (s *Session) SetTool(t Tool) {
	s.cancelDrag()
	s.tool = t
	s.log.Debug("tool", zap.Stringer("tool", t))
	s.notify(ChangeTool | ChangeCanvas)
}

// record pushes a snapshot of the stack as it is now.
func (s *Session) record() {
	s.history.Record(s.stack.Clone())
	s.coalesce = ""
}

// mutate runs fn against the stack, recording a snapshot only if fn
// succeeds. Stack operations leave the stack untouched when they fail, so a
// rejected command changes nothing.
func (s *Session) mutate(name string, fn func(*layer.Stack) error) error {
	s.cancelDrag()
	before := s.stack.Clone()
	if err := fn(s.stack); err != nil {
		s.log.Warn("command rejected", zap.String("command", name), zap.Error(err))
		return err
	}
	s.history.Record(before)
	s.coalesce = ""
	s.log.Debug("command",
		zap.String("command", name),
		zap.Int("layers", s.stack.Len()),
		zap.Int("current", s.stack.Current()))
	s.notify(ChangeCanvas | ChangeLayers | ChangeHistory)
	return nil
}

func (s *Session) current() *pixel.Buffer { return s.stack.CurrentLayer().Buffer }

// Canvas flattens the stack for display, including the preview of a line
// or circle being dragged.
func (s *Session) Canvas() *image.RGBA {
	layers := s.stack.Layers()
	if s.drag != nil && s.drag.preview != nil {
		shown := make([]*layer.Layer, len(layers))
		copy(shown, layers)
		l := *layers[s.stack.Current()]
		l.Buffer = s.drag.preview
		shown[s.stack.Current()] = &l
		layers = shown
	}
	return composite.Flatten(layers, s.GridSize())
}

// Flatten composites the committed layers at outSize×outSize.
func (s *Session) Flatten(outSize int) *image.RGBA {
	return composite.FlattenScaled(s.stack.Layers(), s.GridSize(), outSize)
}

// Press starts a gesture at cell (x, y). Presses outside the grid are
// ignored.
func (s *Session) Press(x, y int) {
	s.cancelDrag()
	buf := s.current()
	if !buf.InBounds(x, y) {
		return
	}
	p := raster.Point{X: x, Y: y}

	switch s.tool {
	case ToolBucket:
		// Bucket acts on press and never enters Dragging.
		if buf.Get(x, y) != s.color {
			s.record()
			raster.FloodFill(buf, x, y, s.color)
			s.log.Debug("fill", zap.Int("x", x), zap.Int("y", y), zap.Stringer("color", s.color))
			s.notify(ChangeCanvas | ChangeHistory)
		}
		s.finishTool()
	case ToolLine, ToolCircle:
		s.drag = &drag{tool: s.tool, anchor: p, last: p}
		s.updatePreview()
		s.notify(ChangeCanvas)
	default:
		s.record()
		buf.Set(x, y, s.color)
		s.drag = &drag{tool: ToolPencil, anchor: p, last: p}
		s.notify(ChangeCanvas | ChangeHistory)
	}
}

// Drag moves the gesture to (x, y), which may lie outside the grid.
func (s *Session) Drag(x, y int) {
	if s.drag == nil {
		return
	}
	p := raster.Point{X: x, Y: y}
	if p == s.drag.last {
		return
	}
	if s.drag.tool == ToolPencil {
		raster.DrawLine(s.current(), s.drag.last.X, s.drag.last.Y, x, y, s.color)
		s.drag.last = p
	} else {
		s.drag.last = p
		s.updatePreview()
	}
	s.notify(ChangeCanvas)
}

// updatePreview redraws the shape in progress over a fresh copy of the
// committed layer.
func (s *Session) updatePreview() {
	d := s.drag
	d.preview = s.current().Clone()
	switch d.tool {
	case ToolLine:
		raster.DrawLine(d.preview, d.anchor.X, d.anchor.Y, d.last.X, d.last.Y, s.color)
	case ToolCircle:
		r := raster.Radius(d.last.X-d.anchor.X, d.last.Y-d.anchor.Y)
		raster.DrawDisc(d.preview, d.anchor.X, d.anchor.Y, r, s.color)
	}
}

// Release ends the gesture at (x, y), committing any line or circle.
func (s *Session) Release(x, y int) {
	if s.drag == nil {
		return
	}
	s.Drag(x, y)
	d := s.drag
	s.drag = nil

	if d.preview == nil {
		return
	}
	if !d.preview.Equal(s.current()) {
		s.record()
		s.current().CopyFrom(d.preview)
		s.log.Debug("shape",
			zap.Stringer("tool", d.tool),
			zap.Int("x0", d.anchor.X), zap.Int("y0", d.anchor.Y),
			zap.Int("x1", d.last.X), zap.Int("y1", d.last.Y))
	}
	s.notify(ChangeCanvas | ChangeHistory)
	s.finishTool()
}

// finishTool reverts a one-shot tool to the pencil after it commits.
func (s *Session) finishTool() {
	if s.tool.oneShot() {
		s.tool = ToolPencil
		s.notify(ChangeTool)
	}
}

// Cancel abandons the gesture in progress without committing it.
func (s *Session) Cancel() {
	if s.cancelDrag() {
		s.notify(ChangeCanvas)
	}
}

func (s *Session) cancelDrag() bool {
	if s.drag == nil {
		return false
	}
	s.drag = nil
	return true
}

// Erase clears cell (x, y) on the current layer.
func (s *Session) Erase(x, y int) {
	buf := s.current()
	if !buf.InBounds(x, y) || !buf.Get(x, y).IsSet() {
		return
	}
	s.cancelDrag()
	s.record()
	buf.Set(x, y, pixel.Transparent)
	s.notify(ChangeCanvas | ChangeHistory)
}

// Undo restores the stack as it was before the last edit. It returns
// history.ErrEmpty when there is nothing to undo.
func (s *Session) Undo() error {
	s.cancelDrag()
	prev, err := s.history.Undo(s.stack)
	if err != nil {
		return err
	}
	s.stack = prev
	s.coalesce = ""
	s.log.Debug("undo")
	s.notify(ChangeCanvas | ChangeLayers | ChangeHistory)
	return nil
}

// Redo reapplies the last undone edit. It returns history.ErrEmpty when
// there is nothing to redo.
func (s *Session) Redo() error {
	s.cancelDrag()
	next, err := s.history.Redo(s.stack)
	if err != nil {
		return err
	}
	s.stack = next
	s.coalesce = ""
	s.log.Debug("redo")
	s.notify(ChangeCanvas | ChangeLayers | ChangeHistory)
	return nil
}
