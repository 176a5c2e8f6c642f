package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/export"
	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
	"github.com/ha1tch/pixelforge/internal/project"
)

// AddLayer appends a blank layer and selects it.
func (s *Session) AddLayer() error {
	return s.mutate("add_layer", (*layer.Stack).Add)
}

// DuplicateLayer copies the current layer to the top of the stack.
func (s *Session) DuplicateLayer() error {
	return s.mutate("duplicate_layer", func(st *layer.Stack) error {
		return st.Duplicate(st.Current())
	})
}

// DeleteLayer removes the current layer.
func (s *Session) DeleteLayer() error {
	return s.mutate("delete_layer", func(st *layer.Stack) error {
		return st.Delete(st.Current())
	})
}

// MergeAbove merges the current layer into the one above it.
func (s *Session) MergeAbove() error {
	return s.mutate("merge_above", func(st *layer.Stack) error {
		return st.MergeAbove(st.Current())
	})
}

// MergeBelow merges the current layer into the one below it.
func (s *Session) MergeBelow() error {
	return s.mutate("merge_below", func(st *layer.Stack) error {
		return st.MergeBelow(st.Current())
	})
}

// ToggleVisibility shows or hides layer i.
func (s *Session) ToggleVisibility(i int) error {
	return s.mutate("toggle_layer", func(st *layer.Stack) error {
		return st.ToggleVisibility(i)
	})
}

// RenameLayer renames layer i.
func (s *Session) RenameLayer(i int, name string) error {
	return s.mutate("rename_layer", func(st *layer.Stack) error {
		return st.Rename(i, name)
	})
}

// MoveLayer reorders the stack, moving layer from to position to.
func (s *Session) MoveLayer(from, to int) error {
	return s.mutate("move_layer", func(st *layer.Stack) error {
		return st.Move(from, to)
	})
}

// MoveLayerUp moves the current layer one place towards the top. The top
// layer returns layer.ErrBoundary.
func (s *Session) MoveLayerUp() error {
	return s.moveCurrent(1)
}

// MoveLayerDown moves the current layer one place towards the bottom. The
// bottom layer returns layer.ErrBoundary.
func (s *Session) MoveLayerDown() error {
	return s.moveCurrent(-1)
}

func (s *Session) moveCurrent(by int) error {
	cur := s.stack.Current()
	to := cur + by
	if to < 0 || to >= s.stack.Len() {
		return fmt.Errorf("move layer %d: %w", cur, layer.ErrBoundary)
	}
	return s.MoveLayer(cur, to)
}

// SetOpacity sets the current layer's opacity. Consecutive calls on the
// same layer share one undo step, so a slider drag undoes in one go.
func (s *Session) SetOpacity(v float64) error {
	cur := s.stack.CurrentLayer()
	key := "opacity:" + cur.ID.String()
	if s.coalesce == key {
		s.cancelDrag()
		if err := s.stack.SetOpacity(s.stack.Current(), v); err != nil {
			return err
		}
		s.notify(ChangeCanvas | ChangeLayers)
		return nil
	}
	err := s.mutate("set_opacity", func(st *layer.Stack) error {
		return st.SetOpacity(st.Current(), v)
	})
	if err == nil {
		s.coalesce = key
	}
	return err
}

// SelectLayer makes layer i current. Selection is not an edit and is not
// recorded in history.
func (s *Session) SelectLayer(i int) error {
	s.cancelDrag()
	if err := s.stack.Select(i); err != nil {
		return err
	}
	s.coalesce = ""
	s.notify(ChangeLayers | ChangeCanvas)
	return nil
}

func (s *Session) transform(name string, fn func(st *layer.Stack)) error {
	return s.mutate(name, func(st *layer.Stack) error {
		fn(st)
		return nil
	})
}

// RotateClockwise turns the current layer a quarter turn clockwise.
func (s *Session) RotateClockwise() error {
	return s.transform("rotate_cw", func(st *layer.Stack) { st.CurrentLayer().Buffer.RotateClockwise() })
}

// RotateCounterClockwise turns the current layer a quarter turn
// counter-clockwise.
func (s *Session) RotateCounterClockwise() error {
	return s.transform("rotate_ccw", func(st *layer.Stack) { st.CurrentLayer().Buffer.RotateCounterClockwise() })
}

// FlipHorizontal mirrors the current layer left to right.
func (s *Session) FlipHorizontal() error {
	return s.transform("flip_horizontal", func(st *layer.Stack) { st.CurrentLayer().Buffer.FlipHorizontal() })
}

// FlipVertical mirrors the current layer top to bottom.
func (s *Session) FlipVertical() error {
	return s.transform("flip_vertical", func(st *layer.Stack) { st.CurrentLayer().Buffer.FlipVertical() })
}

// Project returns the session's persistent state. Layers are deep copies.
func (s *Session) Project() *project.Project {
	p := &project.Project{GridSize: s.GridSize()}
	for _, l := range s.stack.Layers() {
		p.Layers = append(p.Layers, l.Clone())
	}
	p.RecentColors = append(p.RecentColors, s.recent...)
	return p
}

// Save writes the project file at path.
func (s *Session) Save(path string) error {
	if err := project.Save(path, s.Project()); err != nil {
		s.log.Warn("save failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.log.Info("saved", zap.String("path", path), zap.Int("layers", s.stack.Len()))
	return nil
}

// Load replaces the whole session state with the project at path. On any
// error the session is left as it was. History is cleared because its
// snapshots describe the replaced project.
func (s *Session) Load(path string) error {
	p, err := project.LoadLimit(path, s.maxLayers)
	if err == nil {
		err = s.Replace(p)
	}
	if err != nil {
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.log.Info("loaded", zap.String("path", path),
		zap.Int("grid", p.GridSize), zap.Int("layers", len(p.Layers)))
	return nil
}

// Replace swaps in the state of p.
func (s *Session) Replace(p *project.Project) error {
	st, err := layer.FromLayers(p.GridSize, s.maxLayers, p.Layers)
	if err != nil {
		return err
	}
	s.cancelDrag()
	s.stack = st
	s.recent = append([]pixel.Color(nil), p.RecentColors...)
	s.history.Reset()
	s.coalesce = ""
	s.tool = ToolPencil
	s.notify(ChangeCanvas | ChangeLayers | ChangeHistory | ChangeColors | ChangeTool)
	return nil
}

// ExportPNG writes the flattened sprite at size×size.
func (s *Session) ExportPNG(path string, size int) error {
	if err := export.SavePNG(path, s.Flatten(s.GridSize()), size); err != nil {
		s.log.Warn("export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.log.Info("exported png", zap.String("path", path), zap.Int("size", size))
	return nil
}

// ExportICO writes the flattened sprite as a 16/32/64 icon.
func (s *Session) ExportICO(path string) error {
	if err := export.SaveICO(path, s.Flatten(s.GridSize())); err != nil {
		s.log.Warn("export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.log.Info("exported ico", zap.String("path", path))
	return nil
}
