package editor

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ha1tch/pixelforge/internal/history"
	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
	"github.com/ha1tch/pixelforge/internal/project"
)

var (
	red  = pixel.RGB(255, 0, 0)
	blue = pixel.RGB(0, 0, 255)
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(16, opts...)
	require.NoError(t, err)
	require.NoError(t, s.SetColor(red))
	return s
}

func paint(s *Session, x, y int) {
	s.Press(x, y)
	s.Release(x, y)
}

func TestNewRejectsOddSizes(t *testing.T) {
	_, err := New(20)
	assert.Error(t, err)
	s, err := New(32)
	require.NoError(t, err)
	assert.Equal(t, 32, s.GridSize())
	assert.Equal(t, ToolPencil, s.Tool())
}

func TestEndToEndComposite(t *testing.T) {
	s := newSession(t)
	paint(s, 3, 3)
	require.NoError(t, s.AddLayer())
	require.NoError(t, s.SetColor(blue))
	paint(s, 3, 3)

	img := s.Flatten(16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := color.RGBA{}
			if x == 3 && y == 3 {
				want = color.RGBA{0, 0, 255, 255}
			}
			assert.Equal(t, want, img.RGBAAt(x, y))
		}
	}
}

func TestUndoAllRestoresStart(t *testing.T) {
	s := newSession(t)
	paint(s, 0, 0)
	start := s.Stack().Clone()

	ops := []func() error{
		func() error { paint(s, 1, 1); return nil },
		s.RotateClockwise,
		s.FlipHorizontal,
		func() error { s.SetTool(ToolBucket); paint(s, 8, 8); return nil },
		func() error { return s.SetOpacity(0.5) },
		s.FlipVertical,
		s.RotateCounterClockwise,
		func() error { s.Erase(0, 0); return nil },
	}
	for _, op := range ops {
		require.NoError(t, op())
	}
	for range ops {
		require.NoError(t, s.Undo())
	}
	assert.True(t, start.Equal(s.Stack()))
}

func TestNewEditClearsRedo(t *testing.T) {
	s := newSession(t)
	paint(s, 0, 0)
	require.NoError(t, s.Undo())
	assert.True(t, s.CanRedo())

	paint(s, 1, 1)
	assert.False(t, s.CanRedo())
	assert.ErrorIs(t, s.Redo(), history.ErrEmpty)

	for _, op := range []func() error{s.AddLayer, s.RotateClockwise, s.DuplicateLayer, s.FlipVertical} {
		require.NoError(t, s.Undo())
		require.True(t, s.CanRedo())
		require.NoError(t, op())
		assert.False(t, s.CanRedo())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := newSession(t)
	paint(s, 2, 2)
	after := s.Stack().Clone()

	require.NoError(t, s.Undo())
	assert.Equal(t, pixel.Transparent, s.Stack().CurrentLayer().Buffer.Get(2, 2))
	require.NoError(t, s.Redo())
	assert.True(t, after.Equal(s.Stack()))
	assert.ErrorIs(t, s.Redo(), history.ErrEmpty)
}

func TestUndoRevertsStructuralEdits(t *testing.T) {
	s := newSession(t)
	paint(s, 0, 0)
	require.NoError(t, s.AddLayer())
	require.NoError(t, s.SelectLayer(0))

	// Undo after switching layers reverts the add, not layer 0's paint.
	require.NoError(t, s.Undo())
	assert.Equal(t, 1, s.Stack().Len())
	assert.Equal(t, red, s.Stack().CurrentLayer().Buffer.Get(0, 0))
}

func TestRenameLayerIsOneUndoStep(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddLayer())
	undo, _ := s.history.Len()

	require.NoError(t, s.RenameLayer(1, "outline"))
	assert.Equal(t, "outline", s.Stack().Layers()[1].Name)
	u, _ := s.history.Len()
	assert.Equal(t, undo+1, u)

	require.NoError(t, s.Undo())
	assert.Equal(t, "Layer 2", s.Stack().Layers()[1].Name)
	require.NoError(t, s.Redo())
	assert.Equal(t, "outline", s.Stack().Layers()[1].Name)

	assert.Error(t, s.RenameLayer(1, ""))
	assert.ErrorIs(t, s.RenameLayer(5, "x"), layer.ErrIndex)
	u, _ = s.history.Len()
	assert.Equal(t, undo+1, u)
}

func TestMoveLayerIsOneUndoStep(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddLayer())
	require.NoError(t, s.AddLayer())
	names := func() []string {
		var out []string
		for _, l := range s.Stack().Layers() {
			out = append(out, l.Name)
		}
		return out
	}
	require.NoError(t, s.SelectLayer(0))
	undo, _ := s.history.Len()

	require.NoError(t, s.MoveLayerUp())
	assert.Equal(t, []string{"Layer 2", "Layer 1", "Layer 3"}, names())
	assert.Equal(t, 1, s.Stack().Current())
	u, _ := s.history.Len()
	assert.Equal(t, undo+1, u)

	require.NoError(t, s.MoveLayerDown())
	assert.Equal(t, []string{"Layer 1", "Layer 2", "Layer 3"}, names())
	require.NoError(t, s.MoveLayer(0, 2))
	assert.Equal(t, []string{"Layer 2", "Layer 3", "Layer 1"}, names())
	u, _ = s.history.Len()
	assert.Equal(t, undo+3, u)

	require.NoError(t, s.Undo())
	assert.Equal(t, []string{"Layer 1", "Layer 2", "Layer 3"}, names())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.Equal(t, []string{"Layer 1", "Layer 2", "Layer 3"}, names())
	assert.Equal(t, 0, s.Stack().Current())
}

func TestMoveLayerAtEdgesChangesNothing(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddLayer())
	undo, redo := s.history.Len()
	before := s.Stack().Clone()

	assert.ErrorIs(t, s.MoveLayerUp(), layer.ErrBoundary)
	require.NoError(t, s.SelectLayer(0))
	assert.ErrorIs(t, s.MoveLayerDown(), layer.ErrBoundary)
	assert.ErrorIs(t, s.MoveLayer(0, 2), layer.ErrIndex)

	u, r := s.history.Len()
	assert.Equal(t, undo, u)
	assert.Equal(t, redo, r)
	require.NoError(t, s.SelectLayer(1))
	assert.True(t, before.Equal(s.Stack()))
}

func TestEmptyUndoIsSilent(t *testing.T) {
	s := newSession(t)
	before := s.Stack().Clone()
	assert.ErrorIs(t, s.Undo(), history.ErrEmpty)
	assert.True(t, before.Equal(s.Stack()))
}

func TestRejectedCommandsChangeNothing(t *testing.T) {
	s := newSession(t, WithMaxLayers(3))
	require.NoError(t, s.AddLayer())
	require.NoError(t, s.AddLayer())
	undo, redo := s.history.Len()

	before := s.Stack().Clone()
	assert.ErrorIs(t, s.AddLayer(), layer.ErrLayerLimit)
	assert.ErrorIs(t, s.DuplicateLayer(), layer.ErrLayerLimit)
	assert.ErrorIs(t, s.MergeAbove(), layer.ErrBoundary)
	assert.Equal(t, 3, s.Stack().Len())
	assert.True(t, before.Equal(s.Stack()))
	u, r := s.history.Len()
	assert.Equal(t, undo, u)
	assert.Equal(t, redo, r)

	single := newSession(t)
	assert.ErrorIs(t, single.DeleteLayer(), layer.ErrLastLayer)
	assert.ErrorIs(t, single.MergeBelow(), layer.ErrBoundary)
	assert.False(t, single.CanUndo())
}

func TestAddLayerAtTwentyFive(t *testing.T) {
	s := newSession(t)
	for s.Stack().Len() < 25 {
		require.NoError(t, s.AddLayer())
	}
	assert.ErrorIs(t, s.AddLayer(), layer.ErrLayerLimit)
	assert.Equal(t, 25, s.Stack().Len())
}

func TestBucketSameColourIsNoop(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolBucket)
	paint(s, 0, 0)
	assert.Equal(t, 256, s.Stack().CurrentLayer().Buffer.Painted())
	assert.Equal(t, ToolPencil, s.Tool(), "bucket is one-shot")
	u, _ := s.history.Len()

	before := s.Stack().Clone()
	s.SetTool(ToolBucket)
	paint(s, 4, 4)
	assert.True(t, before.Equal(s.Stack()))
	u2, _ := s.history.Len()
	assert.Equal(t, u, u2, "no snapshot for a no-op fill")
	assert.Equal(t, ToolPencil, s.Tool())
}

func TestPencilStrokeConnectsPoints(t *testing.T) {
	s := newSession(t)
	s.Press(0, 0)
	s.Drag(5, 0)
	s.Drag(5, 3)
	s.Release(5, 3)

	buf := s.Stack().CurrentLayer().Buffer
	for x := 0; x <= 5; x++ {
		assert.Equal(t, red, buf.Get(x, 0))
	}
	for y := 0; y <= 3; y++ {
		assert.Equal(t, red, buf.Get(5, y))
	}
	assert.Equal(t, 9, buf.Painted())

	require.NoError(t, s.Undo())
	assert.Equal(t, 0, s.Stack().CurrentLayer().Buffer.Painted(), "one stroke is one undo step")
}

func TestLinePreviewThenCommit(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolLine)
	s.Press(0, 0)
	assert.True(t, s.Dragging())
	s.Drag(3, 3)
	s.Drag(3, 0)

	buf := s.Stack().CurrentLayer().Buffer
	assert.Equal(t, 0, buf.Painted(), "preview is not committed")
	canvas := s.Canvas()
	assert.Equal(t, uint8(255), canvas.RGBAAt(3, 0).A)
	assert.Equal(t, uint8(0), canvas.RGBAAt(3, 3).A, "earlier preview cleared")
	assert.False(t, s.CanUndo())

	s.Release(3, 0)
	assert.False(t, s.Dragging())
	assert.Equal(t, ToolPencil, s.Tool())
	for x := 0; x <= 3; x++ {
		assert.Equal(t, red, buf.Get(x, 0))
	}
	assert.Equal(t, 4, buf.Painted())
	assert.True(t, s.CanUndo())
}

func TestCircleCommit(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolCircle)
	s.Press(5, 5)
	s.Release(5, 7)

	buf := s.Stack().CurrentLayer().Buffer
	assert.Equal(t, red, buf.Get(5, 7))
	assert.Equal(t, pixel.Transparent, buf.Get(5, 8))
	assert.Equal(t, 13, buf.Painted())
}

func TestCancelDiscardsShape(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolCircle)
	s.Press(5, 5)
	s.Drag(9, 9)
	s.Cancel()
	assert.False(t, s.Dragging())
	assert.Equal(t, 0, s.Stack().CurrentLayer().Buffer.Painted())
	assert.False(t, s.CanUndo())
	assert.Equal(t, ToolCircle, s.Tool(), "tool stays armed until a commit")
}

func TestPressOutsideGridIgnored(t *testing.T) {
	s := newSession(t)
	s.Press(-1, 4)
	s.Press(16, 0)
	assert.False(t, s.Dragging())
	assert.False(t, s.CanUndo())
}

func TestEraseRecordsOnlyRealChanges(t *testing.T) {
	s := newSession(t)
	s.Erase(0, 0)
	assert.False(t, s.CanUndo())
	paint(s, 0, 0)
	s.Erase(0, 0)
	assert.Equal(t, pixel.Transparent, s.Stack().CurrentLayer().Buffer.Get(0, 0))
	require.NoError(t, s.Undo())
	assert.Equal(t, red, s.Stack().CurrentLayer().Buffer.Get(0, 0))
}

func TestOpacityDragIsOneUndoStep(t *testing.T) {
	s := newSession(t)
	for _, v := range []float64{0.9, 0.7, 0.5} {
		require.NoError(t, s.SetOpacity(v))
	}
	assert.Equal(t, 0.5, s.Stack().CurrentLayer().Opacity)
	u, _ := s.history.Len()
	assert.Equal(t, 1, u)
	require.NoError(t, s.Undo())
	assert.Equal(t, 1.0, s.Stack().CurrentLayer().Opacity)
}

func TestRecentColours(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetColor(blue))
	require.NoError(t, s.SetColor(red))
	assert.Equal(t, []pixel.Color{red, blue}, s.RecentColors())
	assert.Error(t, s.SetColor(pixel.Transparent))
	assert.Equal(t, red, s.Color())
}

func TestObservers(t *testing.T) {
	s := newSession(t)
	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })

	require.NoError(t, s.AddLayer())
	require.Len(t, got, 1)
	assert.True(t, got[0].Has(ChangeLayers|ChangeCanvas|ChangeHistory))

	got = nil
	_ = s.AddLayer()
	s.SetTool(ToolLine)
	assert.True(t, got[len(got)-1].Has(ChangeTool))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.json")

	s := newSession(t)
	paint(s, 3, 3)
	require.NoError(t, s.AddLayer())
	require.NoError(t, s.SetOpacity(0.5))
	require.NoError(t, s.Save(path))

	other, err := New(32)
	require.NoError(t, err)
	require.NoError(t, other.AddLayer())
	require.NoError(t, other.Load(path))
	assert.Equal(t, 16, other.GridSize())
	assert.Equal(t, 2, other.Stack().Len())
	assert.Equal(t, red, other.Stack().Layers()[0].Buffer.Get(3, 3))
	assert.Equal(t, 0.5, other.Stack().Layers()[1].Opacity)
	assert.Equal(t, []pixel.Color{red}, other.RecentColors())
	assert.False(t, other.CanUndo())
}

func TestLoadHonoursLayerCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tall.json")
	s := newSession(t, WithMaxLayers(30))
	for s.Stack().Len() < 30 {
		require.NoError(t, s.AddLayer())
	}
	require.NoError(t, s.Save(path))

	assert.ErrorIs(t, newSession(t).Load(path), project.ErrInvalid)
	other := newSession(t, WithMaxLayers(30))
	require.NoError(t, other.Load(path))
	assert.Equal(t, 30, other.Stack().Len())
}

func TestFailedLoadKeepsState(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"layers":[{"data":[[null]]}]}`), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	s := newSession(t, WithLogger(zap.New(core)))
	paint(s, 1, 1)
	before := s.Stack().Clone()

	assert.Error(t, s.Load(bad))
	assert.Error(t, s.Load(filepath.Join(dir, "missing.json")))
	assert.True(t, before.Equal(s.Stack()))
	assert.True(t, s.CanUndo())
	assert.Equal(t, 2, logs.FilterMessage("load failed").Len())
}

func TestExports(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t)
	paint(s, 0, 0)
	require.NoError(t, s.ExportPNG(filepath.Join(dir, "a.png"), 64))
	require.NoError(t, s.ExportICO(filepath.Join(dir, "a.ico")))
	assert.Error(t, s.ExportPNG(filepath.Join(dir, "no", "a.png"), 16))
}
