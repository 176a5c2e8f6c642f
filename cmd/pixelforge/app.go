package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/config"
	"github.com/ha1tch/pixelforge/internal/editor"
	"github.com/ha1tch/pixelforge/internal/history"
	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
	"github.com/ha1tch/pixelforge/internal/widget"
)

const (
	leftPanel  = 100
	rightPanel = 200
	topBar     = 50
	layerRow   = 20
	layerTop   = 80
	statusTime = 4 * time.Second

	// layerFooter is the space under the layer list for the opacity
	// slider and the two rows of layer buttons.
	layerFooter = 140
	// leftHeight is the height the tool, colour and file panel needs.
	leftHeight = 690
	maxNameLen = 24
)

// exportSizes are the PNG export renditions offered in the file panel.
var exportSizes = []int{16, 32, 64}

var paletteColors = []pixel.Color{
	pixel.RGB(0, 0, 0), pixel.RGB(255, 255, 255), pixel.RGB(230, 41, 55),
	pixel.RGB(0, 228, 48), pixel.RGB(0, 121, 241), pixel.RGB(253, 249, 0),
	pixel.RGB(255, 161, 0), pixel.RGB(200, 122, 255), pixel.RGB(255, 109, 194),
	pixel.RGB(127, 106, 79), pixel.RGB(130, 130, 130), pixel.RGB(80, 80, 80),
	pixel.RGB(200, 200, 200), pixel.RGB(102, 191, 255), pixel.RGB(255, 0, 255),
	pixel.RGB(255, 0, 128), pixel.RGB(128, 255, 0), pixel.RGB(0, 128, 255),
}

var tools = []editor.Tool{editor.ToolPencil, editor.ToolBucket, editor.ToolLine, editor.ToolCircle}

// App is the editor window.
type App struct {
	log  *zap.Logger
	sess *editor.Session

	path       string
	exportSize int
	area       int32
	cell       float32
	width      int32
	height     int32

	chords  []chord
	actions map[string]func() error

	toolButtons  []widget.Button
	editButtons  []widget.Button
	fileButtons  []widget.Button
	sizeButtons  []widget.Button
	layerButtons []widget.Button
	orderButtons []widget.Button
	opacity      widget.Slider

	layerScroll int
	follow      bool
	renaming    int // layer index being renamed, or -1
	nameBuf     []rune

	texture rl.Texture2D
	texSize int
	dirty   bool

	status      string
	statusError bool
	statusUntil time.Time
}

// NewApp lays out the window around sess. It must be called after the
// raylib window exists.
func NewApp(sess *editor.Session, cfg config.Config, path string, exportSize int, log *zap.Logger) (*App, error) {
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}
	cs, err := chords(bindings)
	if err != nil {
		return nil, err
	}

	area := int32(min(max(cfg.CellSize*sess.GridSize(), 320), 640))
	app := &App{
		log:        log,
		sess:       sess,
		path:       path,
		exportSize: exportSize,
		area:       area,
		chords:     cs,
		dirty:      true,
		renaming:   -1,
	}
	// Stacks taller than the default cap scroll rather than grow the window.
	rows := min(sess.Stack().MaxLayers(), layer.DefaultMaxLayers)
	app.width = leftPanel + area + 40 + rightPanel
	app.height = max(topBar+area+40, layerTop+int32(rows)*layerRow+layerFooter, leftHeight)
	app.relayout()
	app.actions = app.commands()

	app.toolButtons = widget.Grid(10, 50, 36, 4, 2, "P", "F", "L", "C")
	for i, t := range tools {
		app.toolButtons[i].Tip = t.String()
	}
	app.editButtons = widget.Grid(10, 140, 36, 4, 2, "CW", "CCW", "FH", "FV", "UN", "RE")
	for i, tip := range []string{"ROTATE CW", "ROTATE CCW", "FLIP H", "FLIP V", "UNDO", "REDO"} {
		app.editButtons[i].Tip = tip
	}
	app.fileButtons = widget.Grid(10, 460, 36, 4, 2, "SAV", "OPN", "PNG", "ICO")
	for i, tip := range []string{"SAVE PROJECT", "OPEN PROJECT", "EXPORT PNG", "EXPORT ICO"} {
		app.fileButtons[i].Tip = tip
	}
	app.sizeButtons = widget.Row(10, 540, 24, 18, 4, "16", "32", "64")
	for i, size := range exportSizes {
		app.sizeButtons[i].Tip = fmt.Sprintf("PNG %dX%d", size, size)
	}

	x := float32(app.width - rightPanel + 10)
	app.layerButtons = widget.Row(x, float32(app.height-40), 32, 30, 4, "NEW", "DUP", "DEL", "M^", "Mv")
	for i, tip := range []string{"ADD LAYER", "DUPLICATE", "DELETE", "MERGE ABOVE", "MERGE BELOW"} {
		app.layerButtons[i].Tip = tip
	}
	app.orderButtons = widget.Row(x, float32(app.height-76), 32, 30, 4, "UP", "DN", "REN")
	for i, tip := range []string{"MOVE UP", "MOVE DOWN", "RENAME"} {
		app.orderButtons[i].Tip = tip
	}
	app.opacity = widget.Slider{
		Rect:  rl.Rectangle{X: x, Y: float32(app.height - 106), Width: rightPanel - 60, Height: 16},
		Value: 1,
		Min:   0,
		Max:   1,
		Label: "OPACITY",
	}

	sess.OnChange(func(c editor.Change) {
		if c.Has(editor.ChangeCanvas) {
			app.dirty = true
		}
		if c.Has(editor.ChangeLayers) {
			app.follow = true
			app.renaming = -1
		}
	})
	return app, nil
}

// relayout sizes cells so the current grid fills the canvas area.
func (app *App) relayout() {
	app.cell = float32(app.area / int32(app.sess.GridSize()))
}

func (app *App) commands() map[string]func() error {
	s := app.sess
	tool := func(t editor.Tool) func() error {
		return func() error { s.SetTool(t); return nil }
	}
	return map[string]func() error{
		config.ActionAddLayer:       s.AddLayer,
		config.ActionDuplicateLayer: s.DuplicateLayer,
		config.ActionDeleteLayer:    s.DeleteLayer,
		config.ActionMergeAbove:     s.MergeAbove,
		config.ActionMergeBelow:     s.MergeBelow,
		config.ActionToggleLayer:    func() error { return s.ToggleVisibility(s.Stack().Current()) },
		config.ActionRenameLayer:    app.startRename,
		config.ActionMoveLayerUp:    s.MoveLayerUp,
		config.ActionMoveLayerDown:  s.MoveLayerDown,
		config.ActionRotateCW:       s.RotateClockwise,
		config.ActionRotateCCW:      s.RotateCounterClockwise,
		config.ActionFlipHorizontal: s.FlipHorizontal,
		config.ActionFlipVertical:   s.FlipVertical,
		config.ActionBucket:         tool(editor.ToolBucket),
		config.ActionLine:           tool(editor.ToolLine),
		config.ActionCircle:         tool(editor.ToolCircle),
		config.ActionUndo:           s.Undo,
		config.ActionRedo:           s.Redo,
		config.ActionSave:           app.save,
		config.ActionOpen:           app.open,
		config.ActionExport:         app.exportPNG,
	}
}

func (app *App) run(action string) {
	fn, ok := app.actions[action]
	if !ok {
		return
	}
	app.report(action, fn())
}

// report shows the outcome of a command in the status bar. Capacity and
// boundary refusals are warnings; an empty history is not worth a message.
func (app *App) report(action string, err error) {
	switch {
	case err == nil, errors.Is(err, history.ErrEmpty):
		return
	case errors.Is(err, layer.ErrLayerLimit), errors.Is(err, layer.ErrLastLayer), errors.Is(err, layer.ErrBoundary):
		app.setStatus(strings.ToUpper(err.Error()), false)
	default:
		app.log.Error("command failed", zap.String("action", action), zap.Error(err))
		app.setStatus("ERROR: "+err.Error(), true)
	}
}

func (app *App) setStatus(msg string, isErr bool) {
	app.status = msg
	app.statusError = isErr
	app.statusUntil = time.Now().Add(statusTime)
}

func (app *App) save() error {
	if err := app.sess.Save(app.path); err != nil {
		return err
	}
	app.setStatus("SAVED "+filepath.Base(app.path), false)
	return nil
}

func (app *App) open() error {
	return app.load(app.path)
}

func (app *App) load(path string) error {
	if err := app.sess.Load(path); err != nil {
		return err
	}
	app.path = path
	app.relayout()
	app.setStatus("OPENED "+filepath.Base(path), false)
	return nil
}

func (app *App) exportBase() string {
	return strings.TrimSuffix(app.path, filepath.Ext(app.path))
}

func (app *App) exportPNG() error {
	out := fmt.Sprintf("%s-%d.png", app.exportBase(), app.exportSize)
	if err := app.sess.ExportPNG(out, app.exportSize); err != nil {
		return err
	}
	app.setStatus("EXPORTED "+filepath.Base(out), false)
	return nil
}

func (app *App) exportICO() error {
	out := app.exportBase() + ".ico"
	if err := app.sess.ExportICO(out); err != nil {
		return err
	}
	app.setStatus("EXPORTED "+filepath.Base(out), false)
	return nil
}

func (app *App) canvasRect() rl.Rectangle {
	size := app.cell * float32(app.sess.GridSize())
	return rl.Rectangle{X: leftPanel + 20, Y: topBar + 20, Width: size, Height: size}
}

// ScreenToCanvas converts a window position to grid coordinates. The result
// may lie outside the grid.
func (app *App) ScreenToCanvas(screenX, screenY float32) (int, int) {
	r := app.canvasRect()
	fx := (screenX - r.X) / app.cell
	fy := (screenY - r.Y) / app.cell
	return floor(fx), floor(fy)
}

func floor(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}

// layerRows is how many layer rows fit above the layer controls.
func (app *App) layerRows() int {
	return max(1, int(app.height-layerTop-layerFooter)/layerRow)
}

// scrollLayers clamps the list offset. With follow set it first brings the
// current layer into view.
func (app *App) scrollLayers(follow bool) {
	st := app.sess.Stack()
	rows := app.layerRows()
	if follow {
		row := st.Len() - 1 - st.Current()
		if row < app.layerScroll {
			app.layerScroll = row
		}
		if row >= app.layerScroll+rows {
			app.layerScroll = row - rows + 1
		}
	}
	app.layerScroll = max(0, min(app.layerScroll, st.Len()-rows))
}

// layerRect returns the list row of layer i, top layer first. ok is false
// when the row is scrolled out of view.
func (app *App) layerRect(i int) (r rl.Rectangle, ok bool) {
	row := app.sess.Stack().Len() - 1 - i - app.layerScroll
	if row < 0 || row >= app.layerRows() {
		return rl.Rectangle{}, false
	}
	y := float32(layerTop + row*layerRow)
	return rl.Rectangle{X: float32(app.width - rightPanel + 10), Y: y, Width: rightPanel - 20, Height: layerRow - 2}, true
}

func (app *App) startRename() error {
	st := app.sess.Stack()
	app.renaming = st.Current()
	app.nameBuf = []rune(st.CurrentLayer().Name)
	return nil
}

// updateRename feeds typed characters into the name entry. Enter commits
// the name and Esc drops it.
func (app *App) updateRename() {
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		if c >= ' ' && len(app.nameBuf) < maxNameLen {
			app.nameBuf = append(app.nameBuf, rune(c))
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		app.renaming = -1
	case rl.IsKeyPressed(rl.KeyEnter):
		i, name := app.renaming, strings.TrimSpace(string(app.nameBuf))
		app.renaming = -1
		if st := app.sess.Stack(); i < st.Len() && name != "" && name != st.Layers()[i].Name {
			app.report(config.ActionRenameLayer, app.sess.RenameLayer(i, name))
		}
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		if len(app.nameBuf) > 0 {
			app.nameBuf = app.nameBuf[:len(app.nameBuf)-1]
		}
	}
}

func paletteRect(i int) rl.Rectangle {
	return rl.Rectangle{X: float32(10 + (i%3)*25), Y: float32(280 + (i/3)*25), Width: 20, Height: 20}
}

const maxRecent = 12

func recentRect(i int) rl.Rectangle {
	return rl.Rectangle{X: float32(10 + (i%3)*25), Y: float32(580 + (i/3)*25), Width: 20, Height: 20}
}

// recentShown returns the newest recent colours that fit the panel.
func (app *App) recentShown() []pixel.Color {
	recent := app.sess.RecentColors()
	return recent[max(0, len(recent)-maxRecent):]
}

// Update handles one frame of input.
func (app *App) Update() {
	mouse := rl.GetMousePosition()

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		rl.UnloadDroppedFiles()
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f), ".json") {
				app.report("open", app.load(f))
				break
			}
		}
	}

	// The name entry takes the keyboard while it is open.
	switch {
	case app.renaming >= 0:
		app.updateRename()
	case rl.IsKeyPressed(rl.KeyEscape):
		app.sess.Cancel()
	default:
		if action, ok := pressedAction(app.chords); ok {
			app.run(action)
		}
	}

	for i := range app.toolButtons {
		if app.toolButtons[i].Update(mouse) {
			app.sess.SetTool(tools[i])
		}
	}
	editActions := []string{config.ActionRotateCW, config.ActionRotateCCW, config.ActionFlipHorizontal,
		config.ActionFlipVertical, config.ActionUndo, config.ActionRedo}
	app.editButtons[4].Disabled = !app.sess.CanUndo()
	app.editButtons[5].Disabled = !app.sess.CanRedo()
	for i := range app.editButtons {
		if app.editButtons[i].Update(mouse) {
			app.run(editActions[i])
		}
	}
	for i := range app.fileButtons {
		if !app.fileButtons[i].Update(mouse) {
			continue
		}
		switch i {
		case 0:
			app.run(config.ActionSave)
		case 1:
			app.run(config.ActionOpen)
		case 2:
			app.run(config.ActionExport)
		case 3:
			app.report("export_ico", app.exportICO())
		}
	}
	for i := range app.sizeButtons {
		if app.sizeButtons[i].Update(mouse) {
			app.exportSize = exportSizes[i]
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for i, c := range paletteColors {
			if rl.CheckCollisionPointRec(mouse, paletteRect(i)) {
				app.report("color", app.sess.SetColor(c))
			}
		}
		for i, c := range app.recentShown() {
			if rl.CheckCollisionPointRec(mouse, recentRect(i)) {
				app.report("color", app.sess.SetColor(c))
			}
		}
	}

	layerActions := []string{config.ActionAddLayer, config.ActionDuplicateLayer, config.ActionDeleteLayer,
		config.ActionMergeAbove, config.ActionMergeBelow}
	for i := range app.layerButtons {
		if app.layerButtons[i].Update(mouse) {
			app.run(layerActions[i])
		}
	}
	orderActions := []string{config.ActionMoveLayerUp, config.ActionMoveLayerDown, config.ActionRenameLayer}
	st := app.sess.Stack()
	app.orderButtons[0].Disabled = st.Current() == st.Len()-1
	app.orderButtons[1].Disabled = st.Current() == 0
	for i := range app.orderButtons {
		if app.orderButtons[i].Update(mouse) {
			app.run(orderActions[i])
		}
	}

	panel := rl.Rectangle{X: float32(app.width - rightPanel), Y: layerTop, Width: rightPanel,
		Height: float32(app.layerRows() * layerRow)}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && rl.CheckCollisionPointRec(mouse, panel) {
		app.layerScroll -= int(wheel)
	}
	app.scrollLayers(app.follow)
	app.follow = false

	for i := range app.sess.Stack().Layers() {
		r, ok := app.layerRect(i)
		if !ok || !rl.CheckCollisionPointRec(mouse, r) || !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			continue
		}
		vis := rl.Rectangle{X: r.X + 3, Y: r.Y + 2, Width: 14, Height: 14}
		switch {
		case rl.CheckCollisionPointRec(mouse, vis):
			app.report("toggle_layer", app.sess.ToggleVisibility(i))
		case i == app.sess.Stack().Current() && app.renaming < 0:
			app.run(config.ActionRenameLayer)
		default:
			app.report("select_layer", app.sess.SelectLayer(i))
		}
		break
	}

	if app.opacity.Update(mouse) {
		app.report("opacity", app.sess.SetOpacity(float64(app.opacity.Value)))
	}
	if !app.opacity.Dragging() {
		app.opacity.Value = float32(app.sess.Stack().CurrentLayer().Opacity)
	}

	app.updateCanvas(mouse)
}

func (app *App) updateCanvas(mouse rl.Vector2) {
	x, y := app.ScreenToCanvas(mouse.X, mouse.Y)
	inside := rl.CheckCollisionPointRec(mouse, app.canvasRect())

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton) && inside:
		app.sess.Press(x, y)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		app.sess.Release(x, y)
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		app.sess.Drag(x, y)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) && inside {
		app.sess.Erase(x, y)
	}
}

// refresh uploads the composite to the GPU when the canvas changed.
func (app *App) refresh() {
	if !app.dirty {
		return
	}
	app.dirty = false
	img := app.sess.Canvas()
	if app.texSize != app.sess.GridSize() {
		if app.texSize != 0 {
			rl.UnloadTexture(app.texture)
		}
		im := rl.NewImageFromImage(img)
		app.texture = rl.LoadTextureFromImage(im)
		rl.UnloadImage(im)
		rl.SetTextureFilter(app.texture, rl.FilterPoint)
		app.texSize = app.sess.GridSize()
		return
	}
	rl.UpdateTexture(app.texture, rgba(img))
}

func rgba(img *image.RGBA) []color.RGBA {
	px := make([]color.RGBA, len(img.Pix)/4)
	for i := range px {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		px[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return px
}

func toRL(c pixel.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// Draw renders one frame.
func (app *App) Draw() {
	app.refresh()

	rl.BeginDrawing()
	rl.ClearBackground(widget.Background)
	mouse := rl.GetMousePosition()

	app.drawCanvas(mouse)
	app.drawLeftPanel(mouse)
	app.drawLayers(mouse)
	app.drawTopBar()

	rl.EndDrawing()
}

func (app *App) drawCanvas(mouse rl.Vector2) {
	r := app.canvasRect()
	widget.Checkerboard(r, int32(app.cell/2)+1)

	n := float32(app.sess.GridSize())
	rl.DrawTexturePro(app.texture, rl.Rectangle{Width: n, Height: n}, r, rl.Vector2{}, 0, rl.White)

	if app.cell >= 8 {
		grid := rl.Color{R: 0, G: 0, B: 0, A: 40}
		for i := float32(1); i < n; i++ {
			rl.DrawLineV(rl.Vector2{X: r.X + i*app.cell, Y: r.Y}, rl.Vector2{X: r.X + i*app.cell, Y: r.Y + r.Height}, grid)
			rl.DrawLineV(rl.Vector2{X: r.X, Y: r.Y + i*app.cell}, rl.Vector2{X: r.X + r.Width, Y: r.Y + i*app.cell}, grid)
		}
	}
	rl.DrawRectangleLinesEx(r, 2, rl.Color{R: 100, G: 100, B: 100, A: 255})

	if rl.CheckCollisionPointRec(mouse, r) {
		x, y := app.ScreenToCanvas(mouse.X, mouse.Y)
		cur := rl.Rectangle{X: r.X + float32(x)*app.cell, Y: r.Y + float32(y)*app.cell, Width: app.cell, Height: app.cell}
		rl.DrawRectangleLinesEx(cur, 1, rl.White)
	}
}

func (app *App) drawLeftPanel(mouse rl.Vector2) {
	rl.DrawRectangle(0, 0, leftPanel, app.height, widget.PanelColor)
	rl.DrawText("PIXEL FORGE", 10, 10, widget.FontSize, rl.White)
	rl.DrawText("TOOLS", 10, 35, widget.FontSize, rl.LightGray)

	for i := range app.toolButtons {
		app.toolButtons[i].Selected = tools[i] == app.sess.Tool()
		app.toolButtons[i].Draw(mouse)
	}
	rl.DrawText("EDIT", 10, 128, widget.FontSize, rl.LightGray)
	for i := range app.editButtons {
		app.editButtons[i].Draw(mouse)
	}

	rl.DrawText("COLORS", 10, 266, widget.FontSize, rl.LightGray)
	current := app.sess.Color()
	for i, c := range paletteColors {
		swatch(paletteRect(i), c, c == current)
	}
	rl.DrawRectangle(10, 425, 40, 24, toRL(current))
	rl.DrawRectangleLines(10, 425, 40, 24, rl.White)

	rl.DrawText("FILE", 10, 450, widget.FontSize, rl.LightGray)
	for i := range app.fileButtons {
		app.fileButtons[i].Draw(mouse)
	}

	for i, size := range exportSizes {
		app.sizeButtons[i].Selected = size == app.exportSize
		app.sizeButtons[i].Draw(mouse)
	}

	rl.DrawText("RECENT", 10, 566, widget.FontSize, rl.LightGray)
	for i, c := range app.recentShown() {
		swatch(recentRect(i), c, c == current)
	}
}

func swatch(r rl.Rectangle, c pixel.Color, selected bool) {
	rl.DrawRectangleRec(r, toRL(c))
	if selected {
		rl.DrawRectangleLinesEx(r, 2, rl.White)
	} else {
		rl.DrawRectangleLinesEx(r, 1, rl.Color{R: 70, G: 70, B: 70, A: 255})
	}
}

func (app *App) drawLayers(mouse rl.Vector2) {
	x := app.width - rightPanel
	rl.DrawRectangle(x, 0, rightPanel, app.height, widget.PanelColor)
	st := app.sess.Stack()
	rl.DrawText(fmt.Sprintf("LAYERS %d/%d", st.Len(), st.MaxLayers()), x+10, 10, widget.FontSize, rl.White)

	for i, l := range st.Layers() {
		r, ok := app.layerRect(i)
		if !ok {
			continue
		}
		bg := rl.Color{R: 60, G: 60, B: 60, A: 255}
		if i == st.Current() {
			bg = rl.Color{R: 80, G: 80, B: 120, A: 255}
		}
		rl.DrawRectangleRec(r, bg)

		vis := rl.Rectangle{X: r.X + 3, Y: r.Y + 2, Width: 14, Height: 14}
		rl.DrawRectangleRec(vis, widget.Background)
		rl.DrawRectangleLinesEx(vis, 1, rl.White)
		if l.Visible {
			rl.DrawText("V", int32(vis.X+4), int32(vis.Y+3), widget.FontSize, rl.White)
		}

		name := l.Name
		if l.Opacity < 1 {
			name = fmt.Sprintf("%s %d%%", name, int(l.Opacity*100+0.5))
		}
		nameColor := rl.White
		if !l.Visible {
			nameColor = rl.Gray
		}
		if i == app.renaming {
			entry := rl.Rectangle{X: r.X + 20, Y: r.Y + 1, Width: r.Width - 22, Height: r.Height - 2}
			rl.DrawRectangleRec(entry, widget.Background)
			rl.DrawRectangleLinesEx(entry, 1, rl.Yellow)
			name, nameColor = string(app.nameBuf)+"_", rl.Yellow
		}
		rl.DrawText(name, int32(r.X+24), int32(r.Y+5), widget.FontSize, nameColor)
	}
	if app.layerScroll > 0 {
		rl.DrawText("^", x+rightPanel-16, layerTop-12, widget.FontSize, rl.LightGray)
	}
	if app.layerScroll+app.layerRows() < st.Len() {
		rl.DrawText("v", x+rightPanel-16, int32(layerTop+app.layerRows()*layerRow), widget.FontSize, rl.LightGray)
	}

	app.opacity.Draw("%.2f")
	for i := range app.layerButtons {
		app.layerButtons[i].Draw(mouse)
	}
	for i := range app.orderButtons {
		app.orderButtons[i].Draw(mouse)
	}
}

func (app *App) drawTopBar() {
	rl.DrawRectangle(leftPanel, 0, app.width-leftPanel-rightPanel, topBar, widget.BarColor)
	undo, redo := "", ""
	if app.sess.CanUndo() {
		undo = " | UNDO"
	}
	if app.sess.CanRedo() {
		redo = " | REDO"
	}
	info := fmt.Sprintf("FILE: %s | %dX%d | TOOL: %s | LAYER: %s%s%s",
		filepath.Base(app.path), app.sess.GridSize(), app.sess.GridSize(),
		app.sess.Tool(), app.sess.Stack().CurrentLayer().Name, undo, redo)
	rl.DrawText(info, leftPanel+10, 12, widget.FontSize, rl.White)

	if app.status != "" && time.Now().Before(app.statusUntil) {
		c := rl.Yellow
		if app.statusError {
			c = rl.Red
		}
		rl.DrawText(app.status, leftPanel+10, 30, widget.FontSize, c)
	}
}

// Close releases GPU resources.
func (app *App) Close() {
	if app.texSize != 0 {
		rl.UnloadTexture(app.texture)
	}
}
