package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/animate"
	"github.com/ha1tch/pixelforge/internal/widget"
)

const (
	screenWidth  = 900
	screenHeight = 600
	listPanel    = 260
	listTop      = 60
	listRow      = 18
	durationStep = 10 * time.Millisecond
	statusTime   = 4 * time.Second
)

// App is the animator window.
type App struct {
	log    *zap.Logger
	seq    *animate.Sequence
	player *animate.Player
	out    string

	selected int
	textures []rl.Texture2D
	width    int32
	height   int32

	buttons []widget.Button
	preview *widget.Button

	status      string
	statusError bool
	statusUntil time.Time
}

// NewApp builds the window state for seq. GIFs are written to out.
func NewApp(seq *animate.Sequence, out string, log *zap.Logger) *App {
	app := &App{
		log: log,
		seq: seq,
		out: out,
		player: animate.NewPlayer(seq.Len(), seq.FrameDuration(),
			animate.WithPlayerLogger(log.Named("preview"))),
	}
	app.buttons = widget.Grid(10, screenHeight-110, 56, 6, 4,
		"UP", "DOWN", "REMOVE", "CLEAR", "-10MS", "+10MS", "PLAY", "SAVE")
	for i := range app.buttons {
		app.buttons[i].Rect.Height = 40
	}
	app.preview = &app.buttons[6]
	return app
}

func (app *App) setStatus(msg string, isErr bool) {
	app.status = msg
	app.statusError = isErr
	app.statusUntil = time.Now().Add(statusTime)
}

func (app *App) fail(what string, err error) {
	app.log.Warn(what, zap.Error(err))
	app.setStatus(strings.ToUpper(what)+": "+err.Error(), true)
}

// reload decodes every frame and uploads it for preview.
func (app *App) reload() {
	app.player.Stop()
	app.unload()
	app.width, app.height = 0, 0

	frames, err := app.seq.Frames()
	if err != nil {
		app.fail("load frames", err)
		frames = nil
	}
	for i, f := range frames {
		if i == 0 {
			b := f.Bounds()
			app.width, app.height = int32(b.Dx()), int32(b.Dy())
		}
		im := rl.NewImageFromImage(f)
		tex := rl.LoadTextureFromImage(im)
		rl.UnloadImage(im)
		rl.SetTextureFilter(tex, rl.FilterPoint)
		app.textures = append(app.textures, tex)
	}
	app.player.SetFrames(len(app.textures))
	app.selected = min(app.selected, max(0, app.seq.Len()-1))
}

func (app *App) unload() {
	for _, t := range app.textures {
		rl.UnloadTexture(t)
	}
	app.textures = nil
}

func (app *App) setDuration(d time.Duration) {
	if err := app.seq.SetFrameDuration(d); err != nil {
		app.setStatus(strings.ToUpper(err.Error()), false)
		return
	}
	app.player.SetDelay(d) //nolint:errcheck
}

func (app *App) save() {
	if err := app.seq.Save(app.out); err != nil {
		app.fail("save gif", err)
		return
	}
	app.log.Info("wrote gif", zap.String("path", app.out), zap.Int("frames", app.seq.Len()))
	app.setStatus("SAVED "+filepath.Base(app.out), false)
}

func listRect(i int) rl.Rectangle {
	return rl.Rectangle{X: 10, Y: float32(listTop + i*listRow), Width: listPanel - 20, Height: listRow - 2}
}

// Update handles one frame of input.
func (app *App) Update() {
	mouse := rl.GetMousePosition()

	if rl.IsFileDropped() {
		var added []string
		for _, f := range rl.LoadDroppedFiles() {
			if strings.EqualFold(filepath.Ext(f), ".png") {
				added = append(added, f)
			}
		}
		rl.UnloadDroppedFiles()
		if len(added) > 0 {
			app.seq.Add(added...)
			app.reload()
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for i := 0; i < app.seq.Len(); i++ {
			if rl.CheckCollisionPointRec(mouse, listRect(i)) {
				app.selected = i
			}
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		app.toggle()
	}

	for i := range app.buttons {
		if !app.buttons[i].Update(mouse) {
			continue
		}
		switch i {
		case 0:
			if app.seq.MoveUp(app.selected) == nil && app.selected > 0 {
				app.selected--
				app.reload()
			}
		case 1:
			if app.seq.MoveDown(app.selected) == nil && app.selected < app.seq.Len()-1 {
				app.selected++
				app.reload()
			}
		case 2:
			if app.seq.Remove(app.selected) == nil {
				app.reload()
			}
		case 3:
			app.seq.Clear()
			app.selected = 0
			app.reload()
		case 4:
			app.setDuration(app.seq.FrameDuration() - durationStep)
		case 5:
			app.setDuration(app.seq.FrameDuration() + durationStep)
		case 6:
			app.toggle()
		case 7:
			app.save()
		}
	}
}

func (app *App) toggle() {
	if err := app.player.Toggle(); err != nil {
		app.setStatus("NO FRAMES TO PREVIEW", false)
	}
}

// Draw renders one frame.
func (app *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(widget.Background)
	mouse := rl.GetMousePosition()

	rl.DrawRectangle(0, 0, listPanel, screenHeight, widget.PanelColor)
	rl.DrawText("FRAMES", 10, 10, widget.FontSize, rl.White)
	rl.DrawText("DROP PNG FILES ON THE WINDOW", 10, 30, widget.FontSize, rl.LightGray)
	for i, p := range app.seq.Paths() {
		r := listRect(i)
		if r.Y+r.Height > screenHeight-120 {
			break
		}
		bg := rl.Color{R: 60, G: 60, B: 60, A: 255}
		if i == app.selected {
			bg = rl.Color{R: 80, G: 80, B: 120, A: 255}
		}
		rl.DrawRectangleRec(r, bg)
		rl.DrawText(fmt.Sprintf("%2d %s", i+1, filepath.Base(p)), int32(r.X+4), int32(r.Y+4), widget.FontSize, rl.White)
	}

	app.preview.Text = "PLAY"
	app.preview.Selected = app.player.Running()
	if app.preview.Selected {
		app.preview.Text = "STOP"
	}
	for i := range app.buttons {
		app.buttons[i].Draw(mouse)
	}

	rl.DrawRectangle(listPanel, 0, screenWidth-listPanel, 50, widget.BarColor)
	info := fmt.Sprintf("FRAMES: %d | DURATION: %dMS | OUT: %s",
		app.seq.Len(), app.seq.FrameDuration().Milliseconds(), filepath.Base(app.out))
	rl.DrawText(info, listPanel+10, 12, widget.FontSize, rl.White)
	if app.status != "" && time.Now().Before(app.statusUntil) {
		c := rl.Yellow
		if app.statusError {
			c = rl.Red
		}
		rl.DrawText(app.status, listPanel+10, 30, widget.FontSize, c)
	}

	app.drawPreview()
	rl.EndDrawing()
}

// drawPreview shows the playing frame, or the selected one when stopped,
// at the largest integer scale that fits.
func (app *App) drawPreview() {
	if len(app.textures) == 0 || app.width == 0 {
		return
	}
	i := app.selected
	if app.player.Running() {
		i = app.player.Frame()
	}
	if i >= len(app.textures) {
		return
	}

	areaW := float32(screenWidth - listPanel - 40)
	areaH := float32(screenHeight - 50 - 40)
	scale := max(1, min(int(areaW)/int(app.width), int(areaH)/int(app.height)))
	w := float32(int(app.width) * scale)
	h := float32(int(app.height) * scale)
	dst := rl.Rectangle{
		X:      listPanel + 20 + (areaW-w)/2,
		Y:      50 + 20 + (areaH-h)/2,
		Width:  w,
		Height: h,
	}
	widget.Checkerboard(dst, 8)

	// Frames are shown in the first frame's canvas, as the GIF will be.
	tex := app.textures[i]
	src := rl.Rectangle{Width: float32(min(tex.Width, app.width)), Height: float32(min(tex.Height, app.height))}
	dst.Width = src.Width * float32(scale)
	dst.Height = src.Height * float32(scale)
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Close stops playback and releases GPU resources.
func (app *App) Close() {
	app.player.Stop()
	app.unload()
}
