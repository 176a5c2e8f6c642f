package main

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ha1tch/pixelforge/internal/config"
)

var namedKeys = map[string]int32{
	"UP":        rl.KeyUp,
	"DOWN":      rl.KeyDown,
	"LEFT":      rl.KeyLeft,
	"RIGHT":     rl.KeyRight,
	"DELETE":    rl.KeyDelete,
	"BACKSPACE": rl.KeyBackspace,
	"TAB":       rl.KeyTab,
	"ENTER":     rl.KeyEnter,
	"SPACE":     rl.KeySpace,
	"HOME":      rl.KeyHome,
	"END":       rl.KeyEnd,
}

// keyCode maps a binding key name to a raylib key.
func keyCode(name string) (int32, error) {
	if k, ok := namedKeys[name]; ok {
		return k, nil
	}
	if len(name) == 1 {
		c := name[0]
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return int32(c), nil
		}
	}
	if rest, ok := strings.CutPrefix(name, "F"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 12 {
			return rl.KeyF1 + int32(n-1), nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported key %q", config.ErrInvalid, name)
}

type chord struct {
	action string
	ctrl   bool
	shift  bool
	key    int32
}

// chords resolves the configured bindings to raylib keys.
func chords(bindings map[string]config.Binding) ([]chord, error) {
	var out []chord
	for action, b := range bindings {
		k, err := keyCode(b.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, chord{action: action, ctrl: b.Ctrl, shift: b.Shift, key: k})
	}
	return out, nil
}

// pressedAction returns the action whose chord was pressed this frame.
// Modifiers must match exactly, so Ctrl+Z never fires for Ctrl+Shift+Z.
func pressedAction(cs []chord) (string, bool) {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	for _, c := range cs {
		if c.ctrl == ctrl && c.shift == shift && rl.IsKeyPressed(c.key) {
			return c.action, true
		}
	}
	return "", false
}
