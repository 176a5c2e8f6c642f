// Package config loads editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Actions that can be bound to a key.
const (
	ActionAddLayer       = "add_layer"
	ActionDuplicateLayer = "duplicate_layer"
	ActionDeleteLayer    = "delete_layer"
	ActionMergeAbove     = "merge_above"
	ActionMergeBelow     = "merge_below"
	ActionToggleLayer    = "toggle_layer"
	ActionRenameLayer    = "rename_layer"
	ActionMoveLayerUp    = "move_layer_up"
	ActionMoveLayerDown  = "move_layer_down"
	ActionRotateCW       = "rotate_cw"
	ActionRotateCCW      = "rotate_ccw"
	ActionFlipHorizontal = "flip_horizontal"
	ActionFlipVertical   = "flip_vertical"
	ActionBucket         = "paint_bucket"
	ActionLine           = "line"
	ActionCircle         = "circle"
	ActionUndo           = "undo"
	ActionRedo           = "redo"
	ActionSave           = "save"
	ActionOpen           = "open"
	ActionExport         = "export"
)

// Config holds every user-tunable setting.
type Config struct {
	GridSize        int               `toml:"grid_size"`
	MaxLayers       int               `toml:"max_layers"`
	HistoryLimit    int               `toml:"history_limit"`
	CellSize        int               `toml:"cell_size"`
	FrameDurationMS int               `toml:"frame_duration_ms"`
	Keys            map[string]string `toml:"keys"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GridSize:        16,
		MaxLayers:       layer.DefaultMaxLayers,
		HistoryLimit:    256,
		CellSize:        20,
		FrameDurationMS: 100,
		Keys: map[string]string{
			ActionAddLayer:       "Ctrl+A",
			ActionDuplicateLayer: "Ctrl+Shift+D",
			ActionDeleteLayer:    "Ctrl+D",
			ActionMergeAbove:     "Ctrl+Q",
			ActionMergeBelow:     "Ctrl+Shift+Q",
			ActionToggleLayer:    "T",
			ActionRenameLayer:    "Ctrl+R",
			ActionMoveLayerUp:    "Shift+Up",
			ActionMoveLayerDown:  "Shift+Down",
			ActionRotateCW:       "Ctrl+Up",
			ActionRotateCCW:      "Ctrl+Down",
			ActionFlipHorizontal: "Left",
			ActionFlipVertical:   "Right",
			ActionBucket:         "Ctrl+P",
			ActionLine:           "L",
			ActionCircle:         "C",
			ActionUndo:           "Ctrl+Z",
			ActionRedo:           "Ctrl+Shift+Z",
			ActionSave:           "Ctrl+S",
			ActionOpen:           "Ctrl+O",
			ActionExport:         "Ctrl+E",
		},
	}
}

// FrameDuration returns the animator frame duration.
func (c Config) FrameDuration() time.Duration {
	return time.Duration(c.FrameDurationMS) * time.Millisecond
}

// file mirrors Config so zero values mean "not set".
type file struct {
	GridSize        int               `toml:"grid_size"`
	MaxLayers       int               `toml:"max_layers"`
	HistoryLimit    int               `toml:"history_limit"`
	CellSize        int               `toml:"cell_size"`
	FrameDurationMS int               `toml:"frame_duration_ms"`
	Keys            map[string]string `toml:"keys"`
}

// Decode reads TOML from r and overlays it on the defaults.
func Decode(r io.Reader) (Config, error) {
	var f file
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg := Default()
	if f.GridSize != 0 {
		cfg.GridSize = f.GridSize
	}
	if f.MaxLayers != 0 {
		cfg.MaxLayers = f.MaxLayers
	}
	if f.HistoryLimit != 0 {
		cfg.HistoryLimit = f.HistoryLimit
	}
	if f.CellSize != 0 {
		cfg.CellSize = f.CellSize
	}
	if f.FrameDurationMS != 0 {
		cfg.FrameDurationMS = f.FrameDurationMS
	}
	for action, key := range f.Keys {
		cfg.Keys[action] = key
	}
	return cfg, cfg.Validate()
}

// Load reads the TOML file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	fh, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer fh.Close()
	cfg, err := Decode(fh)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks ranges and key bindings.
func (c Config) Validate() error {
	if !pixel.ValidSize(c.GridSize) {
		return fmt.Errorf("%w: grid_size %d not in %v", ErrInvalid, c.GridSize, pixel.Sizes)
	}
	if c.MaxLayers < 1 {
		return fmt.Errorf("%w: max_layers %d", ErrInvalid, c.MaxLayers)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history_limit %d", ErrInvalid, c.HistoryLimit)
	}
	if c.CellSize < 1 {
		return fmt.Errorf("%w: cell_size %d", ErrInvalid, c.CellSize)
	}
	if c.FrameDurationMS < 1 {
		return fmt.Errorf("%w: frame_duration_ms %d", ErrInvalid, c.FrameDurationMS)
	}
	_, err := c.Bindings()
	return err
}

// Binding is a parsed key chord such as "Ctrl+Shift+D".
type Binding struct {
	Ctrl  bool
	Shift bool
	Key   string // upper case key name: "A", "UP", "LEFT", "F1"…
}

func (b Binding) String() string {
	var parts []string
	if b.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if b.Shift {
		parts = append(parts, "Shift")
	}
	return strings.Join(append(parts, b.Key), "+")
}

// ParseBinding parses "Ctrl+Shift+Z", "T", "Left" and similar chords.
func ParseBinding(s string) (Binding, error) {
	var b Binding
	parts := strings.Split(s, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == len(parts)-1 {
			if p == "" {
				return Binding{}, fmt.Errorf("%w: binding %q has no key", ErrInvalid, s)
			}
			b.Key = strings.ToUpper(p)
			break
		}
		switch strings.ToLower(p) {
		case "ctrl", "control":
			b.Ctrl = true
		case "shift":
			b.Shift = true
		default:
			return Binding{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalid, p, s)
		}
	}
	return b, nil
}

// Bindings parses every key binding, rejecting unknown actions and chords
// bound to more than one action.
func (c Config) Bindings() (map[string]Binding, error) {
	known := make(map[string]bool)
	for action := range Default().Keys {
		known[action] = true
	}

	actions := make([]string, 0, len(c.Keys))
	for action := range c.Keys {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	out := make(map[string]Binding, len(c.Keys))
	seen := make(map[Binding]string)
	for _, action := range actions {
		if !known[action] {
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalid, action)
		}
		b, err := ParseBinding(c.Keys[action])
		if err != nil {
			return nil, err
		}
		if other, dup := seen[b]; dup {
			return nil, fmt.Errorf("%w: %s bound to both %s and %s", ErrInvalid, b, other, action)
		}
		seen[b] = action
		out[action] = b
	}
	return out, nil
}
