package pixel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a cell colour. The zero value is transparent; painted cells
// carry an RGB triple. There is no per-cell alpha: opacity comes from the
// layer at composite time.
type Color struct {
	R, G, B uint8
	set     bool
}

// Transparent is the unset colour.
var Transparent = Color{}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, set: true}
}

// IsSet reports whether the colour is painted (not transparent).
func (c Color) IsSet() bool { return c.set }

// String returns "#rrggbb", or "" for a transparent colour.
func (c Color) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses "#rgb", "#rrggbb" or an SVG colour name such as
// "red" or "cornflowerblue". The empty string parses as Transparent.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Transparent, nil
	}
	if s[0] == '#' {
		return parseHex(s[1:])
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB(c.R, c.G, c.B), nil
	}
	return Transparent, fmt.Errorf("unknown colour %q", s)
}

func parseHex(h string) (Color, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return Transparent, fmt.Errorf("bad hex colour %q", "#"+h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Transparent, fmt.Errorf("bad hex colour %q", "#"+h)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MarshalJSON encodes a painted colour as "#rrggbb" and a transparent one
// as null.
func (c Color) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts null or any string ParseColor understands.
func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Transparent
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
