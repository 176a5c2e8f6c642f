// Package project reads and writes editor projects as JSON.
//
// The current format carries a version and an explicit grid size:
//
//	{"version":1,"grid_size":16,
//	 "layers":[{"id":"…","name":"Layer 1","data":[["#ff0000",null,…],…],
//	            "visible":true,"opacity":1}],
//	 "last_colors":["#ff0000"]}
//
// Files without a version are read as the older unversioned format, which
// has the same layers/last_colors shape but no grid size, names or ids.
// Both are validated before anything is returned.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ha1tch/pixelforge/internal/layer"
	"github.com/ha1tch/pixelforge/internal/pixel"
)

// Version is the format version Encode writes.
const Version = 1

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid project")
	// ErrVersion is returned for files newer than this program understands.
	ErrVersion = errors.New("unsupported project version")
)

// Project is the persisted editor state.
type Project struct {
	GridSize     int
	Layers       []*layer.Layer // bottom first
	RecentColors []pixel.Color
}

type fileLayer struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Data    [][]pixel.Color `json:"data"`
	Visible *bool           `json:"visible,omitempty"`
	Opacity *float64        `json:"opacity,omitempty"`
}

type fileProject struct {
	Version    int           `json:"version,omitempty"`
	GridSize   int           `json:"grid_size,omitempty"`
	Layers     []fileLayer   `json:"layers"`
	LastColors []pixel.Color `json:"last_colors"`
}

// Encode writes p in the current format.
func Encode(w io.Writer, p *Project) error {
	if err := p.validate(); err != nil {
		return err
	}
	f := fileProject{
		Version:    Version,
		GridSize:   p.GridSize,
		Layers:     make([]fileLayer, len(p.Layers)),
		LastColors: p.RecentColors,
	}
	if f.LastColors == nil {
		f.LastColors = []pixel.Color{}
	}
	for i, l := range p.Layers {
		visible, opacity := l.Visible, l.Opacity
		f.Layers[i] = fileLayer{
			ID:      l.ID.String(),
			Name:    l.Name,
			Data:    l.Buffer.Rows(),
			Visible: &visible,
			Opacity: &opacity,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Decode reads and validates a project in either format, allowing at most
// layer.DefaultMaxLayers layers.
func Decode(r io.Reader) (*Project, error) {
	return DecodeLimit(r, layer.DefaultMaxLayers)
}

// DecodeLimit is Decode with a caller supplied layer cap. A maxLayers below
// 1 selects layer.DefaultMaxLayers.
func DecodeLimit(r io.Reader, maxLayers int) (*Project, error) {
	if maxLayers < 1 {
		maxLayers = layer.DefaultMaxLayers
	}
	var f fileProject
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if f.Version > Version || f.Version < 0 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	if len(f.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalid)
	}
	if len(f.Layers) > maxLayers {
		return nil, fmt.Errorf("%w: %d layers, max %d", ErrInvalid, len(f.Layers), maxLayers)
	}

	size := f.GridSize
	if f.Version == 0 {
		// Unversioned files only imply their size through the first grid.
		size = len(f.Layers[0].Data)
	}
	if !pixel.ValidSize(size) {
		return nil, fmt.Errorf("%w: grid size %d not in %v", ErrInvalid, size, pixel.Sizes)
	}

	p := &Project{GridSize: size, Layers: make([]*layer.Layer, len(f.Layers))}
	for i, fl := range f.Layers {
		l, err := fl.layer(i, size)
		if err != nil {
			return nil, err
		}
		p.Layers[i] = l
	}
	for _, c := range f.LastColors {
		if c.IsSet() {
			p.RecentColors = append(p.RecentColors, c)
		}
	}
	return p, nil
}

func (fl fileLayer) layer(i, size int) (*layer.Layer, error) {
	if len(fl.Data) != size {
		return nil, fmt.Errorf("%w: layer %d has %d rows, want %d", ErrInvalid, i, len(fl.Data), size)
	}
	buf, err := pixel.FromRows(fl.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: layer %d: %v", ErrInvalid, i, err)
	}

	l := &layer.Layer{
		ID:      uuid.New(),
		Name:    fl.Name,
		Buffer:  buf,
		Visible: true,
		Opacity: 1.0,
	}
	if fl.ID != "" {
		id, err := uuid.Parse(fl.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d id: %v", ErrInvalid, i, err)
		}
		l.ID = id
	}
	if l.Name == "" {
		l.Name = fmt.Sprintf("Layer %d", i+1)
	}
	if fl.Visible != nil {
		l.Visible = *fl.Visible
	}
	if fl.Opacity != nil {
		if *fl.Opacity < 0 || *fl.Opacity > 1 {
			return nil, fmt.Errorf("%w: layer %d opacity %v", ErrInvalid, i, *fl.Opacity)
		}
		l.Opacity = *fl.Opacity
	}
	return l, nil
}

func (p *Project) validate() error {
	if !pixel.ValidSize(p.GridSize) {
		return fmt.Errorf("%w: grid size %d", ErrInvalid, p.GridSize)
	}
	if len(p.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalid)
	}
	for i, l := range p.Layers {
		if l.Buffer == nil || l.Buffer.Size() != p.GridSize {
			return fmt.Errorf("%w: layer %d is not %dx%d", ErrInvalid, i, p.GridSize, p.GridSize)
		}
	}
	return nil
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	return LoadLimit(path, layer.DefaultMaxLayers)
}

// LoadLimit reads the project file at path, allowing at most maxLayers
// layers.
func LoadLimit(path string, maxLayers int) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := DecodeLimit(f, maxLayers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path through a temporary file in the same directory,
// so a failed save leaves any existing file intact. The file is written
// with mode 0644.
func Save(path string, p *Project) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pixelforge-*.json")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, p); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
