// Package export writes flattened sprites as PNG and ICO files.
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/ha1tch/pixelforge/internal/composite"
)

// IconSizes are the renditions SaveICO embeds.
var IconSizes = []int{16, 32, 64}

// WritePNG encodes img, resampled to size×size, as PNG.
func WritePNG(w io.Writer, img *image.RGBA, size int) error {
	if size < 1 {
		return fmt.Errorf("export: invalid size %d", size)
	}
	return png.Encode(w, composite.Scale(img, size))
}

// SavePNG writes img at size×size to path.
func SavePNG(path string, img *image.RGBA, size int) error {
	return save(path, func(w io.Writer) error { return WritePNG(w, img, size) })
}

// WriteICO encodes img as an ICO holding one PNG-compressed rendition per
// size. Sizes must be between 1 and 256.
func WriteICO(w io.Writer, img *image.RGBA, sizes ...int) error {
	if len(sizes) == 0 {
		sizes = IconSizes
	}

	images := make([][]byte, len(sizes))
	for i, size := range sizes {
		if size < 1 || size > 256 {
			return fmt.Errorf("export: icon size %d out of range", size)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, composite.Scale(img, size)); err != nil {
			return err
		}
		images[i] = buf.Bytes()
	}

	const (
		headerLen = 6
		entryLen  = 16
	)
	var out bytes.Buffer
	header := [3]uint16{0, 1, uint16(len(sizes))} // reserved, type icon, count
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		return err
	}
	offset := headerLen + entryLen*len(sizes)
	for i, size := range sizes {
		dim := uint8(size)
		if size == 256 {
			dim = 0
		}
		entry := struct {
			Width, Height, Colors, Reserved uint8
			Planes, BitCount                uint16
			Size, Offset                    uint32
		}{dim, dim, 0, 0, 1, 32, uint32(len(images[i])), uint32(offset)}
		if err := binary.Write(&out, binary.LittleEndian, entry); err != nil {
			return err
		}
		offset += len(images[i])
	}
	for _, data := range images {
		out.Write(data)
	}
	_, err := out.WriteTo(w)
	return err
}

// SaveICO writes a multi-resolution icon to path.
func SaveICO(path string, img *image.RGBA, sizes ...int) error {
	return save(path, func(w io.Writer) error { return WriteICO(w, img, sizes...) })
}

// save writes through a temporary file in the same directory and renames it
// over path, so a failed export leaves any existing file intact.
func save(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
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
