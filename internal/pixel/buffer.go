// Package pixel holds the cell grid every layer paints into.
package pixel

import "fmt"

// Sizes a buffer may be created with.
var Sizes = []int{16, 32, 64}

// ValidSize reports whether n is one of Sizes.
func ValidSize(n int) bool {
	for _, s := range Sizes {
		if s == n {
			return true
		}
	}
	return false
}

// Buffer is a square grid of colours addressed by (x, y), x the column and
// y the row. Its size never changes after creation.
type Buffer struct {
	size  int
	cells []Color // row-major
}

// NewBuffer returns a fully transparent size×size buffer.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		panic(fmt.Sprintf("pixel: invalid buffer size %d", size))
	}
	return &Buffer{size: size, cells: make([]Color, size*size)}
}

// Size returns the grid edge length.
func (b *Buffer) Size() int { return b.size }

// InBounds reports whether (x, y) addresses a cell.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Buffer) index(x, y int) int {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("pixel: (%d,%d) outside %dx%d buffer", x, y, b.size, b.size))
	}
	return y*b.size + x
}

// Get returns the colour at (x, y). It panics when out of range.
func (b *Buffer) Get(x, y int) Color { return b.cells[b.index(x, y)] }

// Set stores c at (x, y). It panics when out of range.
func (b *Buffer) Set(x, y int, c Color) { b.cells[b.index(x, y)] = c }

// Clear makes every cell transparent.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Transparent
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{size: b.size, cells: make([]Color, len(b.cells))}
	copy(c.cells, b.cells)
	return c
}

// CopyFrom overwrites b with the contents of src, which must be the same size.
func (b *Buffer) CopyFrom(src *Buffer) {
	if src.size != b.size {
		panic(fmt.Sprintf("pixel: copy %dx%d into %dx%d", src.size, src.size, b.size, b.size))
	}
	copy(b.cells, src.cells)
}

// Equal reports whether both buffers have the same size and cells.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Painted returns the number of non-transparent cells.
func (b *Buffer) Painted() int {
	n := 0
	for _, c := range b.cells {
		if c.IsSet() {
			n++
		}
	}
	return n
}

// remap rebuilds the grid so that new(x, y) = old(src(x, y)).
func (b *Buffer) remap(src func(x, y int) (int, int)) {
	old := b.Clone()
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			sx, sy := src(x, y)
			b.cells[y*b.size+x] = old.cells[sy*b.size+sx]
		}
	}
}

// RotateClockwise turns the grid a quarter turn clockwise.
func (b *Buffer) RotateClockwise() {
	n := b.size - 1
	b.remap(func(x, y int) (int, int) { return y, n - x })
}

// RotateCounterClockwise turns the grid a quarter turn counter-clockwise.
func (b *Buffer) RotateCounterClockwise() {
	n := b.size - 1
	b.remap(func(x, y int) (int, int) { return n - y, x })
}

// FlipHorizontal mirrors every row.
func (b *Buffer) FlipHorizontal() {
	n := b.size - 1
	b.remap(func(x, y int) (int, int) { return n - x, y })
}

// FlipVertical reverses the row order.
func (b *Buffer) FlipVertical() {
	n := b.size - 1
	b.remap(func(x, y int) (int, int) { return x, n - y })
}

// Rows returns the grid as rows of colours, y-major.
func (b *Buffer) Rows() [][]Color {
	rows := make([][]Color, b.size)
	for y := range rows {
		rows[y] = make([]Color, b.size)
		copy(rows[y], b.cells[y*b.size:(y+1)*b.size])
	}
	return rows
}

// FromRows builds a buffer from square y-major rows.
func FromRows(rows [][]Color) (*Buffer, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("pixel: empty grid")
	}
	b := NewBuffer(n)
	for y, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("pixel: row %d has %d cells, want %d", y, len(row), n)
		}
		copy(b.cells[y*n:], row)
	}
	return b, nil
}
