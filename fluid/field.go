// Package fluid implements the grid physics kernel: field storage, ink injection,
// gravity, semi-Lagrangian advection and the occupancy/pixel readouts.
package fluid

import "fmt"

// Field is a fixed-size 2D float32 grid stored row-major in one flat slice.
// Grid cell (row, col) lives at index row*width + col.
type Field struct {
	width, height int
	values        []float32
}

// NewField allocates a zeroed width x height field.
func NewField(width, height int) *Field {
	return &Field{
		width:  width,
		height: height,
		values: make([]float32, width*height),
	}
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// Data exposes the row-major backing slice.
func (f *Field) Data() []float32 { return f.values }

func (f *Field) index(row, col int) int {
	if row < 0 || row >= f.height {
		panic(fmt.Sprintf("fluid: row %d out of range [0,%d)", row, f.height))
	}
	if col < 0 || col >= f.width {
		panic(fmt.Sprintf("fluid: col %d out of range [0,%d)", col, f.width))
	}
	return row*f.width + col
}

// At returns the value at (row, col). Panics when out of range.
func (f *Field) At(row, col int) float32 {
	return f.values[f.index(row, col)]
}

// Set writes the value at (row, col). Panics when out of range.
func (f *Field) Set(row, col int, v float32) {
	f.values[f.index(row, col)] = v
}

// Add increments the value at (row, col). Panics when out of range.
func (f *Field) Add(row, col int, dv float32) {
	f.values[f.index(row, col)] += dv
}

// Fill sets every cell to v.
func (f *Field) Fill(v float32) {
	for i := range f.values {
		f.values[i] = v
	}
}

// Mask is a 0/1 grid with the same layout as Field.
type Mask struct {
	width, height int
	values        []uint8
}

// NewMask allocates a cleared width x height mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		values: make([]uint8, width*height),
	}
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.width }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.height }

// Data exposes the row-major backing slice.
func (m *Mask) Data() []uint8 { return m.values }

// At returns 1 if (row, col) is set, otherwise 0.
func (m *Mask) At(row, col int) uint8 {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		panic(fmt.Sprintf("fluid: mask index (%d,%d) out of range %dx%d", row, col, m.height, m.width))
	}
	return m.values[row*m.width+col]
}

// Set marks (row, col) active or inactive.
func (m *Mask) Set(row, col int, on bool) {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		panic(fmt.Sprintf("fluid: mask index (%d,%d) out of range %dx%d", row, col, m.height, m.width))
	}
	var b uint8
	if on {
		b = 1
	}
	m.values[row*m.width+col] = b
}

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.values {
		n += int(b)
	}
	return n
}

// Clear unsets every cell.
func (m *Mask) Clear() {
	for i := range m.values {
		m.values[i] = 0
	}
}

// Buffered is a double-buffered field. Front is authoritative, Back is the
// write target of the pass in flight. Swap exchanges the two handles only.
type Buffered struct {
	bufs  [2]*Field
	front int
}

// NewBuffered allocates both buffers zeroed.
func NewBuffered(width, height int) *Buffered {
	return &Buffered{
		bufs: [2]*Field{NewField(width, height), NewField(width, height)},
	}
}

// Front returns the authoritative field.
func (b *Buffered) Front() *Field { return b.bufs[b.front] }

// Back returns the temporary field.
func (b *Buffered) Back() *Field { return b.bufs[1-b.front] }

// Swap promotes Back to Front in O(1).
func (b *Buffered) Swap() { b.front = 1 - b.front }

// Fill sets both buffers to v.
func (b *Buffered) Fill(v float32) {
	b.bufs[0].Fill(v)
	b.bufs[1].Fill(v)
}
