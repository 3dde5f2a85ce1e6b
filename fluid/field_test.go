package fluid

import "testing"

func TestFieldRowMajorLayout(t *testing.T) {
	f := NewField(4, 3)

	f.Set(2, 1, 7)
	if got := f.Data()[2*4+1]; got != 7 {
		t.Errorf("expected Set(2,1) at flat index 9, got %v there", got)
	}

	f.Add(2, 1, 1.5)
	if got := f.At(2, 1); got != 8.5 {
		t.Errorf("expected 8.5 after Add, got %v", got)
	}

	if f.Width() != 4 || f.Height() != 3 || len(f.Data()) != 12 {
		t.Errorf("unexpected shape %dx%d len %d", f.Width(), f.Height(), len(f.Data()))
	}
}

func TestFieldOutOfRangePanics(t *testing.T) {
	f := NewField(4, 3)

	cases := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"row past end", 3, 0},
		{"negative col", 0, -1},
		{"col past end", 0, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for (%d,%d)", tc.row, tc.col)
				}
			}()
			f.At(tc.row, tc.col)
		})
	}
}

func TestMaskSetAndCount(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(1, 1, true)
	m.Set(4, 0, true)
	m.Set(4, 0, false)
	m.Set(3, 2, true)

	if m.Count() != 2 {
		t.Errorf("expected 2 set cells, got %d", m.Count())
	}
	if m.At(1, 1) != 1 || m.At(4, 0) != 0 {
		t.Error("mask values do not match writes")
	}

	m.Clear()
	if m.Count() != 0 {
		t.Errorf("expected empty mask after Clear, got %d", m.Count())
	}
}

func TestBufferedSwapExchangesHandles(t *testing.T) {
	b := NewBuffered(8, 8)
	front := b.Front()
	back := b.Back()

	back.Set(3, 3, 42)
	b.Swap()

	// Swap must not copy: the same *Field values simply trade places.
	if b.Front() != back || b.Back() != front {
		t.Fatal("swap did not exchange buffer handles")
	}
	if b.Front().At(3, 3) != 42 {
		t.Errorf("expected promoted buffer to carry its data, got %v", b.Front().At(3, 3))
	}

	b.Swap()
	if b.Front() != front {
		t.Error("double swap should restore the original front buffer")
	}
}
