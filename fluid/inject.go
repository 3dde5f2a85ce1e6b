package fluid

import (
	"fmt"
	"strings"
)

// StampMode selects the injection footprint.
type StampMode uint8

const (
	// StampClamped stamps offsets [-r, r) on both axes, clipped to the grid.
	StampClamped StampMode = iota
	// StampLegacy keeps the reference extents [-r, x+r) and [-r, y+r), so the
	// far edge grows with the click coordinate. Cells that land off the grid
	// are dropped.
	StampLegacy
)

// String returns the config spelling of the mode.
func (m StampMode) String() string {
	switch m {
	case StampClamped:
		return "clamped"
	case StampLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("StampMode(%d)", uint8(m))
	}
}

// ParseStampMode maps "clamped" or "legacy" (case-insensitive) to a StampMode.
// The empty string selects StampClamped.
func ParseStampMode(s string) (StampMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamped":
		return StampClamped, nil
	case "legacy":
		return StampLegacy, nil
	default:
		return 0, fmt.Errorf("%w: unknown stamp mode %q", ErrInvalidConfig, s)
	}
}

// Inject drops ink around grid cell (x, y): density 1 and occupancy set over
// the stamp, plus a vertical velocity impulse at (x, y) only. Coordinates
// outside the grid are ignored. Returns the number of cells stamped.
func (s *Simulation) Inject(x, y int) int {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0
	}

	r := s.params.StampRadius
	zEnd, cEnd := r, r
	if s.params.StampMode == StampLegacy {
		zEnd, cEnd = x+r, y+r
	}

	density := s.density.Front()
	stamped := 0
	for z := -r; z < zEnd; z++ {
		tx := x + z
		if tx < 0 || tx >= s.width {
			continue
		}
		for c := -r; c < cEnd; c++ {
			ty := y + c
			if ty < 0 || ty >= s.height {
				continue
			}
			density.Set(ty, tx, 1.0)
			s.occupancy.Set(ty, tx, true)
			stamped++
		}
	}

	s.v.Front().Add(y, x, s.params.Impulse)
	return stamped
}
