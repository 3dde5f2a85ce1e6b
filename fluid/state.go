package fluid

import "fmt"

// LoadState overwrites the authoritative velocity and density fields with
// row-major copies of u, v and density, rebuilds occupancy, and sets the tick
// counter. Temp buffers are left as they are; every pass overwrites them.
func (s *Simulation) LoadState(u, v, density []float32, tick int32) error {
	n := s.width * s.height
	if len(u) != n || len(v) != n || len(density) != n {
		return fmt.Errorf("%w: state sized %d/%d/%d, want %d", ErrBufferSize, len(u), len(v), len(density), n)
	}
	copy(s.u.Front().Data(), u)
	copy(s.v.Front().Data(), v)
	copy(s.density.Front().Data(), density)
	s.updateOccupancy()
	s.tick = tick
	return nil
}
