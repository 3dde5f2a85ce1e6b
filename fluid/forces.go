package fluid

// applyGravity adds gravity*dt to v in every cell holding ink. Empty cells
// never accelerate, even next to occupied ones.
func (s *Simulation) applyGravity() {
	kick := s.params.Gravity * s.dt
	v := s.v.Front().values
	for i, d := range s.density.Front().values {
		if d > 0 {
			v[i] += kick
		}
	}
}
