package fluid

// updateOccupancy rebuilds the mask from density.
func (s *Simulation) updateOccupancy() {
	occ := s.occupancy.values
	for i, d := range s.density.Front().values {
		if d > OccupancyThreshold {
			occ[i] = 1
		} else {
			occ[i] = 0
		}
	}
}
