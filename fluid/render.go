package fluid

import "fmt"

// RenderToPixels writes one RGBA8 pixel per cell into buf, row-major: opaque
// blue where density exceeds OccupancyThreshold, opaque black elsewhere.
// buf must hold exactly Width()*Height()*4 bytes; the layout matches
// image.RGBA.Pix for an image of the grid's size.
func (s *Simulation) RenderToPixels(buf []byte) error {
	want := s.width * s.height * 4
	if len(buf) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(buf), want)
	}

	for i, d := range s.density.Front().values {
		p := buf[i*4 : i*4+4 : i*4+4]
		p[0] = 0
		p[1] = 0
		if d > OccupancyThreshold {
			p[2] = 255
		} else {
			p[2] = 0
		}
		p[3] = 255
	}
	return nil
}
