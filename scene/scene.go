// Package scene provides scripted ink input for runs without a pointer.
package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ojrac/opensimplex-go"
	"github.com/pthm-cable/inkflow/config"
)

// Point is a grid cell to inject at.
type Point struct {
	X, Y int
}

// Source produces the injections for a tick.
type Source interface {
	Name() string
	Next(tick int32) []Point
}

// New builds the named source for a width x height grid from cfg.
func New(name string, cfg config.SceneConfig, width, height int) (Source, error) {
	switch strings.ToLower(name) {
	case "drip":
		return NewDrip(cfg, width, height), nil
	case "rain":
		return NewRain(cfg, width, height), nil
	case "none", "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown scene %q (want drip, rain or none)", name)
	}
}

// None never injects.
type None struct{}

func (None) Name() string            { return "none" }
func (None) Next(tick int32) []Point { return nil }

// Drip injects at one fixed cell every Interval ticks, starting at tick 0.
type Drip struct {
	At       Point
	Interval int32
	buf      [1]Point
}

// NewDrip places the drip at (DripX, DripY); negative coordinates select the
// grid's center column and upper quarter row.
func NewDrip(cfg config.SceneConfig, width, height int) *Drip {
	x, y := cfg.DripX, cfg.DripY
	if x < 0 {
		x = width / 2
	}
	if y < 0 {
		y = height / 4
	}
	interval := int32(cfg.Interval)
	if interval < 1 {
		interval = 1
	}
	return &Drip{At: Point{X: x, Y: y}, Interval: interval}
}

func (d *Drip) Name() string { return "drip" }

func (d *Drip) Next(tick int32) []Point {
	if tick%d.Interval != 0 {
		return nil
	}
	d.buf[0] = d.At
	return d.buf[:]
}

// Rain drops ink along the top band of the grid wherever a drifting
// OpenSimplex field exceeds Threshold. The same seed replays the same drops.
type Rain struct {
	width, band int
	scale       float64
	speed       float64
	threshold   float64
	drops       int

	noise opensimplex.Noise
	rng   *rand.Rand
	seed  int64
	out   []Point
}

// NewRain creates a rain source. Drops land in the top eighth of the grid.
func NewRain(cfg config.SceneConfig, width, height int) *Rain {
	band := height / 8
	if band < 1 {
		band = 1
	}
	drops := cfg.RainDrops
	if drops < 1 {
		drops = 1
	}
	r := &Rain{
		width:     width,
		band:      band,
		scale:     cfg.RainScale,
		speed:     cfg.RainSpeed,
		threshold: cfg.RainThreshold,
		drops:     drops,
		seed:      cfg.Seed,
	}
	r.Reset()
	return r
}

// Reset rewinds the source to its seeded start.
func (r *Rain) Reset() {
	r.noise = opensimplex.NewNormalized(r.seed)
	r.rng = rand.New(rand.NewSource(r.seed))
	r.out = r.out[:0]
}

func (r *Rain) Name() string { return "rain" }

// Next samples Drops candidate columns and keeps those where the noise, drifting
// with tick, exceeds the threshold. Candidates are drawn every tick so the
// sequence depends only on the seed and the number of calls.
func (r *Rain) Next(tick int32) []Point {
	r.out = r.out[:0]
	t := float64(tick) * r.speed
	for i := 0; i < r.drops; i++ {
		x := r.rng.Intn(r.width)
		y := r.rng.Intn(r.band)
		if r.noise.Eval2(float64(x)*r.scale, t) > r.threshold {
			r.out = append(r.out, Point{X: x, Y: y})
		}
	}
	return r.out
}
