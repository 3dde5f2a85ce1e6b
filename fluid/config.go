package fluid

import (
	"fmt"

	"github.com/pthm-cable/inkflow/config"
)

// ParamsFromConfig maps the physics section of cfg onto kernel parameters.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	mode, err := ParseStampMode(cfg.Physics.StampMode)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Gravity:     cfg.Derived.Gravity32,
		Impulse:     cfg.Derived.Impulse32,
		StampRadius: cfg.Physics.StampRadius,
		StampMode:   mode,
		Workers:     cfg.Physics.Workers,
	}, nil
}

// FromConfig builds a simulation sized by the grid section and tuned by the
// physics section of cfg.
func FromConfig(cfg *config.Config) (*Simulation, error) {
	p, err := ParamsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("physics config: %w", err)
	}
	return NewWithParams(cfg.Grid.Width, cfg.Grid.Height, cfg.Derived.DT32, p)
}
