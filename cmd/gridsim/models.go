package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/utkarsh5026/gridpool/internal/grid"
	"github.com/utkarsh5026/gridpool/internal/physics"
	"github.com/utkarsh5026/gridpool/internal/sim"
)

// modelFactory builds a fresh model for every runner so each starts from the
// same initial state.
type modelFactory func() sim.Model

func newModelFactory(o *options, log zerolog.Logger) (modelFactory, error) {
	var initial *grid.Grid
	if o.input != "" {
		if o.model == "blast" {
			log.Warn().Str("input", o.input).Msg("blast starts from an empty map, ignoring input")
		} else {
			g, err := grid.LoadFile(o.input)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", o.input, err)
			}
			log.Info().Str("input", o.input).Int("rows", g.Rows()).Int("cols", g.Cols()).Msg("loaded initial map")
			initial = g
		}
	}

	switch o.model {
	case "blast":
		p := physics.DefaultBlastParams()
		return func() sim.Model { return physics.NewBlast(o.size, o.size, p) }, nil

	case "heat":
		if initial == nil {
			initial = physics.HeatSource(o.size)
		}
		return func() sim.Model { return physics.NewHeat(initial) }, nil

	case "contaminant":
		p := physics.DefaultContaminantParams()
		if dn := p.DiffusionNumber(); dn > 0.5 {
			log.Warn().Float64("diffusion_number", dn).Msg("explicit scheme is unstable for these parameters")
		}
		if initial == nil {
			return func() sim.Model { return physics.NewContaminant(o.size, o.size, p) }, nil
		}
		return func() sim.Model { return physics.NewContaminantFrom(initial, p) }, nil
	}
	return nil, fmt.Errorf("unknown model %q", o.model)
}
