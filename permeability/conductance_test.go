package permeability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gopnm/types"
)

func TestConductance(t *testing.T) {
	var (
		mu = 1.0e-3 // water, Pa s
		p1 = types.Pore{ID: 0, Position: [3]float64{0, 0, 0}, Radius: 0.7}
		p2 = types.Pore{ID: 1, Position: [3]float64{1, 0, 0}, Radius: 0.7}
		th = types.Throat{ID: 0, Pore1: 0, Pore2: 1, Radius: 0.5}
	)
	// Darcy matches Hagen-Poiseuille directly: g = pi r^4 / (8 mu L)
	{
		g := Darcy.Conductance(p1, p2, th, 1.0e-6, mu)
		want := math.Pi * math.Pow(0.5e-6, 4) / (8 * mu * 1.0e-6)
		assert.InDelta(t, want, g, 1.e-6*want)
	}
	// Entrance correction lengthens the path, three resistors add the pore
	// bodies: strictly decreasing conductance
	{
		gD := Darcy.Conductance(p1, p2, th, 1.0e-6, mu)
		gNS := NavierStokes.Conductance(p1, p2, th, 1.0e-6, mu)
		gLB := LatticeBoltzmann.Conductance(p1, p2, th, 1.0e-6, mu)
		assert.True(t, gD > gNS, "Darcy %g should exceed entrance-corrected %g", gD, gNS)
		assert.True(t, gNS > gLB, "entrance-corrected %g should exceed three-resistor %g", gNS, gLB)
		assert.True(t, gLB > 0)
	}
	// Monotone in throat radius
	{
		wide := th
		wide.Radius = 0.6
		for _, e := range AllEngines {
			assert.True(t, e.Conductance(p1, p2, wide, 1.0e-6, mu) >
				e.Conductance(p1, p2, th, 1.0e-6, mu))
		}
	}
	// Coincident pore centers disconnect the throat
	{
		for _, e := range AllEngines {
			assert.Equal(t, 0.0, e.Conductance(p1, p1, th, 1.0e-6, mu))
		}
	}
	// Zero pore-body radius disconnects the three-resistor path only
	{
		flat := p2
		flat.Radius = 0
		assert.Equal(t, 0.0, LatticeBoltzmann.Conductance(p1, flat, th, 1.0e-6, mu))
		assert.True(t, Darcy.Conductance(p1, flat, th, 1.0e-6, mu) > 0)
	}
}

func TestEngineLabels(t *testing.T) {
	assert.Equal(t, "Darcy", Darcy.String())
	assert.Equal(t, "NavierStokes", NavierStokes.String())
	assert.Equal(t, "LatticeBoltzmann", LatticeBoltzmann.String())
}
