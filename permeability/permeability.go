package permeability

import (
	"fmt"
	"time"

	"github.com/notargets/gopnm/types"
	"github.com/notargets/gopnm/utils"
)

const (
	centipoiseToPaS = 1.0e-3
	// 1 Darcy = 9.869e-13 m^2, so m^2 -> mD multiplies by 1.01325e15
	m2ToMillidarcy = 1.01325e15
	pressureDrop   = 1.0 // Pa, fixed by the Dirichlet rows
)

// Options selects what to solve. A value type: the solver never mutates the
// network and never caches results anywhere but the returned value.
type Options struct {
	Axis            types.Axis
	Viscosity       float64  // centipoise; nonpositive means water (1.0)
	Engines         []Engine // empty means all three
	UseGPU          bool
	CorrectTortuous bool // divide reported permeability by tortuosity squared
}

// Results holds permeability in millidarcy, uncorrected and
// tortuosity-corrected per engine, plus the tortuosity used.
type Results struct {
	Tortuosity                float32
	Darcy, DarcyCorrected     float32
	NavierStokes              float32
	NavierStokesCorrected     float32
	LatticeBoltzmann          float32
	LatticeBoltzmannCorrected float32
}

// Engine returns the (uncorrected, corrected) pair for one engine.
func (r Results) Engine(e Engine) (raw, corrected float32) {
	switch e {
	case Darcy:
		return r.Darcy, r.DarcyCorrected
	case NavierStokes:
		return r.NavierStokes, r.NavierStokesCorrected
	case LatticeBoltzmann:
		return r.LatticeBoltzmann, r.LatticeBoltzmannCorrected
	}
	return
}

func (r *Results) setEngine(e Engine, raw, corrected float32) {
	switch e {
	case Darcy:
		r.Darcy, r.DarcyCorrected = raw, corrected
	case NavierStokes:
		r.NavierStokes, r.NavierStokesCorrected = raw, corrected
	case LatticeBoltzmann:
		r.LatticeBoltzmann, r.LatticeBoltzmannCorrected = raw, corrected
	}
}

func (r Results) Print() {
	fmt.Printf("Tortuosity = %.4f\n", r.Tortuosity)
	for _, e := range AllEngines {
		raw, corrected := r.Engine(e)
		fmt.Printf("%-16s K = %10.4f mD, corrected = %10.4f mD\n", e, raw, corrected)
	}
}

// Solve computes absolute permeability along the requested axis for each
// selected engine. It is a pure function of the network and options:
// degenerate inputs produce zero-valued results and a warning trail, never
// an error or a panic.
func Solve(pn *types.PoreNetwork, opts Options) (res Results) {
	res.Tortuosity = 1
	if pn == nil || len(pn.Pores) == 0 || len(pn.Throats) == 0 {
		fmt.Printf("Warning: empty pore network, skipping permeability solve\n")
		return
	}
	var (
		mu  = opts.Viscosity
		tau float64
		bd  Boundary
	)
	if mu <= 0 {
		mu = 1.0
	}
	mu *= centipoiseToPaS
	tau = Tortuosity(pn, opts.Axis)
	res.Tortuosity = float32(tau)
	fmt.Printf("Tortuosity along %s = %.4f\n", opts.Axis, tau)
	bd = ClassifyBoundary(pn, opts.Axis)
	if len(bd.Inlet) == 0 || len(bd.Outlet) == 0 {
		fmt.Printf("Warning: no inlet or outlet pores along %s, permeability is zero\n", opts.Axis)
		return
	}
	if bd.Length <= 0 || bd.Area <= 0 {
		fmt.Printf("Warning: degenerate domain along %s (L = %g m, A = %g m^2), permeability is zero\n",
			opts.Axis, bd.Length, bd.Area)
		return
	}
	engines := opts.Engines
	if len(engines) == 0 {
		engines = AllEngines
	}
	for _, eng := range engines {
		var (
			start = time.Now()
			A, b  = AssembleSystem(pn, eng, bd, mu)
			p     = solvePressure(A.ToCSR(), b, opts.UseGPU)
			Q     = inletFlow(pn, eng, bd, mu, p)
			K     = Q * mu * bd.Length / (bd.Area * pressureDrop)
			mD    = K * m2ToMillidarcy
		)
		corrected := mD
		if opts.CorrectTortuous {
			corrected = correctedPermeability(mD, tau)
		}
		res.setEngine(eng, float32(mD), float32(corrected))
		fmt.Printf("%s: %d inlet / %d outlet pores, L = %.4g m, A = %.4g m^2\n",
			eng, len(bd.Inlet), len(bd.Outlet), bd.Length, bd.Area)
		fmt.Printf("%s: Q = %.4g m^3/s, K = %.4f mD, corrected = %.4f mD, elapsed %v\n",
			eng, Q, mD, corrected, time.Since(start))
	}
	return
}

// correctedPermeability applies the tortuosity-squared correction.
func correctedPermeability(raw, tau float64) float64 {
	return raw / (tau * tau)
}

// solvePressure picks the backend; any device failure falls back to the
// CPU solver after a logged warning.
func solvePressure(A utils.CSR, b []float64, useGPU bool) (x []float64) {
	if useGPU {
		xd, _, _, err := solvePressureDevice(A, b)
		if err == nil {
			return xd
		}
		fmt.Printf("Warning: device solver failed (%v), falling back to CPU\n", err)
	}
	x, _, _ = newCGSolver(A).Solve(b)
	return
}

// inletFlow sums the conductance-weighted pressure drop over every throat
// with exactly one endpoint in the inlet set, which counts each inlet
// crossing once and skips inlet-to-inlet and interior throats.
func inletFlow(pn *types.PoreNetwork, eng Engine, bd Boundary, mu float64, p []float64) (Q float64) {
	var (
		scale = pn.MetersPerVoxel()
	)
	for _, th := range pn.Throats {
		in1, in2 := bd.Inlet[th.Pore1], bd.Inlet[th.Pore2]
		if in1 == in2 {
			continue
		}
		var (
			p1, _ = pn.Pore(th.Pore1)
			p2, _ = pn.Pore(th.Pore2)
			g     = eng.Conductance(p1, p2, th, scale, mu)
		)
		if in1 {
			Q += g * (p[th.Pore1] - p[th.Pore2])
		} else {
			Q += g * (p[th.Pore2] - p[th.Pore1])
		}
	}
	return
}
