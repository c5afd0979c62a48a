package permeability

import (
	"math"

	"github.com/notargets/gopnm/types"
)

// Pores within one voxel of the domain bounds along the flow axis are
// boundary pores
const boundaryTolerance = 1.0

// Boundary holds the inlet/outlet pore sets for a flow axis plus the
// macroscopic flow length and cross-sectional area, both in meters.
type Boundary struct {
	Inlet, Outlet map[int]bool // keyed by pore ID
	Length        float64      // domain extent along the flow axis [m]
	Area          float64      // product of the two cross extents [m^2]
}

// ClassifyBoundary computes the axis-aligned bounding box of the pore
// positions and classifies inlet/outlet pores against it. Empty sets are a
// legitimate outcome for degenerate geometries; the caller reports zero
// permeability for the axis.
func ClassifyBoundary(pn *types.PoreNetwork, axis types.Axis) (bd Boundary) {
	var (
		scale  = pn.MetersPerVoxel()
		lo, hi [3]float64
		a      = int(axis)
		crossA = (a + 1) % 3
		crossB = (a + 2) % 3
	)
	bd.Inlet = make(map[int]bool)
	bd.Outlet = make(map[int]bool)
	if len(pn.Pores) == 0 {
		return
	}
	for d := 0; d < 3; d++ {
		lo[d] = math.Inf(1)
		hi[d] = math.Inf(-1)
	}
	for _, p := range pn.Pores {
		for d := 0; d < 3; d++ {
			lo[d] = math.Min(lo[d], p.Position[d])
			hi[d] = math.Max(hi[d], p.Position[d])
		}
	}
	for _, p := range pn.Pores {
		if p.Position[a] <= lo[a]+boundaryTolerance {
			bd.Inlet[p.ID] = true
		}
		if p.Position[a] >= hi[a]-boundaryTolerance {
			bd.Outlet[p.ID] = true
		}
	}
	bd.Length = (hi[a] - lo[a]) * scale
	bd.Area = (hi[crossA] - lo[crossA]) * scale * (hi[crossB] - lo[crossB]) * scale
	return
}
