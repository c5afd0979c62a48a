package types

import (
	"fmt"
	"math"
)

// Axis selects the macroscopic flow direction through the network.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Pore is a node of the network graph: a void region with an equivalent
// radius. Position and Radius are in voxel units.
type Pore struct {
	ID       int
	Position [3]float64
	Radius   float64
}

// Throat is an edge of the network graph: a constriction connecting two
// pores. Radius is in voxel units.
type Throat struct {
	ID           int
	Pore1, Pore2 int
	Radius       float64
}

// PoreNetwork owns the pores and throats of a segmented porous medium.
// VoxelSize is the physical length of one voxel in micrometers; every
// geometric quantity converts to meters through it. The network is
// immutable once constructed.
type PoreNetwork struct {
	Pores     []Pore
	Throats   []Throat
	VoxelSize float64

	poreIndex map[int]int // pore ID -> index into Pores
	maxPoreID int
}

// NewPoreNetwork validates the graph and builds the ID index. A throat
// referencing a nonexistent pore is a contract violation and fails here,
// never inside the solver.
func NewPoreNetwork(pores []Pore, throats []Throat, voxelSize float64) (pn *PoreNetwork, err error) {
	if voxelSize <= 0 {
		return nil, fmt.Errorf("voxel size must be positive, got %v", voxelSize)
	}
	pn = &PoreNetwork{
		Pores:     pores,
		Throats:   throats,
		VoxelSize: voxelSize,
		poreIndex: make(map[int]int, len(pores)),
		maxPoreID: -1,
	}
	for i, p := range pores {
		if p.ID < 0 {
			return nil, fmt.Errorf("pore %d has negative ID %d", i, p.ID)
		}
		if _, exists := pn.poreIndex[p.ID]; exists {
			return nil, fmt.Errorf("duplicate pore ID %d", p.ID)
		}
		pn.poreIndex[p.ID] = i
		if p.ID > pn.maxPoreID {
			pn.maxPoreID = p.ID
		}
	}
	for _, th := range throats {
		if _, ok := pn.poreIndex[th.Pore1]; !ok {
			return nil, fmt.Errorf("throat %d references nonexistent pore %d", th.ID, th.Pore1)
		}
		if _, ok := pn.poreIndex[th.Pore2]; !ok {
			return nil, fmt.Errorf("throat %d references nonexistent pore %d", th.ID, th.Pore2)
		}
	}
	return
}

// Pore looks up a pore by ID.
func (pn *PoreNetwork) Pore(id int) (p Pore, ok bool) {
	var i int
	if i, ok = pn.poreIndex[id]; ok {
		p = pn.Pores[i]
	}
	return
}

// MaxPoreID is the largest pore ID present; the linear system is sized
// MaxPoreID+1 so pore IDs index the pressure vector directly.
func (pn *PoreNetwork) MaxPoreID() int {
	return pn.maxPoreID
}

// MetersPerVoxel converts voxel units to meters.
func (pn *PoreNetwork) MetersPerVoxel() float64 {
	return pn.VoxelSize * 1.0e-6
}

// Distance returns the Euclidean pore-center distance in voxel units.
func Distance(p1, p2 Pore) float64 {
	var (
		dx = p1.Position[0] - p2.Position[0]
		dy = p1.Position[1] - p2.Position[1]
		dz = p1.Position[2] - p2.Position[2]
	)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
