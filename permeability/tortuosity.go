package permeability

import (
	"container/heap"
	"math"

	"github.com/notargets/gopnm/types"
)

// Tortuosity is clamped to the physically plausible range
const (
	tortuosityMin = 1.0
	tortuosityMax = 10.0
)

type pathEdge struct {
	to     int // index into pn.Pores
	weight float64
}

// pathItem entries form a min-heap keyed by tentative distance. Duplicates
// are pushed instead of decreasing keys; stale entries are skipped on pop.
type pathItem struct {
	node int
	dist float64
}

type pathQueue []pathItem

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() (x interface{}) {
	old := *q
	n := len(old)
	x = old[n-1]
	*q = old[:n-1]
	return
}

// shortestPaths runs Dijkstra from src over the weighted adjacency list,
// returning the distance to every reachable node and +Inf elsewhere.
func shortestPaths(adj [][]pathEdge, src int) (dist []float64) {
	var (
		visited = make([]bool, len(adj))
		pq      = make(pathQueue, 0, len(adj))
	)
	dist = make([]float64, len(adj))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0
	heap.Init(&pq)
	heap.Push(&pq, pathItem{node: src, dist: 0})
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(pathItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true
		for _, e := range adj[item.node] {
			if d := item.dist + e.weight; d < dist[e.to] {
				dist[e.to] = d
				heap.Push(&pq, pathItem{node: e.to, dist: d})
			}
		}
	}
	return
}

// Tortuosity estimates the geometric tortuosity along the flow axis: the
// mean shortest-path length between inlet and outlet pores divided by the
// straight-line domain length. Unreachable pairs are skipped; a network
// with no connected pair gets the neutral value 1.
func Tortuosity(pn *types.PoreNetwork, axis types.Axis) (tau float64) {
	var (
		bd     = ClassifyBoundary(pn, axis)
		scale  = pn.MetersPerVoxel()
		index  = make(map[int]int, len(pn.Pores)) // pore ID -> adjacency index
		adj    = make([][]pathEdge, len(pn.Pores))
		sum    float64
		nPairs int
	)
	tau = tortuosityMin
	if bd.Length <= 0 || len(bd.Inlet) == 0 || len(bd.Outlet) == 0 {
		return
	}
	for i, p := range pn.Pores {
		index[p.ID] = i
	}
	for _, th := range pn.Throats {
		var (
			p1, _ = pn.Pore(th.Pore1)
			p2, _ = pn.Pore(th.Pore2)
			w     = types.Distance(p1, p2) * scale
			i, j  = index[th.Pore1], index[th.Pore2]
		)
		adj[i] = append(adj[i], pathEdge{to: j, weight: w})
		adj[j] = append(adj[j], pathEdge{to: i, weight: w})
	}
	for inletID := range bd.Inlet {
		dist := shortestPaths(adj, index[inletID])
		for outletID := range bd.Outlet {
			if outletID == inletID {
				continue
			}
			if d := dist[index[outletID]]; !math.IsInf(d, 1) {
				sum += d
				nPairs++
			}
		}
	}
	if nPairs == 0 {
		return
	}
	tau = sum / float64(nPairs) / bd.Length
	if tau < tortuosityMin {
		tau = tortuosityMin
	}
	if tau > tortuosityMax {
		tau = tortuosityMax
	}
	return
}
