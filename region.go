package dcmesh

import "gonum.org/v1/gonum/spatial/r3"

// Axis is one of the three principal axes, encoded as the bit set in the
// canonical octant index that varies along that axis.
type Axis int

const (
	AxisX Axis = 1
	AxisY Axis = 2
	AxisZ Axis = 4
)

// axisCycle returns the next axis in the X->Y->Z->X cycle used throughout
// the dual-contouring traversal (ยง4.5's Q and R).
func (a Axis) Next() Axis {
	switch a {
	case AxisX:
		return AxisY
	case AxisY:
		return AxisZ
	default:
		return AxisX
	}
}

// Region is an axis-aligned box together with a remaining subdivision
// budget per axis. It is the sole input to octree construction.
type Region struct {
	Lo, Hi r3.Vec
	// Subdiv counts remaining splits on each axis before that axis stops
	// halving and is inherited unchanged by children (ยง4.2).
	Subdiv [3]int
}

// NewRegion builds a Region from bounds and a uniform subdivision count
// applied to all three axes.
func NewRegion(lo, hi r3.Vec, subdiv int) Region {
	return Region{Lo: lo, Hi: hi, Subdiv: [3]int{subdiv, subdiv, subdiv}}
}

// NewRegion3 builds a Region from bounds and a per-axis subdivision count.
func NewRegion3(lo, hi r3.Vec, subdiv [3]int) Region {
	return Region{Lo: lo, Hi: hi, Subdiv: subdiv}
}

// Box returns the region's bounding box in the form Evaluator.Interval expects.
func (r Region) Box() r3.Box {
	return r3.Box{Min: r.Lo, Max: r.Hi}
}

// Valid reports whether the region is non-degenerate: lo <= hi on every axis.
func (r Region) Valid() bool {
	return r.Lo.X <= r.Hi.X && r.Lo.Y <= r.Hi.Y && r.Lo.Z <= r.Hi.Z
}

// Corner returns the position of octant corner i, 0 <= i < 8, using the
// canonical bit ordering: bit 0 selects X, bit 1 selects Y, bit 2 selects Z;
// a set bit means the corner lies on the Hi side of that axis.
func (r Region) Corner(i int) r3.Vec {
	p := r.Lo
	if i&int(AxisX) != 0 {
		p.X = r.Hi.X
	}
	if i&int(AxisY) != 0 {
		p.Y = r.Hi.Y
	}
	if i&int(AxisZ) != 0 {
		p.Z = r.Hi.Z
	}
	return p
}

// IsTerminal reports whether every axis has exhausted its subdivision budget.
func (r Region) IsTerminal() bool {
	return r.Subdiv[0] <= 0 && r.Subdiv[1] <= 0 && r.Subdiv[2] <= 0
}

// Split partitions the region into eight sub-regions in canonical octant
// order. An axis whose subdiv has reached zero is inherited unsplit by both
// halves on that axis, which is the mechanism that lets degenerate (2D or
// 1D) recursion share this same code path.
func (r Region) Split() [8]Region {
	mid := r3.Scale(0.5, r3.Add(r.Lo, r.Hi))
	var lo, hi [3]float64
	var sub [3]int
	loArr := [3]float64{r.Lo.X, r.Lo.Y, r.Lo.Z}
	hiArr := [3]float64{r.Hi.X, r.Hi.Y, r.Hi.Z}
	midArr := [3]float64{mid.X, mid.Y, mid.Z}
	for axis := 0; axis < 3; axis++ {
		if r.Subdiv[axis] > 0 {
			lo[axis], hi[axis] = loArr[axis], hiArr[axis]
			sub[axis] = r.Subdiv[axis] - 1
		} else {
			lo[axis], hi[axis] = loArr[axis], hiArr[axis]
			sub[axis] = 0
		}
	}

	var children [8]Region
	for i := 0; i < 8; i++ {
		var clo, chi r3.Vec
		clo.X, chi.X = splitAxis(0, i, loArr, hiArr, midArr, r.Subdiv)
		clo.Y, chi.Y = splitAxis(1, i, loArr, hiArr, midArr, r.Subdiv)
		clo.Z, chi.Z = splitAxis(2, i, loArr, hiArr, midArr, r.Subdiv)
		children[i] = Region{Lo: clo, Hi: chi, Subdiv: sub}
	}
	return children
}

// splitAxis returns the [lo,hi) extent of octant i along one axis. If that
// axis still has subdivision budget, the extent is halved toward whichever
// side bit `axis` of i selects; otherwise the full parent extent is kept.
func splitAxis(axis, i int, lo, hi, mid [3]float64, subdiv [3]int) (float64, float64) {
	bit := 1 << uint(axis)
	if subdiv[axis] <= 0 {
		return lo[axis], hi[axis]
	}
	if i&bit != 0 {
		return mid[axis], hi[axis]
	}
	return lo[axis], mid[axis]
}
