// Package octree builds the adaptive octree dual contouring meshes over,
// and runs the mutually recursive cell/face/edge traversal that turns a
// built tree into an indexed triangle mesh.
//
// Build is grounded on the teacher's render/octree_renderer.go top-down
// cube recursion (interval pruning, terminal-leaf construction); the
// traversal in traversal.go is a direct translation of
// original_source/kernel/src/render/dc.cpp's DC::Worker, which is the
// historical C++ implementation this whole package's algorithm descends
// from.
package octree

import (
	"log"
	"math"
	"sync"

	"github.com/soypat/dcmesh"
	"github.com/soypat/dcmesh/qef"
	"gonum.org/v1/gonum/spatial/r3"
)

// Node is the octree's tagged variant: a Branch with eight children, or a
// Leaf with its corner signs, solved vertex and QEF rank.
type Node struct {
	branch   bool
	children [8]*Node
	corners  [8]bool
	vertex   r3.Vec
	rank     int
	crossing bool
}

// Leaf reports whether n is a terminal (non-branch) node.
func (n *Node) Leaf() bool { return !n.branch }

// Vertex returns the leaf's solved representative vertex. Only meaningful
// when n.Crossing() is true.
func (n *Node) Vertex() r3.Vec { return n.vertex }

// Rank returns the leaf's QEF rank (0 = flat, 3 = corner).
func (n *Node) Rank() int { return n.rank }

// Crossing reports whether the leaf's corner signs are not all equal.
func (n *Node) Crossing() bool { return n.crossing }

// child returns n's child at the canonical index idx if n is a branch, or n
// itself if n is a leaf — a leaf stands in for all of its (non-existent)
// children, which is how face/edge recursion resolves T-junctions by always
// descending into whichever side is deeper.
func child(n *Node, idx int) *Node {
	if n.branch {
		return n.children[idx]
	}
	return n
}

var warnEvaluatorFault sync.Once

// cubeEdges lists the 12 edges of a cube in canonical corner order, as
// pairs of corner indices differing in exactly one bit.
var cubeEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Build constructs the octree for region under eval, per spec.md ยง4.3.
func Build(region dcmesh.Region, eval dcmesh.Evaluator) *Node {
	switch eval.Interval(region.Box()) {
	case dcmesh.POSITIVE:
		return &Node{}
	case dcmesh.NEGATIVE:
		return &Node{corners: [8]bool{true, true, true, true, true, true, true, true}}
	}
	if region.IsTerminal() {
		return buildSurfaceLeaf(region, eval)
	}
	children := region.Split()
	n := &Node{branch: true}
	for i := range children {
		n.children[i] = Build(children[i], eval)
	}
	return n
}

// BuildParallel behaves like Build but evaluates the root's immediate
// children concurrently, bounded by maxWorkers in flight at once (a
// semaphore channel plus sync.WaitGroup, the same plain-sync idiom the
// teacher's render/octree_renderer.go uses for its cube cache mutex rather
// than a higher-level concurrency library). maxWorkers <= 0 means
// runtime.GOMAXPROCS(0).
func BuildParallel(region dcmesh.Region, eval dcmesh.Evaluator, maxWorkers int) *Node {
	switch eval.Interval(region.Box()) {
	case dcmesh.POSITIVE:
		return &Node{}
	case dcmesh.NEGATIVE:
		return &Node{corners: [8]bool{true, true, true, true, true, true, true, true}}
	}
	if region.IsTerminal() {
		return buildSurfaceLeaf(region, eval)
	}
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	children := region.Split()
	n := &Node{branch: true}
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for i := range children {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			n.children[i] = Build(children[i], eval)
		}(i)
	}
	wg.Wait()
	return n
}

func buildSurfaceLeaf(region dcmesh.Region, eval dcmesh.Evaluator) *Node {
	var cornerVals [8]float64
	var corners [8]bool
	for i := 0; i < 8; i++ {
		v := eval.Value(region.Corner(i))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			warnEvaluatorFault.Do(func() {
				log.Println("dcmesh/octree: evaluator returned NaN/Inf; treating affected corners as outside")
			})
			v = math.Abs(v)
			if math.IsNaN(v) {
				v = 1
			}
		}
		cornerVals[i] = v
		corners[i] = v < 0
	}

	lo := []float64{region.Lo.X, region.Lo.Y, region.Lo.Z}
	hi := []float64{region.Hi.X, region.Hi.Y, region.Hi.Z}

	q := qef.New(3)
	for _, e := range cubeEdges {
		i, j := e[0], e[1]
		if corners[i] == corners[j] {
			continue
		}
		fi, fj := cornerVals[i], cornerVals[j]
		t := fi / (fi - fj)
		p := r3.Add(region.Corner(i), r3.Scale(t, r3.Sub(region.Corner(j), region.Corner(i))))
		v, grad := eval.Derivs(p)
		q.Insert([]float64{p.X, p.Y, p.Z}, []float64{grad.X, grad.Y, grad.Z}, v)
	}

	if q.Count() == 0 {
		return &Node{corners: corners}
	}

	sol := q.SolveBounded(lo, hi, cornerVals[:])
	return &Node{
		corners:  corners,
		vertex:   r3.Vec{X: sol.Position[0], Y: sol.Position[1], Z: sol.Position[2]},
		rank:     sol.Rank,
		crossing: true,
	}
}
