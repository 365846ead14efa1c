// Package shapes is a small standard library of implicit-function
// primitives: sphere, box, half-space, and CSG combinators over them.
//
// Spec treats this catalogue as an external collaborator — the "tree of
// primitive CSG operations" the dual-contouring core never needs to know
// about. It is grounded in the teacher repository's own sdf3.go primitive
// catalogue (Evaluate/Bounds shape, min/max CSG combinators) but each shape
// here implements dcmesh.Evaluator directly, with exact analytic gradients,
// rather than going through a finite-difference adapter — that precision
// matters for the sphere/cube/half-space scenarios the core's tests exercise.
package shapes

import (
	"math"

	"github.com/soypat/dcmesh"
	"github.com/soypat/dcmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// lipschitzInterval classifies the sign of a 1-Lipschitz function over box
// given its value at the box center, by comparing against the half
// diagonal. This is the same test render/octree_renderer.go's dc3.IsEmpty
// performs to prune uniform octree cubes.
func lipschitzInterval(center float64, box r3.Box) dcmesh.Sign {
	size := r3.Sub(box.Max, box.Min)
	halfDiag := 0.5 * math.Sqrt(size.X*size.X+size.Y*size.Y+size.Z*size.Z)
	if center >= halfDiag {
		return dcmesh.POSITIVE
	}
	if -center >= halfDiag {
		return dcmesh.NEGATIVE
	}
	return dcmesh.AMBIGUOUS
}

func boxCenter(box r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(box.Min, box.Max))
}

// sphere is a solid ball of the given radius, centered on the origin.
type sphere struct {
	radius float64
}

// Sphere returns an Evaluator for a solid ball of the given radius centered
// on the origin.
func Sphere(radius float64) dcmesh.Evaluator {
	return sphere{radius: radius}
}

func (s sphere) Value(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

func (s sphere) Interval(box r3.Box) dcmesh.Sign {
	// Exact min/max distance from the sphere's center to the box, rather
	// than the generic Lipschitz bound, since it's nearly free to compute
	// here and gives a tighter (less often AMBIGUOUS) classification.
	minD2, maxD2 := d3.Box(box).MinMaxDist2(r3.Vec{})
	minD, maxD := math.Sqrt(minD2), math.Sqrt(maxD2)
	if minD-s.radius > 0 {
		return dcmesh.POSITIVE
	}
	if maxD-s.radius < 0 {
		return dcmesh.NEGATIVE
	}
	return dcmesh.AMBIGUOUS
}

func (s sphere) Derivs(p r3.Vec) (float64, r3.Vec) {
	n := r3.Norm(p)
	if n == 0 {
		return -s.radius, r3.Vec{}
	}
	return n - s.radius, r3.Scale(1/n, p)
}

// box is an axis-aligned solid box centered on the origin with the given
// half-extents.
type box struct {
	half r3.Vec
}

// Box returns an Evaluator for an axis-aligned solid box centered on the
// origin with half-extents half.
func Box(half r3.Vec) dcmesh.Evaluator {
	return box{half: half}
}

func (b box) Value(p r3.Vec) float64 {
	q := r3.Vec{X: math.Abs(p.X) - b.half.X, Y: math.Abs(p.Y) - b.half.Y, Z: math.Abs(p.Z) - b.half.Z}
	outside := r3.Vec{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0), Z: math.Max(q.Z, 0)}
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return r3.Norm(outside) + inside
}

func (b box) Interval(boxRegion r3.Box) dcmesh.Sign {
	return lipschitzInterval(b.Value(boxCenter(boxRegion)), boxRegion)
}

func (b box) Derivs(p r3.Vec) (float64, r3.Vec) {
	v := b.Value(p)
	const eps = 1e-6
	grad := r3.Vec{
		X: b.Value(r3.Add(p, r3.Vec{X: eps})) - b.Value(r3.Add(p, r3.Vec{X: -eps})),
		Y: b.Value(r3.Add(p, r3.Vec{Y: eps})) - b.Value(r3.Add(p, r3.Vec{Y: -eps})),
		Z: b.Value(r3.Add(p, r3.Vec{Z: eps})) - b.Value(r3.Add(p, r3.Vec{Z: -eps})),
	}
	n := r3.Norm(grad)
	if n == 0 {
		return v, r3.Vec{}
	}
	return v, r3.Scale(1/n, grad)
}

// halfSpace is the solid region normal.(p) <= offset.
type halfSpace struct {
	normal r3.Vec // assumed unit length
	offset float64
}

// HalfSpace returns an Evaluator for the half-space {p : dot(normal, p) <= offset}.
// normal is normalized internally.
func HalfSpace(normal r3.Vec, offset float64) dcmesh.Evaluator {
	n := r3.Norm(normal)
	if n != 0 {
		normal = r3.Scale(1/n, normal)
	}
	return halfSpace{normal: normal, offset: offset}
}

func (h halfSpace) Value(p r3.Vec) float64 {
	return r3.Dot(h.normal, p) - h.offset
}

func (h halfSpace) Interval(box r3.Box) dcmesh.Sign {
	return lipschitzInterval(h.Value(boxCenter(box)), box)
}

func (h halfSpace) Derivs(p r3.Vec) (float64, r3.Vec) {
	return h.Value(p), h.normal
}
