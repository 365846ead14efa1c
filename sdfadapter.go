package dcmesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the shape common to plain signed-distance-field types in the wild:
// the teacher sdf package's own SDF3 interface, and github.com/deadsy/sdfx's
// sdf.SDF3 (modulo its use of its own, structurally identical, vector type).
// Anything with this shape can be lifted into a full Evaluator with FromSDF3.
type SDF3 interface {
	Evaluate(p r3.Vec) float64
	Bounds() r3.Box
}

// sdf3Adapter lifts an SDF3 into an Evaluator.
type sdf3Adapter struct {
	s   SDF3
	eps float64
}

// FromSDF3 wraps s, assumed to be a signed distance field (1-Lipschitz: f
// cannot change by more than the distance moved), into an Evaluator.
//
// Interval classification compares |f(center)| against the box's half
// diagonal, exactly the test render/octree_renderer.go's dc3.IsEmpty uses to
// prune empty octree cubes: if the field can't have reached zero anywhere
// in the box, its sign there is uniform.
//
// Derivs estimates the gradient by central differences over a step of eps,
// the same sampling Normal3 uses. eps should be small relative to the finest
// cell the caller intends to resolve; callers unsure what to pick can use
// DefaultGradientEps.
func FromSDF3(s SDF3, eps float64) Evaluator {
	if eps <= 0 {
		eps = DefaultGradientEps
	}
	return &sdf3Adapter{s: s, eps: eps}
}

// DefaultGradientEps is used by FromSDF3 when no step size is given.
const DefaultGradientEps = 1e-4

func (a *sdf3Adapter) Value(p r3.Vec) float64 {
	return a.s.Evaluate(p)
}

func (a *sdf3Adapter) Interval(box r3.Box) Sign {
	center := r3.Scale(0.5, r3.Add(box.Min, box.Max))
	size := r3.Sub(box.Max, box.Min)
	halfDiag := 0.5 * math.Sqrt(size.X*size.X+size.Y*size.Y+size.Z*size.Z)
	d := a.s.Evaluate(center)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return AMBIGUOUS
	}
	if d >= halfDiag {
		return POSITIVE
	}
	if -d >= halfDiag {
		return NEGATIVE
	}
	return AMBIGUOUS
}

func (a *sdf3Adapter) Derivs(p r3.Vec) (float64, r3.Vec) {
	v := a.s.Evaluate(p)
	eps := a.eps
	grad := r3.Vec{
		X: a.s.Evaluate(r3.Add(p, r3.Vec{X: eps})) - a.s.Evaluate(r3.Add(p, r3.Vec{X: -eps})),
		Y: a.s.Evaluate(r3.Add(p, r3.Vec{Y: eps})) - a.s.Evaluate(r3.Add(p, r3.Vec{Y: -eps})),
		Z: a.s.Evaluate(r3.Add(p, r3.Vec{Z: eps})) - a.s.Evaluate(r3.Add(p, r3.Vec{Z: -eps})),
	}
	if math.IsNaN(grad.X) || math.IsNaN(grad.Y) || math.IsNaN(grad.Z) {
		return v, r3.Vec{}
	}
	n := r3.Norm(grad)
	if n == 0 {
		return v, r3.Vec{}
	}
	return v, r3.Scale(1/n, grad)
}
