package shapes

import (
	"math"
	"testing"

	"github.com/soypat/dcmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// centralDiff estimates the gradient of v at p the same way the teacher's
// Normal3 does, as a reference to check each primitive's analytic gradient
// against.
func centralDiff(v func(r3.Vec) float64, p r3.Vec, eps float64) r3.Vec {
	return r3.Vec{
		X: (v(r3.Add(p, r3.Vec{X: eps})) - v(r3.Add(p, r3.Vec{X: -eps}))) / (2 * eps),
		Y: (v(r3.Add(p, r3.Vec{Y: eps})) - v(r3.Add(p, r3.Vec{Y: -eps}))) / (2 * eps),
		Z: (v(r3.Add(p, r3.Vec{Z: eps})) - v(r3.Add(p, r3.Vec{Z: -eps}))) / (2 * eps),
	}
}

func checkGradient(t *testing.T, eval dcmesh.Evaluator, p r3.Vec) {
	t.Helper()
	_, analytic := eval.Derivs(p)
	numeric := r3.Unit(centralDiff(eval.Value, p, 1e-5))
	if analytic == (r3.Vec{}) {
		return // degenerate gradient point (e.g. sphere center), skip
	}
	d := r3.Dot(analytic, numeric)
	if d < 0.99 {
		t.Errorf("at %v: analytic %v vs numeric %v (dot %v)", p, analytic, numeric, d)
	}
}

func TestSphereGradient(t *testing.T) {
	s := Sphere(1.5)
	for _, p := range []r3.Vec{{X: 2}, {Y: -2}, {X: 1, Y: 1, Z: 1}, {X: 0.1, Y: 3, Z: -1}} {
		checkGradient(t, s, p)
	}
}

func TestBoxGradient(t *testing.T) {
	b := Box(r3.Vec{X: 1, Y: 2, Z: 0.5})
	for _, p := range []r3.Vec{{X: 2}, {Y: 3}, {X: 1.5, Y: 2.5, Z: 1}, {X: -3, Y: -3, Z: -3}} {
		checkGradient(t, b, p)
	}
}

func TestHalfSpaceGradient(t *testing.T) {
	h := HalfSpace(r3.Vec{X: 1, Y: 1}, 1)
	for _, p := range []r3.Vec{{X: 2}, {Y: -4, Z: 9}, {X: -1, Y: -1, Z: -1}} {
		checkGradient(t, h, p)
	}
}

func TestSphereInterval(t *testing.T) {
	s := Sphere(1)
	far := r3.Box{Min: r3.Vec{X: 10, Y: 10, Z: 10}, Max: r3.Vec{X: 11, Y: 11, Z: 11}}
	if got := s.Interval(far); got != dcmesh.POSITIVE {
		t.Errorf("far box: got %v, want POSITIVE", got)
	}
	inside := r3.Box{Min: r3.Vec{X: -0.1, Y: -0.1, Z: -0.1}, Max: r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}}
	if got := s.Interval(inside); got != dcmesh.NEGATIVE {
		t.Errorf("inside box: got %v, want NEGATIVE", got)
	}
	straddle := r3.Box{Min: r3.Vec{X: -2, Y: -2, Z: -2}, Max: r3.Vec{X: 2, Y: 2, Z: 2}}
	if got := s.Interval(straddle); got != dcmesh.AMBIGUOUS {
		t.Errorf("straddling box: got %v, want AMBIGUOUS", got)
	}
}

func TestUnionIntersectDifference(t *testing.T) {
	a := Sphere(1)
	b := Box(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})

	u := Union(a, b)
	if u.Value(r3.Vec{}) != math.Min(a.Value(r3.Vec{}), b.Value(r3.Vec{})) {
		t.Error("union value mismatch at origin")
	}

	in := Intersect(a, b)
	if in.Value(r3.Vec{X: 2}) != math.Max(a.Value(r3.Vec{X: 2}), b.Value(r3.Vec{X: 2})) {
		t.Error("intersect value mismatch")
	}

	d := Difference(a, b)
	p := r3.Vec{X: 0.2}
	want := math.Max(a.Value(p), -b.Value(p))
	if d.Value(p) != want {
		t.Error("difference value mismatch")
	}
}
