// Package dcmesh turns an implicit scalar field into a triangle mesh using
// dual contouring over an adaptive octree.
//
// The heavy lifting — octree construction with QEF-based vertex placement
// and the mutually recursive cell/face/edge traversal that stitches the
// mesh together — lives in the octree subpackage. This root package defines
// the boundary the core depends on: the Evaluator contract, the Region
// input, and the Mesh output, plus a small standard library of shapes
// (package shapes) and a third-party SDF adapter (FromSDF3) so the core has
// something real to chew on.
package dcmesh

import "gonum.org/v1/gonum/spatial/r3"

// Sign is a conservative classification of the sign of an implicit function
// over a region of space.
type Sign int

const (
	// AMBIGUOUS means the function changes sign somewhere in the region,
	// or the evaluator could not prove otherwise.
	AMBIGUOUS Sign = iota
	// POSITIVE means the function is positive (outside) everywhere in the region.
	POSITIVE
	// NEGATIVE means the function is negative (inside) everywhere in the region.
	NEGATIVE
)

func (s Sign) String() string {
	switch s {
	case POSITIVE:
		return "POSITIVE"
	case NEGATIVE:
		return "NEGATIVE"
	default:
		return "AMBIGUOUS"
	}
}

// Evaluator is the implicit function contract the dual-contouring core
// depends on. Implementations are assumed to be total and referentially
// transparent; the core never mutates through this interface.
type Evaluator interface {
	// Value returns f(p).
	Value(p r3.Vec) float64
	// Interval returns a conservative sign classification of f over box.
	// Returning AMBIGUOUS is always safe; POSITIVE/NEGATIVE must be correct,
	// since the core uses them to skip subdivision of uniform regions.
	Interval(box r3.Box) Sign
	// Derivs returns f(p) and a unit-normalized gradient of f at p. If the
	// gradient cannot be computed (e.g. NaN), implementations should return
	// the zero vector; callers treat that as "no usable normal" and skip
	// the sample rather than fail.
	Derivs(p r3.Vec) (value float64, gradient r3.Vec)
}
