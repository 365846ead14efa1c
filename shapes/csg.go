package shapes

import (
	"github.com/soypat/dcmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// flip swaps POSITIVE and NEGATIVE, leaving AMBIGUOUS untouched. It is how
// Difference derives b's interval contribution from -b.
func flip(s dcmesh.Sign) dcmesh.Sign {
	switch s {
	case dcmesh.POSITIVE:
		return dcmesh.NEGATIVE
	case dcmesh.NEGATIVE:
		return dcmesh.POSITIVE
	default:
		return dcmesh.AMBIGUOUS
	}
}

// unionInterval classifies min(a,b): NEGATIVE wins if either operand is
// NEGATIVE (the minimum can only get more negative), POSITIVE requires both
// operands POSITIVE.
func unionInterval(a, b dcmesh.Sign) dcmesh.Sign {
	if a == dcmesh.NEGATIVE || b == dcmesh.NEGATIVE {
		return dcmesh.NEGATIVE
	}
	if a == dcmesh.POSITIVE && b == dcmesh.POSITIVE {
		return dcmesh.POSITIVE
	}
	return dcmesh.AMBIGUOUS
}

// intersectInterval classifies max(a,b): POSITIVE wins if either operand is
// POSITIVE, NEGATIVE requires both operands NEGATIVE.
func intersectInterval(a, b dcmesh.Sign) dcmesh.Sign {
	if a == dcmesh.POSITIVE || b == dcmesh.POSITIVE {
		return dcmesh.POSITIVE
	}
	if a == dcmesh.NEGATIVE && b == dcmesh.NEGATIVE {
		return dcmesh.NEGATIVE
	}
	return dcmesh.AMBIGUOUS
}

type union struct{ a, b dcmesh.Evaluator }

// Union returns the solid union of a and b (min of the two fields).
func Union(a, b dcmesh.Evaluator) dcmesh.Evaluator { return union{a, b} }

func (s union) Value(p r3.Vec) float64 {
	va, vb := s.a.Value(p), s.b.Value(p)
	if va < vb {
		return va
	}
	return vb
}

func (s union) Interval(box r3.Box) dcmesh.Sign {
	return unionInterval(s.a.Interval(box), s.b.Interval(box))
}

func (s union) Derivs(p r3.Vec) (float64, r3.Vec) {
	va, ga := s.a.Derivs(p)
	vb, gb := s.b.Derivs(p)
	if va < vb {
		return va, ga
	}
	return vb, gb
}

type intersect struct{ a, b dcmesh.Evaluator }

// Intersect returns the solid intersection of a and b (max of the two fields).
func Intersect(a, b dcmesh.Evaluator) dcmesh.Evaluator { return intersect{a, b} }

func (s intersect) Value(p r3.Vec) float64 {
	va, vb := s.a.Value(p), s.b.Value(p)
	if va > vb {
		return va
	}
	return vb
}

func (s intersect) Interval(box r3.Box) dcmesh.Sign {
	return intersectInterval(s.a.Interval(box), s.b.Interval(box))
}

func (s intersect) Derivs(p r3.Vec) (float64, r3.Vec) {
	va, ga := s.a.Derivs(p)
	vb, gb := s.b.Derivs(p)
	if va > vb {
		return va, ga
	}
	return vb, gb
}

type difference struct{ a, b dcmesh.Evaluator }

// Difference returns the solid a with b removed (max of a and -b).
func Difference(a, b dcmesh.Evaluator) dcmesh.Evaluator { return difference{a, b} }

func (s difference) Value(p r3.Vec) float64 {
	va, vb := s.a.Value(p), -s.b.Value(p)
	if va > vb {
		return va
	}
	return vb
}

func (s difference) Interval(box r3.Box) dcmesh.Sign {
	return intersectInterval(s.a.Interval(box), flip(s.b.Interval(box)))
}

func (s difference) Derivs(p r3.Vec) (float64, r3.Vec) {
	va, ga := s.a.Derivs(p)
	vbRaw, gb := s.b.Derivs(p)
	vb, gb2 := -vbRaw, r3.Scale(-1, gb)
	if va > vb {
		return va, ga
	}
	return vb, gb2
}
