package qef

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v", what, got, want)
	}
}

// TestLine reproduces the original QEF<1> "line" scenario: two samples
// with different slopes whose fitted lines cross exactly once, so the
// least-squares solve should land exactly on that crossing with zero error.
func TestLine(t *testing.T) {
	q := New(1)
	q.Insert([]float64{1}, []float64{1}, 3)
	q.Insert([]float64{4}, []float64{-0.5}, 3)

	sol := q.Solve(nil, 0)
	approxEqual(t, sol.Position[0], 2, 1e-9, "position")
	approxEqual(t, sol.Value, 4, 1e-9, "value")
	approxEqual(t, sol.Error, 0, 1e-9, "error")
	if sol.Rank != 1 {
		t.Errorf("rank: got %d, want 1", sol.Rank)
	}
}

// TestFlatSheet reproduces the original QEF<2> "flat sheet" scenario: two
// samples sharing one normal direction constrain only one combination of Y
// and value, leaving X and the complementary Y/value direction undetermined.
func TestFlatSheet(t *testing.T) {
	q := New(2)
	q.Insert([]float64{1, 0}, []float64{0, 1}, 0)
	q.Insert([]float64{2, 0}, []float64{0, 1}, 0)

	t.Run("unconstrained", func(t *testing.T) {
		sol := q.Solve(nil, 0)
		approxEqual(t, sol.Position[0], 0, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
		approxEqual(t, sol.Error, 0, 1e-9, "error")
		if sol.Rank != 0 {
			t.Errorf("rank: got %d, want 0", sol.Rank)
		}
	})

	t.Run("target pulls undetermined axis only", func(t *testing.T) {
		sol := q.Solve([]float64{1, 0}, 0)
		approxEqual(t, sol.Position[0], 1, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
		approxEqual(t, sol.Value, 0, 1e-9, "value")
		approxEqual(t, sol.Error, 0, 1e-9, "error")
	})

	t.Run("target on a partially constrained axis splits the difference", func(t *testing.T) {
		sol := q.Solve([]float64{1, 0}, 1)
		approxEqual(t, sol.Position[0], 1, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0.5, 1e-9, "position.y")
		approxEqual(t, sol.Value, 0.5, 1e-9, "value")
		approxEqual(t, sol.Error, 0, 1e-9, "error")
	})
}

// TestSubFullMask checks that Sub keeping every position axis reconstructs
// the same problem (property 6 in SPEC_FULL.md ยง8).
func TestSubFullMask(t *testing.T) {
	q := New(2)
	q.Insert([]float64{1, 0}, []float64{0, 1}, 0)
	q.Insert([]float64{2, 0}, []float64{0, 1}, 0)

	full := q.Sub([]bool{true, true})
	sol := full.Solve([]float64{1, 0}, 0)
	approxEqual(t, sol.Position[0], 1, 1e-9, "position.x")
	approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
	approxEqual(t, sol.Error, 0, 1e-9, "error")

	onlyX := q.Sub([]bool{true, false})
	if onlyX.Dim() != 1 {
		t.Fatalf("onlyX dim: got %d, want 1", onlyX.Dim())
	}
	solX := onlyX.Solve([]float64{10}, 0)
	approxEqual(t, solX.Position[0], 10, 1e-9, "position.x")
	approxEqual(t, solX.Error, 0, 1e-9, "error")
}

// TestSolveBounded reproduces the original QEF<2> "solveBounded" scenario:
// the unconstrained solve falls outside the box, but biasing toward the box
// center and the mean corner value lands exactly at the center with zero
// error.
func TestSolveBounded(t *testing.T) {
	q := New(2)
	q.Insert([]float64{1, 0}, []float64{0, 1}, 0)
	q.Insert([]float64{2, 0}, []float64{0, 1}, 0)

	lo := []float64{1, 0}
	hi := []float64{2, 1}
	cornerValues := []float64{0, 0, 1, 1}

	sol := q.SolveBounded(lo, hi, cornerValues)
	approxEqual(t, sol.Position[0], 1.5, 1e-9, "position.x")
	approxEqual(t, sol.Position[1], 0.5, 1e-9, "position.y")
	approxEqual(t, sol.Value, 0.5, 1e-9, "value")
	approxEqual(t, sol.Error, 0, 1e-9, "error")
}

// TestCorner checks that three mutually orthogonal samples (a cube corner in
// the glossary's sense) are reported at full rank.
func TestCorner(t *testing.T) {
	q := New(3)
	q.Insert([]float64{1, 0, 0}, []float64{1, 0, 0}, 0)
	q.Insert([]float64{0, 1, 0}, []float64{0, 1, 0}, 0)
	q.Insert([]float64{0, 0, 1}, []float64{0, 0, 1}, 0)

	sol := q.Solve(nil, 0)
	approxEqual(t, sol.Position[0], 0, 1e-9, "position.x")
	approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
	approxEqual(t, sol.Position[2], 0, 1e-9, "position.z")
	if sol.Rank != 3 {
		t.Errorf("rank: got %d, want 3", sol.Rank)
	}
}

// TestSolveConstrained reproduces the original QEF<2> "solveConstrained"
// scenarios against the same flat-sheet QEF used in TestSolveBounded.
func TestSolveConstrained(t *testing.T) {
	q := New(2)
	q.Insert([]float64{1, 0}, []float64{0, 1}, 0)
	q.Insert([]float64{2, 0}, []float64{0, 1}, 0)
	lo := []float64{1, 0}
	hi := []float64{2, 1}

	t.Run("pin x to lo", func(t *testing.T) {
		sol := q.SolveConstrained(lo, hi, []int8{-1, 0}, nil, 0)
		approxEqual(t, sol.Position[0], 1, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
	})

	t.Run("pin x to hi", func(t *testing.T) {
		sol := q.SolveConstrained(lo, hi, []int8{1, 0}, nil, 0)
		approxEqual(t, sol.Position[0], 2, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
	})

	t.Run("pin y to lo with target on free axis", func(t *testing.T) {
		sol := q.SolveConstrained(lo, hi, []int8{0, -1}, []float64{0.75, 0}, 0)
		approxEqual(t, sol.Position[0], 0.75, 1e-9, "position.x")
		approxEqual(t, sol.Position[1], 0, 1e-9, "position.y")
	})
}

func TestMassPointFallbackOnEmptyQEF(t *testing.T) {
	q := New(3)
	sol := q.Solve(nil, 0)
	for i, p := range sol.Position {
		if p != 0 {
			t.Errorf("position[%d]: got %v, want 0", i, p)
		}
	}
	if sol.Rank != 0 {
		t.Errorf("rank: got %d, want 0", sol.Rank)
	}
}
