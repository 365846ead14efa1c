// Package qef implements the quadratic-error-function accumulator and
// solver used to place a dual-contouring leaf's representative vertex.
//
// It follows the teacher corpus's own idiom for linear algebra: singular
// value decomposition via gonum.org/v1/gonum/mat, the same library and
// technique viamrobotics-rdk's rimage/transform package uses for pose
// estimation (performSVD/mat.SVD). Dimension is a runtime parameter rather
// than a compile-time generic, since it is used at d=1,2,3 (ยง4.4) and gonum
// matrices are naturally runtime-sized.
package qef

import "gonum.org/v1/gonum/mat"

// Solution is the result of solving a QEF: the chosen representative
// position and value, the summed squared residual at that point, and the
// rank (number of independent normal directions among the inserted
// samples: 0 = flat, up to d = corner).
type Solution struct {
	Position []float64
	Value    float64
	Error    float64
	Rank     int
}

// rankThresholdFactor is the fraction of the largest singular value below
// which a singular value is treated as zero (ยง4.4 "Numeric semantics").
const rankThresholdFactor = 1e-10

// QEF accumulates (point, normal, value) samples and solves the damped
// least-squares problem of ยง4.4. The augmented unknown is [position; value],
// dimension d+1; the last row coefficient is fixed at -1 so the linear model
// fit per sample is value(x) = v + n.(x - p).
type QEF struct {
	d         int
	ata       *mat.Dense // (d+1)x(d+1), symmetric
	atb       *mat.VecDense
	btb       float64
	massPoint []float64 // running sum (not yet divided by count)
	massValue float64
	count     int
}

// New returns an empty QEF over a d-dimensional position space.
func New(d int) *QEF {
	return &QEF{
		d:         d,
		ata:       mat.NewDense(d+1, d+1, nil),
		atb:       mat.NewVecDense(d+1, nil),
		massPoint: make([]float64, d),
	}
}

// Dim returns the position dimension d.
func (q *QEF) Dim() int { return q.d }

// Count returns the number of inserted samples.
func (q *QEF) Count() int { return q.count }

// Insert accumulates one sample: point p and normal n (both length d) and
// scalar value v, contributing the row [n0,...,n_{d-1}, -1] with right-hand
// side beta = n.p - v (see DESIGN.md for why this sign convention, rather
// than ยง4.4's literal text, is the one that reproduces the worked examples
// in ยง8 and in the original QEF test suite).
func (q *QEF) Insert(p, n []float64, v float64) {
	d := q.d
	row := make([]float64, d+1)
	copy(row, n)
	row[d] = -1
	beta := -v
	for i := 0; i < d; i++ {
		beta += n[i] * p[i]
	}
	for i := 0; i <= d; i++ {
		for j := 0; j <= d; j++ {
			q.ata.Set(i, j, q.ata.At(i, j)+row[i]*row[j])
		}
		q.atb.SetVec(i, q.atb.AtVec(i)+row[i]*beta)
	}
	q.btb += beta * beta
	for i := 0; i < d; i++ {
		q.massPoint[i] += p[i]
	}
	q.massValue += v
	q.count++
}

// MassPoint returns the mean of the inserted sample positions and values.
// Used as the fallback representative point when the system is too
// degenerate even for the pseudo-inverse solve (ยง7 QefSingular), and as the
// fixed value for axes eliminated by Sub.
func (q *QEF) MassPoint() (position []float64, value float64) {
	position = make([]float64, q.d)
	if q.count == 0 {
		return position, 0
	}
	for i := range position {
		position[i] = q.massPoint[i] / float64(q.count)
	}
	return position, q.massValue / float64(q.count)
}

// Solve finds the position/value minimizing the summed squared residual.
// If target is non-nil, any direction left undetermined by the accumulated
// samples (a zero singular value of AtA) is resolved by moving exactly to
// target/valueTarget along that direction — the w->0 limit of ยง4.4's damped
// formula, which is what reproduces the exact fractions in the worked QEF
// examples. If target is nil, undetermined directions resolve to zero.
func (q *QEF) Solve(target []float64, valueTarget float64) Solution {
	d := q.d
	targetAug := make([]float64, d+1)
	if target != nil {
		copy(targetAug, target)
		targetAug[d] = valueTarget
	}

	var svd mat.SVD
	if !svd.Factorize(q.ata, mat.SVDFull) {
		pos, val := q.MassPoint()
		return Solution{Position: pos, Value: val, Error: 0, Rank: 0}
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigmas := svd.Values(nil)

	sigmaMax := 0.0
	for _, s := range sigmas {
		if s > sigmaMax {
			sigmaMax = s
		}
	}
	threshold := rankThresholdFactor * sigmaMax

	x := make([]float64, d+1)
	rankFull := 0
	n := d + 1
	for k, sigma := range sigmas {
		if sigma > threshold {
			rankFull++
			dot := 0.0
			for i := 0; i < n; i++ {
				dot += u.At(i, k) * q.atb.AtVec(i)
			}
			coeff := dot / sigma
			for i := 0; i < n; i++ {
				x[i] += coeff * v.At(i, k)
			}
		} else {
			dot := 0.0
			for i := 0; i < n; i++ {
				dot += v.At(i, k) * targetAug[i]
			}
			for i := 0; i < n; i++ {
				x[i] += dot * v.At(i, k)
			}
		}
	}
	rank := rankFull - 1
	if rank < 0 {
		rank = 0
	}
	return Solution{Position: x[:d], Value: x[d], Error: q.residual(x), Rank: rank}
}

// residual computes ||Ax-b||^2 = x^T(AtA)x - 2(Atb).x + btb without ever
// materializing the (potentially large) row-wise A and b.
func (q *QEF) residual(x []float64) float64 {
	n := q.d + 1
	var atax float64
	for i := 0; i < n; i++ {
		var row float64
		for j := 0; j < n; j++ {
			row += q.ata.At(i, j) * x[j]
		}
		atax += x[i] * row
	}
	var atbx float64
	for i := 0; i < n; i++ {
		atbx += q.atb.AtVec(i) * x[i]
	}
	e := atax - 2*atbx + q.btb
	if e < 0 {
		e = 0
	}
	return e
}

// Sub returns a QEF over the position axes where keepPos is true, with the
// remaining position axes fixed at their mass-point mean and absorbed into
// the right-hand side (ยง4.4 "Sub-solve"). The value axis is always kept.
func (q *QEF) Sub(keepPos []bool) *QEF {
	meanPos, _ := q.MassPoint()
	return q.reduce(meanPos, keepPos)
}

// reduce eliminates the position axes where keep[i] is false, pinning them
// to fixed[i] via block elimination of the normal equations, and returns
// the resulting lower-dimensional QEF (value axis always retained).
func (q *QEF) reduce(fixed []float64, keep []bool) *QEF {
	d := q.d
	keptIdx := make([]int, 0, d+1)
	fixedIdx := make([]int, 0, d)
	for i := 0; i < d; i++ {
		if keep[i] {
			keptIdx = append(keptIdx, i)
		} else {
			fixedIdx = append(fixedIdx, i)
		}
	}
	keptIdx = append(keptIdx, d) // value axis always retained

	c := make([]float64, d+1)
	for _, f := range fixedIdx {
		c[f] = fixed[f]
	}

	dNew := len(keptIdx) - 1
	sub := &QEF{
		d:         dNew,
		ata:       mat.NewDense(dNew+1, dNew+1, nil),
		atb:       mat.NewVecDense(dNew+1, nil),
		massPoint: make([]float64, dNew),
		count:     q.count,
		massValue: q.massValue,
	}
	for a, i := range keptIdx {
		for b, j := range keptIdx {
			sub.ata.Set(a, b, q.ata.At(i, j))
		}
		val := q.atb.AtVec(i)
		for _, f := range fixedIdx {
			val -= q.ata.At(i, f) * c[f]
		}
		sub.atb.SetVec(a, val)
	}
	btbPrime := q.btb
	for _, f1 := range fixedIdx {
		btbPrime -= 2 * q.atb.AtVec(f1) * c[f1]
		for _, f2 := range fixedIdx {
			btbPrime += q.ata.At(f1, f2) * c[f1] * c[f2]
		}
	}
	sub.btb = btbPrime
	for a, i := range keptIdx[:dNew] {
		sub.massPoint[a] = q.massPoint[i]
	}
	return sub
}

// SolveConstrained pins the position axes where code[i] != 0 to lo[i]
// (code[i]<0) or hi[i] (code[i]>0), solving the remaining free axes (and
// value) optimally, biased toward target/valueTarget along any direction
// left undetermined by the samples. target may be nil.
func (q *QEF) SolveConstrained(lo, hi []float64, code []int8, target []float64, valueTarget float64) Solution {
	d := q.d
	keepPos := make([]bool, d)
	fixedPos := make([]float64, d)
	for i, c := range code {
		switch {
		case c < 0:
			fixedPos[i] = lo[i]
		case c > 0:
			fixedPos[i] = hi[i]
		default:
			keepPos[i] = true
		}
	}
	sub := q.reduce(fixedPos, keepPos)

	var subTarget []float64
	if target != nil {
		subTarget = make([]float64, 0, sub.d)
		for i, k := range keepPos {
			if k {
				subTarget = append(subTarget, target[i])
			}
		}
	}
	subSol := sub.Solve(subTarget, valueTarget)

	pos := make([]float64, d)
	si := 0
	for i, k := range keepPos {
		if k {
			pos[i] = subSol.Position[si]
			si++
		} else {
			pos[i] = fixedPos[i]
		}
	}
	return Solution{Position: pos, Value: subSol.Value, Error: subSol.Error, Rank: subSol.Rank}
}

// SolveBounded solves for a representative point clamped to lie within
// [lo,hi]. It first tries the unconstrained solve biased toward the box
// center and the mean of cornerValues (the value sampled at each of the
// box's 2^d corners, in canonical Corner(i) order); if that lands inside the
// box it is returned directly. Otherwise every non-interior combination of
// per-axis clamps to lo/hi is tried (ยง4.4), each biased the same way, and
// the candidate with lowest residual error wins, ties broken by higher rank
// then lexicographically smaller position. Candidates whose clamped face is
// spanned entirely by corners of one sign are skipped: there is no surface
// feature to resolve there.
func (q *QEF) SolveBounded(lo, hi []float64, cornerValues []float64) Solution {
	d := q.d
	center := make([]float64, d)
	for i := range center {
		center[i] = 0.5 * (lo[i] + hi[i])
	}
	meanCorner := 0.0
	for _, v := range cornerValues {
		meanCorner += v
	}
	if len(cornerValues) > 0 {
		meanCorner /= float64(len(cornerValues))
	}

	inside := func(pos []float64) bool {
		for i, p := range pos {
			if p < lo[i]-1e-9 || p > hi[i]+1e-9 {
				return false
			}
		}
		return true
	}

	unconstrained := q.Solve(center, meanCorner)
	if inside(unconstrained.Position) {
		return unconstrained
	}

	var best Solution
	haveBest := false
	code := make([]int8, d)
	var iterate func(axis int)
	iterate = func(axis int) {
		if axis == d {
			allFree := true
			for _, c := range code {
				if c != 0 {
					allFree = false
					break
				}
			}
			if allFree {
				return
			}
			if q.cornersHomogeneous(code, cornerValues) {
				return
			}
			codeCopy := make([]int8, d)
			copy(codeCopy, code)
			sol := q.SolveConstrained(lo, hi, codeCopy, center, meanCorner)
			if !haveBest || betterSolution(sol, best) {
				best = sol
				haveBest = true
			}
			return
		}
		for _, v := range [3]int8{-1, 0, 1} {
			code[axis] = v
			iterate(axis + 1)
		}
		code[axis] = 0
	}
	iterate(0)
	if !haveBest {
		return unconstrained
	}
	return best
}

func betterSolution(a, b Solution) bool {
	const eps = 1e-12
	if a.Error < b.Error-eps {
		return true
	}
	if b.Error < a.Error-eps {
		return false
	}
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	for i := range a.Position {
		if a.Position[i] != b.Position[i] {
			return a.Position[i] < b.Position[i]
		}
	}
	return false
}

// cornersHomogeneous reports whether every corner consistent with code's
// pinned axes shares the same value, meaning no sign change occurs on that
// sub-face and there is no feature there to resolve.
func (q *QEF) cornersHomogeneous(code []int8, cornerValues []float64) bool {
	d := len(code)
	if len(cornerValues) != 1<<uint(d) {
		return false
	}
	var matched []float64
	for i, v := range cornerValues {
		ok := true
		for axis, c := range code {
			if c == 0 {
				continue
			}
			bit := (i >> uint(axis)) & 1
			want := 0
			if c > 0 {
				want = 1
			}
			if bit != want {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, v)
		}
	}
	if len(matched) <= 1 {
		return false
	}
	for _, v := range matched[1:] {
		if v != matched[0] {
			return false
		}
	}
	return true
}
