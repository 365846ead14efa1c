// Package d3 carries the one piece of the teacher's internal/d3 vector
// helper package this module actually exercises: Box's exact min/max
// squared-distance-to-point query, used by shapes.Sphere to classify a
// region's sign without falling back to the generic Lipschitz bound.
package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// Translate translates a 3d box.
func (a Box) Translate(v r3.Vec) Box {
	return Box{r3.Add(a.Min, v), r3.Add(a.Max, v)}
}

// Vertices returns the box's eight corner vertices.
func (a Box) Vertices() [8]r3.Vec {
	return [8]r3.Vec{
		a.Min,
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		a.Max,
	}
}

// MinMaxDist2 returns the minimum and maximum dist*dist from a point to a
// box. Points within the box have minimum distance 0.
func (a Box) MinMaxDist2(p r3.Vec) (min, max float64) {
	a = a.Translate(r3.Scale(-1, p))

	vs := a.Vertices()
	for i, v := range vs {
		d2 := r3.Norm2(v)
		if i == 0 || d2 < min {
			min = d2
		}
		if d2 > max {
			max = d2
		}
	}

	withinX := a.Min.X < 0 && a.Max.X > 0
	withinY := a.Min.Y < 0 && a.Max.Y > 0
	withinZ := a.Min.Z < 0 && a.Max.Z > 0

	if withinX && withinY && withinZ {
		min = 0
	} else {
		if withinX && withinY {
			d := math.Min(math.Abs(a.Max.Z), math.Abs(a.Min.Z))
			min = math.Min(min, d*d)
		}
		if withinX && withinZ {
			d := math.Min(math.Abs(a.Max.Y), math.Abs(a.Min.Y))
			min = math.Min(min, d*d)
		}
		if withinY && withinZ {
			d := math.Min(math.Abs(a.Max.X), math.Abs(a.Min.X))
			min = math.Min(min, d*d)
		}
	}

	return min, max
}
