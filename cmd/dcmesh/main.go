// Command dcmesh meshes one of the built-in shape primitives with dual
// contouring and writes the result to an STL file.
//
// Grounded in the teacher's example mains (form3/glsdf3/examples/npt-flange,
// examples/*): flag.BoolVar/StringVar/Float64Var/IntVar plus flag.Parse, and
// log.Fatal on every error path rather than a richer CLI framework, since
// that is the only flag-parsing idiom the example corpus itself uses.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/soypat/dcmesh"
	"github.com/soypat/dcmesh/octree"
	"github.com/soypat/dcmesh/render"
	"github.com/soypat/dcmesh/shapes"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	var (
		shapeName = flag.String("shape", "sphere", "shape to mesh: sphere, box, halfspace")
		size      = flag.Float64("size", 1, "sphere radius or box half-extent")
		subdiv    = flag.Int("subdiv", 5, "octree subdivision depth per axis")
		bounds    = flag.Float64("bounds", 2, "meshing region half-extent")
		out       = flag.String("out", "out.stl", "output STL path")
		parallel  = flag.Int("workers", 0, "max concurrent build workers (0 = runtime default)")
	)
	flag.Parse()

	eval, err := buildShape(*shapeName, *size)
	if err != nil {
		log.Fatal(err)
	}

	region := dcmesh.NewRegion(
		r3.Vec{X: -*bounds, Y: -*bounds, Z: -*bounds},
		r3.Vec{X: *bounds, Y: *bounds, Z: *bounds},
		*subdiv,
	)

	var m dcmesh.Mesh
	if *parallel != 0 {
		m, err = octree.RenderParallel(eval, region, *parallel)
	} else {
		m, err = octree.Render(eval, region)
	}
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("meshed %s: %d vertices, %d triangles", *shapeName, len(m.Vertices), len(m.Triangles))
	if err := render.CreateSTL(*out, m); err != nil {
		log.Fatal(err)
	}
}

func buildShape(name string, size float64) (dcmesh.Evaluator, error) {
	switch name {
	case "sphere":
		return shapes.Sphere(size), nil
	case "box":
		return shapes.Box(r3.Vec{X: size, Y: size, Z: size}), nil
	case "halfspace":
		return shapes.HalfSpace(r3.Vec{X: 1}, 0), nil
	default:
		return nil, fmt.Errorf("dcmesh: unknown shape %q", name)
	}
}
