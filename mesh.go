package dcmesh

import "gonum.org/v1/gonum/spatial/r3"

// Mesh is an indexed triangle mesh: a vertex list and a list of index
// triples referencing it. No vertex is ever left unreferenced by the
// dual-contouring traversal (each is created lazily the first time a
// surface-crossing leaf is visited).
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]uint32
}
