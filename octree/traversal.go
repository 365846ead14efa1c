package octree

import (
	"github.com/soypat/dcmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// worker holds the mesh under construction and the vertex-uniqueness map,
// shared across the mutually recursive cell/face/edge procedures. It is the
// Go translation of DC::Worker from the original dc.cpp: three free
// recursive methods instead of virtual dispatch, a map from leaf identity
// (here, the leaf's pointer) to its vertex index instead of
// std::map<const Octree*, unsigned>.
type worker struct {
	verts []r3.Vec
	tris  [][3]uint32
	index map[*Node]uint32
}

func (w *worker) vertexIndex(n *Node) uint32 {
	if idx, ok := w.index[n]; ok {
		return idx
	}
	idx := uint32(len(w.verts))
	w.index[n] = idx
	w.verts = append(w.verts, n.vertex)
	return idx
}

// Render builds the octree for region under eval and meshes it, per
// spec.md ยง6's render(evaluator, region) -> mesh entry point.
func Render(eval dcmesh.Evaluator, region dcmesh.Region) (dcmesh.Mesh, error) {
	if !region.Valid() {
		return dcmesh.Mesh{}, dcmesh.ErrDegenerateRegion
	}
	root := Build(region, eval)
	return mesh(root), nil
}

// RenderParallel behaves like Render but builds the octree with
// BuildParallel.
func RenderParallel(eval dcmesh.Evaluator, region dcmesh.Region, maxWorkers int) (dcmesh.Mesh, error) {
	if !region.Valid() {
		return dcmesh.Mesh{}, dcmesh.ErrDegenerateRegion
	}
	root := BuildParallel(region, eval, maxWorkers)
	return mesh(root), nil
}

func mesh(root *Node) dcmesh.Mesh {
	w := &worker{index: make(map[*Node]uint32)}
	w.cell(root)
	return dcmesh.Mesh{Vertices: w.verts, Triangles: w.tris}
}

// cell is step (a) of ยง4.5: recurse into every child, then stitch the 12
// adjacent-child face pairs and the 6 interior-edge child groups. The
// explicit child-index pairs mirror DC::Worker::cell in dc.cpp exactly;
// AxisX/AxisY/AxisZ (1,2,4) are the same bit values as Octree::AXIS_X/Y/Z.
func (w *worker) cell(c *Node) {
	if !c.branch {
		return
	}
	for i := 0; i < 8; i++ {
		w.cell(c.children[i])
	}

	const x, y, z = int(dcmesh.AxisX), int(dcmesh.AxisY), int(dcmesh.AxisZ)

	w.face(c.children[0], c.children[x], dcmesh.AxisX)
	w.face(c.children[y], c.children[y|x], dcmesh.AxisX)
	w.face(c.children[z], c.children[z|x], dcmesh.AxisX)
	w.face(c.children[y|z], c.children[y|z|x], dcmesh.AxisX)

	w.face(c.children[0], c.children[y], dcmesh.AxisY)
	w.face(c.children[x], c.children[x|y], dcmesh.AxisY)
	w.face(c.children[z], c.children[z|y], dcmesh.AxisY)
	w.face(c.children[x|z], c.children[x|z|y], dcmesh.AxisY)

	w.face(c.children[0], c.children[z], dcmesh.AxisZ)
	w.face(c.children[x], c.children[x|z], dcmesh.AxisZ)
	w.face(c.children[y], c.children[y|z], dcmesh.AxisZ)
	w.face(c.children[x|y], c.children[x|y|z], dcmesh.AxisZ)

	w.edge(c.children[0], c.children[x], c.children[y], c.children[x|y], dcmesh.AxisZ)
	w.edge(c.children[z], c.children[x|z], c.children[y|z], c.children[x|y|z], dcmesh.AxisZ)

	w.edge(c.children[0], c.children[y], c.children[z], c.children[y|z], dcmesh.AxisX)
	w.edge(c.children[x], c.children[y|x], c.children[z|x], c.children[y|z|x], dcmesh.AxisX)

	w.edge(c.children[0], c.children[z], c.children[x], c.children[z|x], dcmesh.AxisY)
	w.edge(c.children[y], c.children[z|y], c.children[x|y], c.children[z|x|y], dcmesh.AxisY)
}

// face is step ยง4.5's face(a,b,axis): a and b are adjacent along axis with
// a on the low side. If both are leaves there is nothing to do here (any
// quad on their shared edges is emitted by edge). Otherwise descend into
// the four subface pairs and stitch the four subedges lying on the shared
// face, using child (which treats a leaf as standing in for its own
// children) to resolve T-junctions.
func (w *worker) face(a, b *Node, axis dcmesh.Axis) {
	if !a.branch && !b.branch {
		return
	}
	q := axis.Next()
	r := q.Next()
	ax, qx, rx := int(axis), int(q), int(r)

	w.face(child(a, ax), child(b, 0), axis)
	w.face(child(a, qx|ax), child(b, qx), axis)
	w.face(child(a, rx|ax), child(b, rx), axis)
	w.face(child(a, qx|rx|ax), child(b, qx|rx), axis)

	w.edge(child(a, ax), child(a, rx|ax), child(b, 0), child(b, rx), q)
	w.edge(child(a, qx|ax), child(a, qx|rx|ax), child(b, qx), child(b, qx|rx), q)

	w.edge(child(a, ax), child(b, 0), child(a, ax|qx), child(b, qx), r)
	w.edge(child(a, rx|ax), child(b, rx), child(a, rx|ax|qx), child(b, rx|qx), r)
}

// edge is ยง4.5's edge(a,b,c,d,axis): the four cells sharing one axis-
// parallel octree edge, in canonical (Q,R) quadrant order a=(0,0), b=(R,0),
// c=(0,Q), d=(Q,R). If all four are leaves and any of the four corner pairs
// straddling the edge along axis changes sign, emit one quad; the sign at
// d's low corner along axis picks the winding that keeps normals outward.
// Otherwise, if any is a branch, recurse into the edge's low and high half
// along axis.
func (w *worker) edge(a, b, c, d *Node, axis dcmesh.Axis) {
	q := axis.Next()
	r := q.Next()
	qx, rx, axisBit := int(q), int(r), int(axis)
	qr := qx | rx

	if !a.branch && !b.branch && !c.branch && !d.branch {
		if a.corners[qr] != a.corners[qr|axisBit] ||
			b.corners[rx] != b.corners[rx|axisBit] ||
			c.corners[qx] != c.corners[qx|axisBit] ||
			d.corners[0] != d.corners[axisBit] {
			if d.corners[0] {
				w.quad(a, b, c, d)
			} else {
				w.quad(a, c, b, d)
			}
		}
		return
	}
	if a.branch || b.branch || c.branch || d.branch {
		w.edge(child(a, qr), child(b, rx), child(c, qx), child(d, 0), axis)
		w.edge(child(a, qr|axisBit), child(b, rx|axisBit), child(c, qx|axisBit), child(d, axisBit), axis)
	}
}

// quad materializes the four leaves' vertices (first reference wins) and
// appends the two triangles that make up the quad between them.
func (w *worker) quad(a, b, c, d *Node) {
	ia := w.vertexIndex(a)
	ib := w.vertexIndex(b)
	ic := w.vertexIndex(c)
	id := w.vertexIndex(d)
	w.tris = append(w.tris, [3]uint32{ia, ib, ic})
	w.tris = append(w.tris, [3]uint32{ic, ib, id})
}
