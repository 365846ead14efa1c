// Package render writes a dcmesh.Mesh out as a binary STL file.
//
// Adapted line-for-line in idiom from the teacher's render/stl.go: same
// header layout, same 50-byte little-endian stlTriangle record, same
// NaN/Inf guard via chewxy/math32. The only real change is the triangle
// source: the teacher streams triangle soup off a Renderer; here the mesh
// is already indexed in memory, so each facet is expanded from its three
// vertex indices at write time.
package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/soypat/dcmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// WriteSTL writes m's triangles to w in binary STL format, one facet per
// entry of m.Triangles with its normal computed from the right-hand winding
// of the three referenced vertices.
func WriteSTL(w io.Writer, m dcmesh.Mesh) error {
	if len(m.Triangles) == 0 {
		return errors.New("dcmesh/render: empty mesh")
	}
	header := stlHeader{Count: uint32(len(m.Triangles))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var d stlTriangle
	var b [50]byte
	for _, tri := range m.Triangles {
		v0, v1, v2 := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		n := r3.Unit(r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0)))
		d.Normal = to3F32(n)
		d.Vertex1 = to3F32(v0)
		d.Vertex2 = to3F32(v1)
		d.Vertex3 = to3F32(v2)
		if bad3F32(d.Normal) || bad3F32(d.Vertex1) || bad3F32(d.Vertex2) || bad3F32(d.Vertex3) {
			return errors.New("dcmesh/render: NaN/Inf in mesh triangle")
		}
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// CreateSTL creates path and writes m to it in binary STL format.
func CreateSTL(path string, m dcmesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSTL(f, m)
}

// ReadSTL parses a binary STL stream back into a non-indexed triangle list
// (three fresh vertices per facet; STL carries no sharing information).
func ReadSTL(r io.Reader) (dcmesh.Mesh, error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return dcmesh.Mesh{}, err
	}
	if header.Count == 0 {
		return dcmesh.Mesh{}, errors.New("dcmesh/render: STL header indicates 0 triangles")
	}
	m := dcmesh.Mesh{
		Vertices:  make([]r3.Vec, 0, 3*header.Count),
		Triangles: make([][3]uint32, 0, header.Count),
	}
	var buf [50]byte
	var d stlTriangle
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return dcmesh.Mesh{}, err
		}
		d.get(buf[:])
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, r3From3F32(d.Vertex1), r3From3F32(d.Vertex2), r3From3F32(d.Vertex3))
		m.Triangles = append(m.Triangles, [3]uint32{base, base + 1, base + 2})
	}
	return m, nil
}

// roundTripBuffer is a convenience used by tests to exercise WriteSTL then
// ReadSTL without touching the filesystem.
func roundTripBuffer(m dcmesh.Mesh) (dcmesh.Mesh, error) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		return dcmesh.Mesh{}, err
	}
	return ReadSTL(&buf)
}
