package dcmesh

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRegionValid(t *testing.T) {
	r := NewRegion(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1}, 2)
	if !r.Valid() {
		t.Error("expected valid region")
	}
	bad := NewRegion(r3.Vec{X: 1}, r3.Vec{X: -1}, 2)
	if bad.Valid() {
		t.Error("expected invalid region")
	}
}

func TestRegionCorner(t *testing.T) {
	r := NewRegion(r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 2, Y: 4, Z: 8}, 1)
	want := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 4, Z: 0},
		{X: 2, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: 8},
		{X: 2, Y: 0, Z: 8},
		{X: 0, Y: 4, Z: 8},
		{X: 2, Y: 4, Z: 8},
	}
	for i, w := range want {
		if got := r.Corner(i); got != w {
			t.Errorf("corner %d: got %v, want %v", i, got, w)
		}
	}
}

func TestRegionIsTerminal(t *testing.T) {
	r := NewRegion(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 0)
	if !r.IsTerminal() {
		t.Error("expected terminal region at subdiv 0")
	}
	r2 := NewRegion(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 1)
	if r2.IsTerminal() {
		t.Error("expected non-terminal region at subdiv 1")
	}
}

func TestRegionSplit(t *testing.T) {
	r := NewRegion(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2}, 3)
	children := r.Split()
	if len(children) != 8 {
		t.Fatalf("got %d children, want 8", len(children))
	}
	for _, c := range children {
		if c.Subdiv[0] != 2 || c.Subdiv[1] != 2 || c.Subdiv[2] != 2 {
			t.Errorf("child subdiv: got %v, want [2 2 2]", c.Subdiv)
		}
		size := r3.Sub(c.Hi, c.Lo)
		if size.X != 1 || size.Y != 1 || size.Z != 1 {
			t.Errorf("child size: got %v, want (1,1,1)", size)
		}
	}
	c7 := children[7]
	if c7.Lo != (r3.Vec{X: 1, Y: 1, Z: 1}) || c7.Hi != (r3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Errorf("child 7 bounds: got [%v, %v]", c7.Lo, c7.Hi)
	}
}

func TestRegionSplitExhaustedAxis(t *testing.T) {
	r := NewRegion3(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2}, [3]int{1, 0, 1})
	children := r.Split()
	for _, c := range children {
		if c.Lo.Y != 0 || c.Hi.Y != 2 {
			t.Errorf("exhausted Y axis should stay unsplit: got lo=%v hi=%v", c.Lo.Y, c.Hi.Y)
		}
		if c.Subdiv[1] != 0 {
			t.Errorf("exhausted axis subdiv should stay 0: got %d", c.Subdiv[1])
		}
	}
}
