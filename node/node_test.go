// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"fmt"
	"math"
	"testing"

	"github.com/gviegas/orrery/linear"
)

// fmt.Stringer for testing only.
func (n *Node) String() string {
	const s = `
(%5s) <-> (%5s) <-> (%5s)
               |
               v
            (%5s)
`
	nd := [4]*Node{n.prev, n, n.next, n.sub}
	nm := [4]string{}
	for i := range nd {
		if nd[i] != nil {
			nm[i] = nd[i].Name
		} else {
			nm[i] = "<nil>"
		}
	}
	return fmt.Sprintf(s, nm[0], nm[1], nm[2], nm[3])
}

// logGraph outputs the scene graph whose root is n.
func (n *Node) logGraph(t *testing.T) {
	s := n.String()
	n.ForEach(func(n *Node) bool {
		s += n.String()
		return true
	})
	t.Log(s)
}

// testInsert calls n.Insert and checks that it works
// as expected.
func (n *Node) testInsert(sub *Node, t *testing.T) {
	n.Insert(sub)
	if n.sub != sub {
		t.Fatalf("n.Insert: n.sub\nhave %p\nwant %p\n%v", n.sub, sub, n)
	}
	if sub.prev != n {
		t.Fatalf("n.Insert: sub.prev\nhave %p\nwant %p\n%v", sub.prev, n, sub)
	}
	if p := sub.Parent(); p != n {
		t.Fatalf("n.Insert: sub.Parent()\nhave %p\nwant %p\n%v", p, n, sub)
	}
}

// testRemove calls n.Remove and checks that it works
// as expected.
func (n *Node) testRemove(t *testing.T) {
	var anc, sub *Node
	if x := n.prev; x != nil && n == x.sub {
		anc = x
		sub = n.next
	}
	n.Remove()
	if n.next != nil {
		t.Fatalf("n.Remove: n.next\nhave %p\nwant nil\n%v", n.next, n)
	}
	if n.prev != nil {
		t.Fatalf("n.Remove: n.prev\nhave %p\nwant nil\n%v", n.prev, n)
	}
	if anc != nil && anc.sub != sub {
		t.Fatalf("n.Remove: anc.sub\nhave %p\nwant %p\n%v", anc.sub, sub, anc)
	}
	if p := n.Parent(); p != nil {
		t.Fatalf("n.Remove: n.Parent()\nhave %p\nwant nil", p)
	}
}

func TestNode(t *testing.T) {
	n1 := New("n1")
	n2 := New("n2")
	n3 := New("n3")
	n4 := New("n4")
	n5 := New("n5")

	n1.testInsert(n2, t)
	n1.testInsert(n3, t)
	n1.testInsert(n4, t)
	n3.testInsert(n5, t)
	n1.logGraph(t)
	if x := n1.Len(); x != 4 {
		t.Fatalf("n1.Len\nhave %d\nwant 4", x)
	}
	if x := n2.Parent(); x != n1 {
		t.Fatalf("n2.Parent\nhave %v\nwant n1", x)
	}
	if x := n5.Parent(); x != n3 {
		t.Fatalf("n5.Parent\nhave %v\nwant n3", x)
	}
	n2.testRemove(t)
	n3.testRemove(t)
	n1.testRemove(t)
	n5.testRemove(t)
	n4.testRemove(t)
	if x := n1.Len(); x != 0 {
		t.Fatalf("n1.Len\nhave %d\nwant 0", x)
	}

	n5.testInsert(n4, t)
	n4.testInsert(n3, t)
	n3.testInsert(n2, t)
	n2.testInsert(n1, t)
	n5.logGraph(t)
	if x := n5.Len(); x != 4 {
		t.Fatalf("n5.Len\nhave %d\nwant 4", x)
	}
	n1.testRemove(t)
	n2.testRemove(t)
	n3.testRemove(t)
	n4.testRemove(t)

	n1.testInsert(n2, t)
	n2.testInsert(n3, t)
	n1.testInsert(n2, t)
	n1.testInsert(n3, t)
	n1.logGraph(t)
	if x := n2.Len(); x != 0 {
		t.Fatalf("n2.Len\nhave %d\nwant 0", x)
	}
}

func TestForEach(t *testing.T) {
	root := New("root")
	a, b, c := New("a"), New("b"), New("c")
	root.Insert(a)
	root.Insert(b)
	b.Insert(c)

	// Ancestors first; siblings in reverse order of
	// insertion.
	var seen []string
	root.ForEach(func(n *Node) bool {
		seen = append(seen, n.Name)
		return true
	})
	if fmt.Sprint(seen) != "[b a c]" {
		t.Fatalf("ForEach\nhave %v\nwant [b a c]", seen)
	}

	seen = seen[:0]
	root.ForEach(func(n *Node) bool {
		seen = append(seen, n.Name)
		return false
	})
	if len(seen) != 1 {
		t.Fatalf("ForEach: early return\nhave %v\nwant [b]", seen)
	}

	if x := root.Find("c"); x != c {
		t.Fatalf("Find(\"c\")\nhave %v\nwant %v", x, c)
	}
	if x := root.Find("d"); x != nil {
		t.Fatalf("Find(\"d\")\nhave %v\nwant nil", x)
	}
}

func TestWorld(t *testing.T) {
	root := New("root")
	planet := New("planet")
	ring := New("ring")
	root.Insert(planet)
	planet.Insert(ring)

	planet.Transform.Position = linear.V3{40, 0, 0}
	planet.Transform.Rotation[1] = math.Pi / 2
	ring.Transform.Position = linear.V3{0, 0, 1}

	// The ring's offset is rotated by the planet's
	// rotation and then translated by its position.
	p := ring.WorldPosition()
	want := linear.V3{41, 0, 0}
	for i := range p {
		if math.Abs(float64(p[i]-want[i])) > 1e-5 {
			t.Fatalf("ring.WorldPosition\nhave %v\nwant %v", p, want)
		}
	}

	if p := root.WorldPosition(); p != (linear.V3{}) {
		t.Fatalf("root.WorldPosition\nhave %v\nwant [0 0 0]", p)
	}

	planet.Transform.Scale = linear.V3{2, 2, 2}
	p = ring.WorldPosition()
	want = linear.V3{42, 0, 0}
	for i := range p {
		if math.Abs(float64(p[i]-want[i])) > 1e-5 {
			t.Fatalf("ring.WorldPosition (scaled)\nhave %v\nwant %v", p, want)
		}
	}
}

func TestTransformM4(t *testing.T) {
	for _, rot := range [...]linear.V3{
		{},
		{math.Pi / 2, 0, 0},
		{0, 1.25, 0},
		{0.3, -2, 0.7},
		{math.Pi / 2, 5.5, -1},
	} {
		tr := Transform{
			Position: linear.V3{-3, 4, 40},
			Rotation: rot,
			Scale:    linear.V3{2, 1, 0.5},
		}
		var want, r, x linear.M4
		want.Translate(&tr.Position)
		r.RotateX(rot[0])
		x.RotateY(rot[1])
		r.Mul(&r, &x)
		x.RotateZ(rot[2])
		r.Mul(&r, &x)
		want.Mul(&want, &r)
		x.Scale(&tr.Scale)
		want.Mul(&want, &x)

		m := tr.M4()
		for i := range m {
			for j := range m[i] {
				if math.Abs(float64(m[i][j]-want[i][j])) > 1e-5 {
					t.Fatalf("Transform.M4 (rotation %v)\nhave %v\nwant %v", rot, m, want)
				}
			}
		}
	}
}
