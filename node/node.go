// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package node provides the elements of the scene graph.
package node

import (
	"github.com/gviegas/orrery/linear"
)

// Transform is the local transform of a node.
// Rotation holds Euler angles, in radians, applied
// in XYZ order.
type Transform struct {
	Position linear.V3
	Rotation linear.V3
	Scale    linear.V3
}

// M4 returns the T ⋅ R ⋅ S matrix that t represents.
// R is built from the rotations about x, y and z,
// composed in that order.
func (t *Transform) M4() (m linear.M4) {
	var q, x linear.Q
	q.Rotate(t.Rotation[0], &linear.V3{1, 0, 0})
	x.Rotate(t.Rotation[1], &linear.V3{0, 1, 0})
	q.Mul(&q, &x)
	x.Rotate(t.Rotation[2], &linear.V3{0, 0, 1})
	q.Mul(&q, &x)
	var r, s linear.M4
	q.M4(&r)
	m.Translate(&t.Position)
	m.Mul(&m, &r)
	s.Scale(&t.Scale)
	m.Mul(&m, &s)
	return
}

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants.
type Node struct {
	next *Node
	prev *Node
	sub  *Node

	// Name for the node.
	// It is not used by node code other than Find.
	Name string

	// Transform is the node's local transform.
	Transform Transform

	// Data is an arbitrary value attached by
	// the scene package (mesh, material, light).
	Data any
}

// New creates an initialized node.
func New(name string) *Node { return new(Node).Init(name) }

// Init initializes node n.
// It sets an identity Transform.
func (n *Node) Init(name string) *Node {
	n.Name = name
	n.Transform = Transform{Scale: linear.V3{1, 1, 1}}
	return n
}

// Insert inserts node sub as immediate descendant
// of node n.
// sub must be either a descendant of n or part of
// an unrelated graph - it must not be an ancestor
// of node n.
func (n *Node) Insert(sub *Node) {
	sub.Remove()
	sub.next = n.sub
	sub.prev = n
	if n.sub != nil {
		n.sub.prev = sub
	}
	n.sub = sub
}

// Remove removes node n from its immediate ancestor.
func (n *Node) Remove() {
	// Node.prev is only nil when the node has no
	// ancestors, since the prev field of the first
	// immediate descendant refers to its ancestor.
	if n.prev != nil {
		if n.prev.sub == n {
			n.prev.sub = n.next
		} else {
			n.prev.next = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
		n.prev = nil
		n.next = nil
	}
}

// Parent returns the immediate ancestor of n, or nil
// if n is a root.
func (n *Node) Parent() *Node {
	for x := n; x.prev != nil; x = x.prev {
		if x.prev.sub == x {
			return x.prev
		}
	}
	return nil
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// ForEach returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node) bool) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Len returns the number of descendants of n.
func (n *Node) Len() (cnt int) {
	n.ForEach(func(*Node) bool { cnt++; return true })
	return
}

// Find returns the first descendant of n whose
// name is name, or nil if there is none.
func (n *Node) Find(name string) (found *Node) {
	n.ForEach(func(nd *Node) bool {
		if nd.Name == name {
			found = nd
			return false
		}
		return true
	})
	return
}

// Local returns the local transform of n as a matrix.
func (n *Node) Local() linear.M4 { return n.Transform.M4() }

// World returns the world transform of n, that is,
// the product of the local transforms of every
// ancestor of n and of n itself.
func (n *Node) World() linear.M4 {
	m := n.Local()
	for x := n.Parent(); x != nil; x = x.Parent() {
		l := x.Local()
		m.Mul(&l, &m)
	}
	return m
}

// WorldPosition returns the origin of n in world space.
func (n *Node) WorldPosition() linear.V3 {
	m := n.World()
	return m[3].XYZ()
}
