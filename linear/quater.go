// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Rotate sets q to contain a rotation of a radians
// about axis.
// axis must be normalized.
func (q *Q) Rotate(a float32, axis *V3) {
	s, c := math32.Sincos(a * 0.5)
	q.V.Scale(s, axis)
	q.R = c
}

// M4 sets m to contain the rotation that q represents.
// q must be a unit quaternion.
func (q *Q) M4(m *M4) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	*m = M4{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0},
		{2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0},
		{2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}
}
