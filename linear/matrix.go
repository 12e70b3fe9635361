// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	var n M3
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	t := *n
	for i := range m {
		for j := range m {
			m[i][j] = t[j][i]
		}
	}
}

// FromM4 sets m to contain the upper-left 3x3 of n.
func (m *M3) FromM4(n *M4) {
	for i := range m {
		m[i] = V3{n[i][0], n[i][1], n[i][2]}
	}
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	t := *n
	for i := range m {
		for j := range m {
			m[i][j] = t[j][i]
		}
	}
}

// Translate sets m to contain a translation by v.
func (m *M4) Translate(v *V3) {
	m.I()
	m[3] = V4{v[0], v[1], v[2], 1}
}

// Scale sets m to contain a scale by v.
func (m *M4) Scale(v *V3) {
	*m = M4{{v[0]}, {0, v[1]}, {0, 0, v[2]}, {0, 0, 0, 1}}
}

// RotateX sets m to contain a rotation of a radians
// about the x axis.
func (m *M4) RotateX(a float32) {
	s, c := math32.Sincos(a)
	*m = M4{{1}, {0, c, s}, {0, -s, c}, {0, 0, 0, 1}}
}

// RotateY sets m to contain a rotation of a radians
// about the y axis.
func (m *M4) RotateY(a float32) {
	s, c := math32.Sincos(a)
	*m = M4{{c, 0, -s}, {0, 1}, {s, 0, c}, {0, 0, 0, 1}}
}

// RotateZ sets m to contain a rotation of a radians
// about the z axis.
func (m *M4) RotateZ(a float32) {
	s, c := math32.Sincos(a)
	*m = M4{{c, s}, {-s, c}, {0, 0, 1}, {0, 0, 0, 1}}
}

// LookAt sets m to contain a right-handed view
// transform from eye towards center.
// eye and center must differ and up must not be
// parallel to center - eye.
func (m *M4) LookAt(eye, center, up *V3) {
	var f, s, u V3
	f.Sub(center, eye)
	f.Norm(&f)
	s.Cross(&f, up)
	s.Norm(&s)
	u.Cross(&s, &f)
	*m = M4{
		{s[0], u[0], -f[0], 0},
		{s[1], u[1], -f[1], 0},
		{s[2], u[2], -f[2], 0},
		{-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1},
	}
}

// Perspective sets m to contain a right-handed
// perspective projection with depth in [-1, 1].
// yfov is in radians.
func (m *M4) Perspective(yfov, aspect, znear, zfar float32) {
	ct := 1 / math32.Tan(yfov*0.5)
	nf := 1 / (znear - zfar)
	*m = M4{
		{ct / aspect},
		{0, ct},
		{0, 0, (zfar + znear) * nf, -1},
		{0, 0, 2 * zfar * znear * nf, 0},
	}
}

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	t := *n
	m[0][0] = (c5*t[1][1] - c4*t[1][2] + c3*t[1][3]) * idet
	m[0][1] = (-c5*t[0][1] + c4*t[0][2] - c3*t[0][3]) * idet
	m[0][2] = (s5*t[3][1] - s4*t[3][2] + s3*t[3][3]) * idet
	m[0][3] = (-s5*t[2][1] + s4*t[2][2] - s3*t[2][3]) * idet
	m[1][0] = (-c5*t[1][0] + c2*t[1][2] - c1*t[1][3]) * idet
	m[1][1] = (c5*t[0][0] - c2*t[0][2] + c1*t[0][3]) * idet
	m[1][2] = (-s5*t[3][0] + s2*t[3][2] - s1*t[3][3]) * idet
	m[1][3] = (s5*t[2][0] - s2*t[2][2] + s1*t[2][3]) * idet
	m[2][0] = (c4*t[1][0] - c2*t[1][1] + c0*t[1][3]) * idet
	m[2][1] = (-c4*t[0][0] + c2*t[0][1] - c0*t[0][3]) * idet
	m[2][2] = (s4*t[3][0] - s2*t[3][1] + s0*t[3][3]) * idet
	m[2][3] = (-s4*t[2][0] + s2*t[2][1] - s0*t[2][3]) * idet
	m[3][0] = (-c3*t[1][0] + c1*t[1][1] - c0*t[1][2]) * idet
	m[3][1] = (c3*t[0][0] - c1*t[0][1] + c0*t[0][2]) * idet
	m[3][2] = (-s3*t[3][0] + s1*t[3][1] - s0*t[3][2]) * idet
	m[3][3] = (s3*t[2][0] - s1*t[2][1] + s0*t[2][2]) * idet
}
