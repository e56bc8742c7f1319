/*
Copyright © 2019 the MPDATA authors.
This file is part of MPDATA.

MPDATA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MPDATA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MPDATA.  If not, see <http://www.gnu.org/licenses/>.
*/

package mpdata

import "github.com/ctessum/sparse"

// Fields are stored with dimensions ordered (z, y, x), x varying
// fastest. An axis names one of the three physical directions; the
// 1-D advection and limiter kernels are written once against line
// views and parameterized by axis instead of being copied per
// direction.
type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

func (ax axis) String() string {
	switch ax {
	case axisX:
		return "x"
	case axisY:
		return "y"
	case axisZ:
		return "z"
	}
	return "unknown"
}

// dim returns the storage dimension the axis varies along.
func (ax axis) dim() int {
	switch ax {
	case axisX:
		return 2
	case axisY:
		return 1
	}
	return 0
}

// A line is a strided 1-D view into the elements of a 3-D array. It
// aliases the underlying storage, so writes through the view are
// writes to the array.
type line struct {
	data   []float64
	offset int
	stride int
	n      int
}

func (l line) at(i int) float64     { return l.data[l.offset+i*l.stride] }
func (l line) set(i int, v float64) { l.data[l.offset+i*l.stride] = v }

// copyTo copies the line contents into dst, which must have length
// l.n or greater.
func (l line) copyTo(dst []float64) {
	for i := 0; i < l.n; i++ {
		dst[i] = l.at(i)
	}
}

// copyFrom overwrites the line contents with the first l.n values of
// src.
func (l line) copyFrom(src []float64) {
	for i := 0; i < l.n; i++ {
		l.set(i, src[i])
	}
}

// lineCount returns how many 1-D lines arr contains along ax.
func lineCount(arr *sparse.DenseArray, ax axis) int {
	n := 1
	for d, s := range arr.Shape {
		if d != ax.dim() {
			n *= s
		}
	}
	return n
}

// lineAt returns the li'th line of arr along ax. Lines are numbered
// with the lower remaining storage dimension outermost, so the same
// index addresses corresponding lines of arrays whose shapes agree on
// the non-ax dimensions (e.g. a scalar field and the velocity field
// staggered along ax).
func lineAt(arr *sparse.DenseArray, ax axis, li int) line {
	d := ax.dim()
	s2 := 1
	s1 := arr.Shape[2]
	s0 := arr.Shape[1] * arr.Shape[2]
	strides := [3]int{s0, s1, s2}

	var oa, ob int // the two dimensions not varied along, in order
	switch d {
	case 0:
		oa, ob = 1, 2
	case 1:
		oa, ob = 0, 2
	default:
		oa, ob = 0, 1
	}
	ia := li / arr.Shape[ob]
	ib := li % arr.Shape[ob]
	return line{
		data:   arr.Elements,
		offset: ia*strides[oa] + ib*strides[ob],
		stride: strides[d],
		n:      arr.Shape[d],
	}
}
