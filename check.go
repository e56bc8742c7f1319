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

import (
	"math"

	"github.com/ctessum/sparse"
)

// Sanity-check flags. Each independent problem contributes its value
// once per scalar-field call; the sum distinguishes conditions that
// appeared during advection (positive, fatal) from those that were
// already present in the input (negative, informational). A field
// that came in with negatives and still has them after the update
// sums to zero and is let through.
const (
	flagNegPre  = -1
	flagNegPost = 1
	flagCeiling = 2
	flagNaNPre  = -4
	flagNaNPost = 4
)

// checkPre scans q before advection and reports pre-existing
// negatives and NaNs. It never modifies the field.
func checkPre(q *sparse.DenseArray) int {
	var neg, nan bool
	for _, v := range q.Elements {
		if v < 0 {
			neg = true
		}
		if math.IsNaN(v) {
			nan = true
		}
	}
	flags := 0
	if neg {
		flags += flagNegPre
	}
	if nan {
		flags += flagNaNPre
	}
	return flags
}

// checkPost scans q after advection, clamping negatives smaller in
// magnitude than b.NegTol to zero. Negatives of any size, values
// above b.Ceiling, and NaNs each raise their flag. Materially
// negative values are left in place so a failed run can be inspected.
func checkPost(q *sparse.DenseArray, b Bounds) int {
	var neg, big, nan bool
	for i, v := range q.Elements {
		switch {
		case math.IsNaN(v):
			nan = true
		case v < 0:
			neg = true
			if v > -b.NegTol {
				q.Elements[i] = 0
			}
		case v > b.Ceiling:
			big = true
		}
	}
	flags := 0
	if neg {
		flags += flagNegPost
	}
	if big {
		flags += flagCeiling
	}
	if nan {
		flags += flagNaNPost
	}
	return flags
}
