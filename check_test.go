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
	"testing"

	"github.com/ctessum/sparse"
)

func TestCheckPre(t *testing.T) {
	q := sparse.ZerosDense(1, 1, 4)
	q.Elements = []float64{1, 2, 3, 4}
	if got := checkPre(q); got != 0 {
		t.Errorf("clean field: flags = %d, want 0", got)
	}

	q.Elements = []float64{1, -2, 3, 4}
	if got := checkPre(q); got != flagNegPre {
		t.Errorf("negative value: flags = %d, want %d", got, flagNegPre)
	}

	q.Elements = []float64{1, 2, math.NaN(), 4}
	if got := checkPre(q); got != flagNaNPre {
		t.Errorf("NaN value: flags = %d, want %d", got, flagNaNPre)
	}

	q.Elements = []float64{1, -2, math.NaN(), 4}
	if got := checkPre(q); got != flagNegPre+flagNaNPre {
		t.Errorf("negative and NaN: flags = %d, want %d", got, flagNegPre+flagNaNPre)
	}

	// checkPre must never modify the field.
	if q.Elements[1] != -2 {
		t.Errorf("checkPre modified the field: %g", q.Elements[1])
	}
}

func TestCheckPost(t *testing.T) {
	b := DefaultBounds

	q := sparse.ZerosDense(1, 1, 4)
	q.Elements = []float64{1, 2, 3, 4}
	if got := checkPost(q, b); got != 0 {
		t.Errorf("clean field: flags = %d, want 0", got)
	}

	// A roundoff-sized negative raises the flag and is clamped away.
	q.Elements = []float64{1, -1e-13, 3, 4}
	if got := checkPost(q, b); got != flagNegPost {
		t.Errorf("tiny negative: flags = %d, want %d", got, flagNegPost)
	}
	if q.Elements[1] != 0 {
		t.Errorf("tiny negative was not clamped: %g", q.Elements[1])
	}

	// A material negative raises the flag but is kept for inspection.
	q.Elements = []float64{1, -0.5, 3, 4}
	if got := checkPost(q, b); got != flagNegPost {
		t.Errorf("material negative: flags = %d, want %d", got, flagNegPost)
	}
	if q.Elements[1] != -0.5 {
		t.Errorf("material negative was clamped to %g; it should be kept", q.Elements[1])
	}

	q.Elements = []float64{1, 2, 3, 2e3}
	if got := checkPost(q, b); got != flagCeiling {
		t.Errorf("value above ceiling: flags = %d, want %d", got, flagCeiling)
	}

	q.Elements = []float64{1, 2, math.NaN(), 4}
	if got := checkPost(q, b); got != flagNaNPost {
		t.Errorf("NaN value: flags = %d, want %d", got, flagNaNPost)
	}

	q.Elements = []float64{1, -1e-13, 3, 2e3}
	if got := checkPost(q, b); got != flagNegPost+flagCeiling {
		t.Errorf("negative and ceiling: flags = %d, want %d", got, flagNegPost+flagCeiling)
	}
}

// A field that came in with problems and still has them nets out to
// zero, which the driver treats as tolerable.
func TestCheckFlagsCancel(t *testing.T) {
	q := sparse.ZerosDense(1, 1, 2)
	q.Elements = []float64{1, -0.5}

	flags := checkPre(q)
	flags += checkPost(q, DefaultBounds)
	if flags != 0 {
		t.Errorf("persistent negative: flags = %d, want 0", flags)
	}
}
