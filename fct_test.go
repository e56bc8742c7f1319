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

func limiterTestLine() (qpre, qlo, ud []float64) {
	qpre = []float64{0, 0, 1, 4, 9, 7, 2, 0.5, 0, 0}
	qlo = []float64{0, 0.3, 1.5, 4.5, 7, 6, 2.5, 0.8, 0.1, 0}
	ud = []float64{0.2, -0.15, 0.25, 0.24, -0.2, 0.1, 0.22, -0.12, 0.05}
	return
}

// The limiter may shrink an antidiffusive velocity or zero it, but
// never grow it or flip its sign.
func TestLimitLineNeverAmplifies(t *testing.T) {
	qpre, qlo, ud := limiterTestLine()
	n := len(qlo)
	ud0 := make([]float64, len(ud))
	copy(ud0, ud)

	w := newFCTScratch(n)
	limitLine(ud, qpre, qlo, n, &w)

	for f := range ud {
		if math.Abs(ud[f]) > math.Abs(ud0[f]) {
			t.Errorf("face %d: |%g| grew past |%g|", f, ud[f], ud0[f])
		}
		if ud[f]*ud0[f] < 0 {
			t.Errorf("face %d: sign flipped from %g to %g", f, ud0[f], ud[f])
		}
	}
}

// Applying the limited fluxes must keep every cell inside the envelope
// of its neighborhood in the pre-advection and low-order fields. This
// is the property the limiter exists to enforce.
func TestLimitLineKeepsEnvelope(t *testing.T) {
	const testTolerance = 1.e-12

	qpre, qlo, ud := limiterTestLine()
	n := len(qlo)

	w := newFCTScratch(n)
	limitLine(ud, qpre, qlo, n, &w)

	fl := make([]float64, n-1)
	for f := 0; f < n-1; f++ {
		fl[f] = donorCell(qlo[f], qlo[f+1], ud[f])
	}
	for c := 0; c < n; c++ {
		dst := qlo[c]
		if c < n-1 {
			dst -= fl[c]
		}
		if c > 0 {
			dst += fl[c-1]
		}

		lo, hi := c-1, c+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		qmx, qmn := qlo[c], qlo[c]
		for i := lo; i <= hi; i++ {
			qmx = max(qmx, qlo[i], qpre[i])
			qmn = min(qmn, qlo[i], qpre[i])
		}
		if dst > qmx+testTolerance || dst < qmn-testTolerance {
			t.Errorf("cell %d: %g is outside its envelope [%g, %g]", c, dst, qmn, qmx)
		}
	}
}

// A uniform field has no room for corrections in any direction; every
// antidiffusive velocity must come back exactly zero.
func TestLimitLineUniformField(t *testing.T) {
	n := 8
	qpre := make([]float64, n)
	qlo := make([]float64, n)
	for i := 0; i < n; i++ {
		qpre[i], qlo[i] = 2, 2
	}
	ud := []float64{0.1, -0.2, 0.25, 0.1, -0.1, 0.2, 0.15}

	w := newFCTScratch(n)
	limitLine(ud, qpre, qlo, n, &w)

	for f, v := range ud {
		if v != 0 {
			t.Errorf("face %d = %g; a uniform field admits no corrections", f, v)
		}
	}
}

// limitAxis limits each line exactly the way limitLine does, and on
// the vertical axis it leaves the lid face alone.
func TestLimitAxis(t *testing.T) {
	const nz, ny, nx = 3, 2, 4
	const lidSentinel = 0.77

	qpre := sparse.ZerosDense(nz, ny, nx)
	qlo := sparse.ZerosDense(nz, ny, nx)
	for i := range qpre.Elements {
		qpre.Elements[i] = 1 + 0.3*float64(i%7)
		qlo.Elements[i] = 1 + 0.25*float64((i+3)%7)
	}

	pw := sparse.ZerosDense(nz, ny, nx)
	for i := range pw.Elements {
		pw.Elements[i] = 0.2
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			pw.Set(lidSentinel, nz-1, j, i)
		}
	}

	limitAxis(pw, qpre, qlo, axisZ, 2)

	pre := make([]float64, nz)
	lo := make([]float64, nz)
	ud := make([]float64, nz-1)
	w := newFCTScratch(nz)
	for li := 0; li < lineCount(qpre, axisZ); li++ {
		lineAt(qpre, axisZ, li).copyTo(pre)
		lineAt(qlo, axisZ, li).copyTo(lo)
		for f := 0; f < nz-1; f++ {
			ud[f] = 0.2
		}
		limitLine(ud, pre, lo, nz, &w)

		got := lineAt(pw, axisZ, li)
		for f := 0; f < nz-1; f++ {
			if got.at(f) != ud[f] {
				t.Errorf("line %d face %d: got %g, want %g", li, f, got.at(f), ud[f])
			}
		}
		if got.at(nz-1) != lidSentinel {
			t.Errorf("line %d: lid face = %g; limitAxis should not touch it", li, got.at(nz-1))
		}
	}
}

func TestMinMax(t *testing.T) {
	if got := max(1, 5, 3); got != 5 {
		t.Errorf("max(1,5,3) = %g", got)
	}
	if got := min(2, -1, 0); got != -1 {
		t.Errorf("min(2,-1,0) = %g", got)
	}
	if got := max(-7); got != -7 {
		t.Errorf("max(-7) = %g", got)
	}
}
