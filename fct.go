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
	"sync"

	"github.com/ctessum/sparse"
)

// epsRatio keeps the limiter ratios defined when a cell's
// antidiffusive inflow or outflow is zero; the ratio then becomes very
// large and the face is left unclamped rather than undefined.
const epsRatio = 1.e-15

// fctScratch holds the per-line work arrays for the flux limiter.
type fctScratch struct {
	qmax, qmin    []float64
	fl, fin, fout []float64
}

func newFCTScratch(n int) fctScratch {
	nf := n - 1
	if nf < 0 {
		nf = 0
	}
	return fctScratch{
		qmax: make([]float64, n),
		qmin: make([]float64, n),
		fl:   make([]float64, nf),
		fin:  make([]float64, n),
		fout: make([]float64, n),
	}
}

// limitLine clips the antidiffusive velocities ud (length n−1, one per
// interior face) along a line of n cells so that applying them cannot
// push any cell outside the envelope of its immediate neighbors in the
// pre-advection field qpre and the low-order field qlo. This is the
// non-oscillatory option of Smolarkiewicz and Grabowski (1990): each
// face flux is scaled by the most restrictive of the downwind cell's
// remaining capacity to gain and the upwind cell's remaining capacity
// to give, and is never amplified. The envelope stencil is three cells
// wide, narrowing to two at the ends of the line, which never reaches
// past the domain edge.
func limitLine(ud, qpre, qlo []float64, n int, w *fctScratch) {
	if n < 2 {
		return
	}
	for c := 0; c < n; c++ {
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
		w.qmax[c] = qmx
		w.qmin[c] = qmn
	}

	for f := 0; f < n-1; f++ {
		w.fl[f] = donorCell(qlo[f], qlo[f+1], ud[f])
	}

	// Total antidiffusive inflow and outflow per cell. Each interior
	// face's contribution is counted toward its downwind cell's inflow
	// and its upwind cell's outflow; the cells at the ends of the line
	// have only one face.
	for c := 0; c < n; c++ {
		var fin, fout float64
		if c > 0 {
			fin += max(0, w.fl[c-1])
			fout -= min(0, w.fl[c-1])
		}
		if c < n-1 {
			fin -= min(0, w.fl[c])
			fout += max(0, w.fl[c])
		}
		w.fin[c] = fin
		w.fout[c] = fout
	}

	for f := 0; f < n-1; f++ {
		var r float64
		switch {
		case ud[f] > 0:
			r = min(1,
				(w.qmax[f+1]-qlo[f+1])/(w.fin[f+1]+epsRatio),
				(qlo[f]-w.qmin[f])/(w.fout[f]+epsRatio))
		case ud[f] < 0:
			r = min(1,
				(w.qmax[f]-qlo[f])/(w.fin[f]+epsRatio),
				(qlo[f+1]-w.qmin[f+1])/(w.fout[f+1]+epsRatio))
		default:
			continue
		}
		ud[f] *= r
	}
}

// limitAxis applies the line limiter along ax to the whole
// pseudo-velocity component pv, with the pre-advection field qpre and
// the low-order field qlo supplying the monotonicity envelope. Lines
// are independent and swept concurrently.
func limitAxis(pv, qpre, qlo *sparse.DenseArray, ax axis, nprocs int) {
	n := qpre.Shape[ax.dim()]
	if n < 2 {
		return
	}
	nlines := lineCount(qpre, ax)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			w := newFCTScratch(n)
			pre := make([]float64, n)
			lo := make([]float64, n)
			ud := make([]float64, n-1)
			for li := pp; li < nlines; li += nprocs {
				lineAt(qpre, ax, li).copyTo(pre)
				lineAt(qlo, ax, li).copyTo(lo)
				uLine := lineAt(pv, ax, li)
				for f := 0; f < n-1; f++ {
					ud[f] = uLine.at(f)
				}
				limitLine(ud, pre, lo, n, &w)
				for f := 0; f < n-1; f++ {
					uLine.set(f, ud[f])
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

func max(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func min(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
