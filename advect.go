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

// faceCourants fills cf with n+1 face Courant numbers for a line of n
// cells along ax, where cf[i] belongs to the face below/left of cell i
// and cf[n] to the outer face past the last cell. Horizontal velocity
// lines hold the n−1 interior faces only, so the two outer faces take
// the adjacent interior value for the one-sided edge fluxes. Vertical
// lines hold n faces—each cell's top face—so the ground face is closed
// and the model lid takes the topmost stored value.
func faceCourants(cf []float64, vel line, ax axis) {
	n := len(cf) - 1
	if ax == axisZ {
		cf[0] = 0
		for i := 1; i <= n; i++ {
			cf[i] = vel.at(i - 1)
		}
		return
	}
	cf[0] = vel.at(0)
	for i := 1; i < n; i++ {
		cf[i] = vel.at(i - 1)
	}
	cf[n] = vel.at(n - 2)
}

// lowOrderLine performs one donor-cell pass over a line of n cells
// with face Courant numbers cf (length n+1), reading src and writing
// dst. Interior faces carry the full upwind flux; the two outer faces
// carry only the outgoing part, so the domain edge absorbs or emits
// mass but never invents it.
func lowOrderLine(dst, src, cf []float64, n int) {
	fPrev := donorCellOut(src[0], cf[0], true)
	for i := 0; i < n; i++ {
		var fNext float64
		if i == n-1 {
			fNext = donorCellOut(src[n-1], cf[n], false)
		} else {
			fNext = donorCell(src[i], src[i+1], cf[i+1])
		}
		dst[i] = src[i] - (fNext - fPrev)
		fPrev = fNext
	}
}

// pseudoLine fills ud (length n−1) with the MPDATA antidiffusive
// velocities at the interior faces of a line of n cells, computed from
// the low-order-advected values q and the face Courant numbers cf
// (length n+1, as built by faceCourants). ud[i] corrects the face
// between cells i and i+1:
//
//	ũ = (|u| − u²) (q_r − q_l) / (q_r + q_l)
//
// which is the leading-order error of the donor-cell step recast as a
// velocity (Smolarkiewicz 1984). The outermost stored faces of the
// component are then zeroed: no antidiffusive correction touches a
// domain edge. On vertical lines the last stored face is the model
// lid, which is zeroed separately, so the topmost interior face keeps
// its correction; lid says which convention the line follows.
func pseudoLine(ud, q, cf []float64, n int, lid bool) {
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		ud[i] = pseudoVel(q[i], q[i+1], cf[i+1])
	}
	ud[0] = 0
	if !lid {
		ud[n-2] = 0
	}
}

// lineScratch holds the per-worker buffers for 1-D MPDATA so that
// sweeping many lines allocates nothing per line.
type lineScratch struct {
	qpre, qlo, qnext []float64
	cf, cfc          []float64
	ud               []float64
	lim              fctScratch
}

func newLineScratch(n int) *lineScratch {
	nf := n - 1
	if nf < 0 {
		nf = 0
	}
	return &lineScratch{
		qpre:  make([]float64, n),
		qlo:   make([]float64, n),
		qnext: make([]float64, n),
		cf:    make([]float64, n+1),
		cfc:   make([]float64, n+1),
		ud:    make([]float64, nf),
		lim:   newFCTScratch(n),
	}
}

// mpdataLine advances one line of n cells through a full multi-pass
// MPDATA update and writes the result back through q. The first pass
// is the plain donor-cell step; each further pass applies the
// antidiffusive velocities derived from the current estimate against
// the original face Courant numbers, optionally limited so no new
// extrema appear. The correction passes see zero velocity at the two
// outer faces: domain edges are non-diffusive for corrections.
func mpdataLine(q line, w *lineScratch, ax axis, order int, fct bool) {
	n := q.n
	q.copyTo(w.qpre)
	lowOrderLine(w.qlo, w.qpre, w.cf, n)
	if order == 1 || n < 2 {
		q.copyFrom(w.qlo)
		return
	}
	for pass := 2; pass <= order; pass++ {
		pseudoLine(w.ud, w.qlo, w.cf, n, ax == axisZ)
		if fct {
			pre := w.qpre
			if pass > 2 {
				// After the first correction the working
				// buffers hold the same values, so the
				// envelope collapses onto the current
				// estimate.
				pre = w.qlo
			}
			limitLine(w.ud, pre, w.qlo, n, &w.lim)
		}
		w.cfc[0], w.cfc[n] = 0, 0
		for i := 1; i < n; i++ {
			w.cfc[i] = w.ud[i-1]
		}
		lowOrderLine(w.qnext, w.qlo, w.cfc, n)
		if pass < order {
			copy(w.qlo, w.qnext)
		}
	}
	q.copyFrom(w.qnext)
}

// advectAxis applies full 1-D MPDATA along ax to every line of q,
// using the staggered Courant numbers vel for that axis. Lines are
// independent, so they are swept concurrently.
func advectAxis(q, vel *sparse.DenseArray, ax axis, order int, fct bool, nprocs int) {
	if ax != axisZ && q.Shape[ax.dim()] < 2 {
		// A singleton horizontal axis has no stored faces.
		return
	}
	nlines := lineCount(q, ax)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			w := newLineScratch(q.Shape[ax.dim()])
			for li := pp; li < nlines; li += nprocs {
				ql := lineAt(q, ax, li)
				faceCourants(w.cf, lineAt(vel, ax, li), ax)
				mpdataLine(ql, w, ax, order, fct)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}
