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

// splitOrders lists the axis orders of the dimensional-split sweeps.
// The order rotates every timestep so no axis is permanently favored
// by the splitting error.
var splitOrders = [3][3]axis{
	{axisX, axisY, axisZ},
	{axisY, axisZ, axisX},
	{axisZ, axisX, axisY},
}

// splitAdvect advances one scalar field by a full timestep as three
// sequential 1-D MPDATA sweeps, one per axis, in the order selected by
// the solver's rotation counter. Each sweep runs the complete
// multi-pass scheme along its axis before the next begins. This is the
// older formulation of the step; the unsplit 3-D passes in advect are
// the default.
func (s *Solver) splitAdvect(q *sparse.DenseArray) {
	for _, ax := range splitOrders[s.rotation] {
		var vel *sparse.DenseArray
		switch ax {
		case axisX:
			vel = s.cu
		case axisY:
			vel = s.cv
		default:
			vel = s.cw
		}
		advectAxis(q, vel, ax, s.config.Order, s.config.FCT, s.nprocs)
		if s.config.BoundaryBuffer && ax != axisZ {
			smoothBoundary(q, ax, s.nprocs)
		}
	}
}

// smoothBoundary applies one diffusive exchange between the outermost
// pair of cells at each end of every line along ax. Split sweeping
// feeds each axis the edge values the previous sweep produced with
// one-sided fluxes, which can leave small-scale noise in the outermost
// cells; the exchange damps it without adding or removing mass. The
// vertical axis is never smoothed: the ground and the lid are physical
// boundaries, not inflow edges.
func smoothBoundary(q *sparse.DenseArray, ax axis, nprocs int) {
	const w = 0.25
	if q.Shape[ax.dim()] < 2 {
		return
	}
	nlines := lineCount(q, ax)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for li := pp; li < nlines; li += nprocs {
				ql := lineAt(q, ax, li)
				n := ql.n
				f := w * (ql.at(1) - ql.at(0))
				ql.set(0, ql.at(0)+f)
				ql.set(1, ql.at(1)-f)
				if n > 2 {
					f = w * (ql.at(n-2) - ql.at(n-1))
					ql.set(n-1, ql.at(n-1)+f)
					ql.set(n-2, ql.at(n-2)-f)
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}
