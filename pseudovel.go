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
	"sync"

	"github.com/ctessum/sparse"
)

// epsDenom guards denominators formed as sums of neighboring cell
// values, which are legitimately zero wherever a transported scalar
// vanishes over a whole stencil.
const epsDenom = 1.e-10

// pseudoVel returns the MPDATA antidiffusive velocity at a face with
// Courant number u separating cells holding l and r. The denominator
// l+r is floored at epsDenom so faces between empty cells yield zero
// correction instead of NaN.
func pseudoVel(l, r, u float64) float64 {
	den := r + l
	if den < epsDenom {
		den = epsDenom
	}
	return (math.Abs(u) - u*u) * (r - l) / den
}

// pseudoVelocities fills the three antidiffusive velocity components
// pu, pv, pw from the low-order-advected field qlo and the original
// Courant components cu, cv, cw. The first and last stored face of
// each component is zeroed, including the model lid in pw, so
// corrections never touch a domain edge. Every face depends only on
// its two adjacent cells, so planes are computed concurrently.
func pseudoVelocities(pu, pv, pw, qlo, cu, cv, cw *sparse.DenseArray, nprocs int) {
	nz, ny, nx := qlo.Shape[0], qlo.Shape[1], qlo.Shape[2]
	sz := ny * nx

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for k := pp; k < nz; k += nprocs {
				for j := 0; j < ny; j++ {
					idx := (k*ny + j) * nx
					iu := (k*ny + j) * (nx - 1)
					for f := 0; f < nx-1; f++ {
						if f == 0 || f == nx-2 {
							pu.Elements[iu+f] = 0
							continue
						}
						pu.Elements[iu+f] = pseudoVel(
							qlo.Elements[idx+f], qlo.Elements[idx+f+1], cu.Elements[iu+f])
					}
				}
				for jf := 0; jf < ny-1; jf++ {
					idx := (k*ny + jf) * nx
					iv := (k*(ny-1) + jf) * nx
					for i := 0; i < nx; i++ {
						if jf == 0 || jf == ny-2 {
							pv.Elements[iv+i] = 0
							continue
						}
						pv.Elements[iv+i] = pseudoVel(
							qlo.Elements[idx+i], qlo.Elements[idx+i+nx], cv.Elements[iv+i])
					}
				}
				for j := 0; j < ny; j++ {
					idx := (k*ny + j) * nx
					for i := 0; i < nx; i++ {
						if k == 0 || k == nz-1 {
							pw.Elements[idx+i] = 0
							continue
						}
						pw.Elements[idx+i] = pseudoVel(
							qlo.Elements[idx+i], qlo.Elements[idx+i+sz], cw.Elements[idx+i])
					}
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}
