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

// upwind3 applies one low-order donor-cell pass over the whole grid
// using all three staggered Courant-number components at once, reading
// src and writing dst. The two x-edge slabs are copied through
// unchanged; y-edge rows exchange one-sided fluxes with the domain
// edge; in z the ground is closed and the model lid passes only the
// outgoing part of the flux, so no diffusive term returns through the
// top. All fluxes are computed from src, never from partially-updated
// values, and the slabs written by different workers never overlap.
func upwind3(dst, src, cu, cv, cw *sparse.DenseArray, nprocs int) {
	nz, ny, nx := src.Shape[0], src.Shape[1], src.Shape[2]
	sy := nx      // stride between adjacent j at fixed k,i
	sz := ny * nx // stride between adjacent k at fixed j,i
	syv := nx     // j stride of the v array (staggered in y)

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for k := pp; k < nz; k += nprocs {
				for j := 0; j < ny; j++ {
					idx := (k*ny + j) * nx
					iu := (k*ny + j) * (nx - 1)
					iv := (k*(ny-1) + j) * nx
					for i := 0; i < nx; i++ {
						q := src.Elements[idx+i]
						if i == 0 || i == nx-1 {
							dst.Elements[idx+i] = q
							continue
						}

						fxl := donorCell(src.Elements[idx+i-1], q, cu.Elements[iu+i-1])
						fxh := donorCell(q, src.Elements[idx+i+1], cu.Elements[iu+i])

						var fyl, fyh float64
						if ny > 1 {
							if j == 0 {
								fyl = donorCellOut(q, cv.Elements[iv+i], true)
							} else {
								fyl = donorCell(src.Elements[idx+i-sy], q, cv.Elements[iv+i-syv])
							}
							if j == ny-1 {
								fyh = donorCellOut(q, cv.Elements[iv+i-syv], false)
							} else {
								fyh = donorCell(q, src.Elements[idx+i+sy], cv.Elements[iv+i])
							}
						}

						var fzl, fzh float64
						if k > 0 {
							fzl = donorCell(src.Elements[idx+i-sz], q, cw.Elements[idx+i-sz])
						}
						if k == nz-1 {
							fzh = donorCellOut(q, cw.Elements[idx+i], false)
						} else {
							fzh = donorCell(q, src.Elements[idx+i+sz], cw.Elements[idx+i])
						}

						dst.Elements[idx+i] = q - (fxh - fxl) - (fyh - fyl) - (fzh - fzl)
					}
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}
