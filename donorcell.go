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

import "math"

// donorCell returns the first-order upwind flux through the face
// between a left cell holding l and a right cell holding r, where U is
// the Courant number at the face (positive toward the right cell).
// The form ((U+|U|)l + (U−|U|)r)/2 selects the upwind value without
// branching, so it behaves uniformly whether applied to one face or
// mapped over a whole array.
func donorCell(l, r, U float64) float64 {
	return ((U+math.Abs(U))*l + (U-math.Abs(U))*r) / 2
}

// donorCellOut returns only the outgoing part of the donor-cell flux
// at a domain-edge face: mass may leave through the edge at the
// one-sided rate the upwind formula gives it, but nothing returns
// because no data exists outside the domain. lowEdge selects the
// low-index (left/south/bottom) edge, where outflow is carried by
// negative velocity; the high edge mirrors it.
func donorCellOut(q, U float64, lowEdge bool) float64 {
	if lowEdge {
		return math.Min(U, 0) * q
	}
	return math.Max(U, 0) * q
}
