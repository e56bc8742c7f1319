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

// Package mpdata implements the Multidimensional Positive Definite
// Advection Transport Algorithm (MPDATA; Smolarkiewicz 1984) with the
// optional non-oscillatory flux-corrected transport limiter of
// Smolarkiewicz and Grabowski (1990) for scalar transport on a 3-D
// staggered grid. It advances mixing ratios, potential temperature,
// and hydrometeor number concentrations through one simulation
// timestep at a time, keeping the fields non-negative and free of
// spurious new extrema.
package mpdata

// Version gives the version number.
const Version = "0.1.0"
