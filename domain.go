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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Indexes into Domain.Scalars for the transported fields.
const (
	IQv    = iota // water vapor mixing ratio
	IQc           // cloud water mixing ratio
	IQr           // rain mixing ratio
	IQs           // snow mixing ratio
	ITheta        // potential temperature
	IQi           // cloud ice mixing ratio
	IQg           // graupel mixing ratio
	INi           // cloud ice number concentration
	INr           // rain number concentration

	nScalars
)

var scalarNames = []string{"qv", "qc", "qr", "qs", "theta", "qi", "qg", "ni", "nr"}

var scalarDescs = []string{
	"water vapor mixing ratio",
	"cloud water mixing ratio",
	"rain mixing ratio",
	"snow mixing ratio",
	"potential temperature",
	"cloud ice mixing ratio",
	"graupel mixing ratio",
	"cloud ice number concentration",
	"rain number concentration",
}

var scalarUnits = []string{
	"kg kg-1", "kg kg-1", "kg kg-1", "kg kg-1", "K",
	"kg kg-1", "kg kg-1", "kg-1", "kg-1",
}

// Domain holds the model state the advection engine operates on.
// Arrays are dimensioned (z, y, x) with x varying fastest. The wind
// components are staggered: U lives on the faces between
// x-neighboring cells, V on the faces between y-neighboring cells,
// and W[k] on the top face of layer k, so W's topmost entry is the
// model lid and the ground face below layer 0 is closed.
type Domain struct {
	Nx, Ny, Nz int

	// Dx is the horizontal grid spacing [m], uniform and equal in x
	// and y.
	Dx float64

	// Dz holds the layer thicknesses [m], shape (nz).
	Dz *sparse.DenseArray

	// Rho is the air density [kg m-3], shape (nz, ny, nx).
	Rho *sparse.DenseArray

	// U, V, W are the wind components [m s-1] with shapes
	// (nz, ny, nx-1), (nz, ny-1, nx), and (nz, ny, nx).
	U, V, W *sparse.DenseArray

	// Scalars are the transported fields, shape (nz, ny, nx) each,
	// indexed by IQv through INr.
	Scalars []*sparse.DenseArray
}

// NewDomain allocates a domain of nx×ny×nz cells with horizontal
// spacing dx and uniform layer thickness dz, unit density, and all
// fields zero.
func NewDomain(nx, ny, nz int, dx, dz float64) *Domain {
	d := &Domain{
		Nx: nx, Ny: ny, Nz: nz,
		Dx:  dx,
		Dz:  sparse.ZerosDense(nz),
		Rho: sparse.ZerosDense(nz, ny, nx),
		U:   sparse.ZerosDense(nz, ny, nx-1),
		V:   sparse.ZerosDense(nz, ny-1, nx),
		W:   sparse.ZerosDense(nz, ny, nx),
	}
	for i := range d.Dz.Elements {
		d.Dz.Elements[i] = dz
	}
	for i := range d.Rho.Elements {
		d.Rho.Elements[i] = 1
	}
	d.Scalars = make([]*sparse.DenseArray, nScalars)
	for i := range d.Scalars {
		d.Scalars[i] = sparse.ZerosDense(nz, ny, nx)
	}
	return d
}

// ScalarIndex returns the index into Domain.Scalars of the named
// field (qv, qc, qr, qs, theta, qi, qg, ni, or nr).
func ScalarIndex(name string) (int, error) {
	for i, n := range scalarNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("mpdata: unknown scalar field %q", name)
}

// transported returns the indexes of the scalars the driver advects
// under the given microphysics scheme: the warm-phase fields and
// potential temperature always, the ice-phase fields and number
// concentrations only when the scheme carries them.
func transported(s Scheme) []int {
	idx := []int{IQv, IQc, IQr, IQs, ITheta}
	if s.Ice() {
		idx = append(idx, IQi, IQg)
	}
	if s.Number() {
		idx = append(idx, INi, INr)
	}
	return idx
}

// UniformWind sets the wind components to the given constant values.
func (d *Domain) UniformWind(u, v, w float64) {
	for i := range d.U.Elements {
		d.U.Elements[i] = u
	}
	for i := range d.V.Elements {
		d.V.Elements[i] = v
	}
	for i := range d.W.Elements {
		d.W.Elements[i] = w
	}
}

// GaussianBlob adds a Gaussian bump of the given amplitude and
// e-folding radius (in grid cells) to scalar si, centered in the
// domain.
func (d *Domain) GaussianBlob(si int, amplitude, radius float64) {
	q := d.Scalars[si]
	ck, cj, ci := float64(d.Nz-1)/2, float64(d.Ny-1)/2, float64(d.Nx-1)/2
	for k := 0; k < d.Nz; k++ {
		for j := 0; j < d.Ny; j++ {
			for i := 0; i < d.Nx; i++ {
				r2 := (float64(k)-ck)*(float64(k)-ck) +
					(float64(j)-cj)*(float64(j)-cj) +
					(float64(i)-ci)*(float64(i)-ci)
				q.Elements[(k*d.Ny+j)*d.Nx+i] += amplitude * math.Exp(-r2/(radius*radius))
			}
		}
	}
}

// Mass returns the volume integral of scalar si over the domain.
func (d *Domain) Mass(si int) float64 {
	q := d.Scalars[si]
	plane := d.Ny * d.Nx
	var m float64
	for k := 0; k < d.Nz; k++ {
		m += floats.Sum(q.Elements[k*plane:(k+1)*plane]) * d.Dx * d.Dx * d.Dz.Elements[k]
	}
	return m
}

// MaxCourant returns the largest single-face Courant number the
// current winds would produce with timestep dt [s].
func (d *Domain) MaxCourant(dt float64) float64 {
	var c float64
	for _, u := range d.U.Elements {
		c = max(c, math.Abs(u)/d.Dx)
	}
	for _, v := range d.V.Elements {
		c = max(c, math.Abs(v)/d.Dx)
	}
	plane := d.Ny * d.Nx
	for k := 0; k < d.Nz; k++ {
		dz := faceDz(d.Dz, k, d.Nz)
		for _, w := range d.W.Elements[k*plane : (k+1)*plane] {
			c = max(c, math.Abs(w)/dz)
		}
	}
	return c * dt
}

// CFLTimestep returns the longest timestep [s] keeping every Courant
// number at or below cmax, with the √3 margin for simultaneous
// three-dimensional transport (after the Courant–Friedrichs–Lewy
// condition).
func (d *Domain) CFLTimestep(cmax float64) float64 {
	rate := d.MaxCourant(1)
	if rate == 0 {
		return math.Inf(1)
	}
	return cmax / math.Sqrt(3.) / rate
}

// faceDz returns the grid spacing associated with the top face of
// layer k: the mean of the two adjacent layer thicknesses, or the top
// layer's own thickness at the model lid.
func faceDz(dz *sparse.DenseArray, k, nz int) float64 {
	if k >= nz-1 {
		return dz.Elements[nz-1]
	}
	return (dz.Elements[k] + dz.Elements[k+1]) / 2
}
