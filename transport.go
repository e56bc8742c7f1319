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

import "fmt"

// A TransportError reports that a scalar field failed the debug sanity
// checks after advection in a way that cannot be attributed to its
// state before the timestep: a value above the configured ceiling, a
// negative value created by the step itself, or a NaN that appeared
// during the step.
type TransportError struct {
	// Field is the name of the scalar that failed.
	Field string
	// Flags is the sum of the sanity-check flags for the failing
	// field; see checkPre and checkPost.
	Flags int
	// Step is the solver's timestep counter when the failure happened.
	Step int
}

func (err *TransportError) Error() string {
	return fmt.Sprintf("mpdata: transport of %s failed sanity checks at step %d (flags %d)",
		err.Field, err.Step, err.Flags)
}

// Step advances every scalar transported under the solver's
// microphysics scheme by one timestep of length dt (seconds), using
// the domain's current winds. Winds are converted to Courant numbers
// once and shared by all scalars. When the solver was built with
// Debug set, each scalar is checked before and after its advection;
// problems that predate the step are reported to s.Msgs and tolerated,
// while problems created by the step abort it with a *TransportError.
// Whether or not an error is returned, the fields advected before the
// failing one keep their new values.
func (s *Solver) Step(d *Domain, dt float64) error {
	s.courants(d, dt)
	for _, si := range transported(s.config.Scheme) {
		q := d.Scalars[si]
		flags := 0
		if s.config.Debug {
			flags = checkPre(q)
		}
		if s.config.DimensionalSplit {
			s.splitAdvect(q)
		} else {
			s.advect(q)
		}
		if s.config.Debug {
			flags += checkPost(q, s.config.bounds())
			if flags > 0 {
				return &TransportError{Field: scalarNames[si], Flags: flags, Step: s.steps}
			}
			if flags < 0 && s.Msgs != nil {
				fmt.Fprintf(s.Msgs, "mpdata: field %s entered step %d with problems (flags %d); continuing\n",
					scalarNames[si], s.steps, flags)
			}
		}
	}
	s.rotation = (s.rotation + 1) % 3
	s.steps++
	return nil
}

// courants converts the domain winds into face Courant numbers for a
// timestep of length dt. Horizontal faces use the uniform horizontal
// spacing; vertical faces use the thickness-weighted spacing at each
// face. With AdvectDensity set, every face is additionally weighted by
// the ratio of its air density to the layer mean, which makes the
// transported quantities behave as mixing ratios in a variable-density
// atmosphere.
func (s *Solver) courants(d *Domain, dt float64) {
	nx, ny, nz := d.Nx, d.Ny, d.Nz
	cx := dt / d.Dx
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			row := (k*ny + j) * (nx - 1)
			for f := 0; f < nx-1; f++ {
				s.cu.Elements[row+f] = d.U.Elements[row+f] * cx
			}
		}
	}
	for k := 0; k < nz; k++ {
		for jf := 0; jf < ny-1; jf++ {
			row := (k*(ny-1) + jf) * nx
			for i := 0; i < nx; i++ {
				s.cv.Elements[row+i] = d.V.Elements[row+i] * cx
			}
		}
	}
	for k := 0; k < nz; k++ {
		cz := dt / faceDz(d.Dz, k, nz)
		base := k * ny * nx
		for ji := 0; ji < ny*nx; ji++ {
			s.cw.Elements[base+ji] = d.W.Elements[base+ji] * cz
		}
	}
	if s.config.AdvectDensity {
		s.weightByDensity(d)
	}
}

// weightByDensity scales each face Courant number by the face air
// density relative to the layer mean. Face densities are the mean of
// the two adjacent cells; the lid faces use the top layer itself.
func (s *Solver) weightByDensity(d *Domain) {
	nx, ny, nz := d.Nx, d.Ny, d.Nz
	plane := ny * nx
	for k := 0; k < nz; k++ {
		sum := 0.0
		for _, v := range d.Rho.Elements[k*plane : (k+1)*plane] {
			sum += v
		}
		s.rhoLayer[k] = sum / float64(plane)
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			cRow := (k*ny + j) * nx
			fRow := (k*ny + j) * (nx - 1)
			for f := 0; f < nx-1; f++ {
				face := (d.Rho.Elements[cRow+f] + d.Rho.Elements[cRow+f+1]) / 2
				s.cu.Elements[fRow+f] *= face / s.rhoLayer[k]
			}
		}
	}
	for k := 0; k < nz; k++ {
		for jf := 0; jf < ny-1; jf++ {
			cRow := (k*ny + jf) * nx
			fRow := (k*(ny-1) + jf) * nx
			for i := 0; i < nx; i++ {
				face := (d.Rho.Elements[cRow+i] + d.Rho.Elements[cRow+nx+i]) / 2
				s.cv.Elements[fRow+i] *= face / s.rhoLayer[k]
			}
		}
	}
	for k := 0; k < nz; k++ {
		base := k * plane
		if k == nz-1 {
			for ji := 0; ji < plane; ji++ {
				s.cw.Elements[base+ji] *= d.Rho.Elements[base+ji] / s.rhoLayer[k]
			}
			continue
		}
		mean := (s.rhoLayer[k] + s.rhoLayer[k+1]) / 2
		for ji := 0; ji < plane; ji++ {
			face := (d.Rho.Elements[base+ji] + d.Rho.Elements[base+plane+ji]) / 2
			s.cw.Elements[base+ji] *= face / mean
		}
	}
}
