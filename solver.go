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
	"io"
	"runtime"

	"github.com/ctessum/sparse"
)

// Solver holds the scratch state the advection engine needs between
// and within timesteps: the Courant-number fields built once per step,
// the antidiffusive velocities rebuilt every correction pass, the
// low-order working buffer, and the axis-rotation and timestep
// counters. It is owned by the caller and allocated once, up front,
// for a specific domain size; there is no hidden first-call
// allocation. A Solver must not be shared between concurrently
// advancing domains.
type Solver struct {
	config Config
	nprocs int

	// Courant-number fields, shaped like the wind components.
	cu, cv, cw *sparse.DenseArray

	// Antidiffusive velocities, shaped like the wind components.
	pu, pv, pw *sparse.DenseArray

	// Low-order working buffer. During a scalar's advection the
	// caller's field and this buffer alternate as the pass input and
	// output; they are never read and written in the same pass.
	qlo *sparse.DenseArray

	// Layer-mean density, used for density-weighted Courant numbers.
	rhoLayer []float64

	// Msgs, if non-nil, receives informational reports from the debug
	// sanity checks about problems that predate the advection call
	// (pre-existing negatives or NaNs). Fatal problems are returned as
	// errors instead.
	Msgs io.Writer

	// rotation selects the axis order of the next dimensional-split
	// sweep; it cycles 0,1,2 every timestep.
	rotation int

	// steps counts completed timesteps.
	steps int
}

// NewSolver allocates a solver for domains shaped like d, using the
// given advection options. The returned solver's scratch fields are
// sized from d's grid, and its rotation and timestep counters start at
// zero.
func NewSolver(d *Domain, c Config) (*Solver, error) {
	if err := c.Valid(); err != nil {
		return nil, err
	}
	return &Solver{
		config:   c,
		nprocs:   runtime.GOMAXPROCS(0),
		cu:       sparse.ZerosDense(d.Nz, d.Ny, d.Nx-1),
		cv:       sparse.ZerosDense(d.Nz, d.Ny-1, d.Nx),
		cw:       sparse.ZerosDense(d.Nz, d.Ny, d.Nx),
		pu:       sparse.ZerosDense(d.Nz, d.Ny, d.Nx-1),
		pv:       sparse.ZerosDense(d.Nz, d.Ny-1, d.Nx),
		pw:       sparse.ZerosDense(d.Nz, d.Ny, d.Nx),
		qlo:      sparse.ZerosDense(d.Nz, d.Ny, d.Nx),
		rhoLayer: make([]float64, d.Nz),
	}, nil
}

// Config returns the solver's advection options.
func (s *Solver) Config() Config { return s.config }

// Steps returns the number of timesteps the solver has completed.
func (s *Solver) Steps() int { return s.steps }

// Reset rewinds the rotation and timestep counters so the solver can
// start a fresh simulation without reallocating its scratch fields.
func (s *Solver) Reset() {
	s.rotation = 0
	s.steps = 0
}

// advect advances one scalar field through the configured number of
// MPDATA passes, in place. The first pass is the plain low-order
// donor-cell step from the caller's field q into the working buffer.
// Each later pass derives antidiffusive velocities from the working
// buffer against the original Courant numbers, optionally limits them,
// and applies them with the same low-order step back into q. Between
// passes the newest estimate is copied into the working buffer, so
// within every pass the reads and writes go through disjoint storage.
func (s *Solver) advect(q *sparse.DenseArray) {
	upwind3(s.qlo, q, s.cu, s.cv, s.cw, s.nprocs)
	if s.config.Order == 1 {
		copy(q.Elements, s.qlo.Elements)
		return
	}
	for pass := 2; pass <= s.config.Order; pass++ {
		pseudoVelocities(s.pu, s.pv, s.pw, s.qlo, s.cu, s.cv, s.cw, s.nprocs)
		if s.config.FCT {
			// On the first correction q still holds the pre-advection
			// field, giving the full Smolarkiewicz–Grabowski envelope;
			// on later corrections q and the working buffer agree, so
			// the envelope collapses onto the current estimate.
			limitAxis(s.pu, q, s.qlo, axisX, s.nprocs)
			limitAxis(s.pv, q, s.qlo, axisY, s.nprocs)
			limitAxis(s.pw, q, s.qlo, axisZ, s.nprocs)
		}
		upwind3(q, s.qlo, s.pu, s.pv, s.pw, s.nprocs)
		if pass < s.config.Order {
			copy(s.qlo.Elements, q.Elements)
		}
	}
}
