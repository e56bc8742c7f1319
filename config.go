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

// Config holds the read-only advection options. The zero value is not
// usable; Order must be at least 1.
type Config struct {
	// Order is the total number of MPDATA passes. 1 degenerates to
	// plain donor-cell advection; each additional pass applies one
	// antidiffusive correction.
	Order int

	// FCT enables the non-oscillatory flux limiter on the
	// correction passes.
	FCT bool

	// DimensionalSplit selects the legacy alternating-direction
	// path, which advects along one axis at a time in an order that
	// rotates every timestep, instead of the simultaneous 3-D
	// update. The two paths differ subtly near domain boundaries and
	// in splitting error; they are kept strictly separate.
	DimensionalSplit bool

	// BoundaryBuffer smooths the cells nearest the domain edges
	// after each axis sweep. It applies to the dimensional-split
	// path only.
	BoundaryBuffer bool

	// Debug enables the pre- and post-advection sanity checks on
	// every transported field.
	Debug bool

	// AdvectDensity weights the face Courant numbers by the local
	// air density relative to its layer mean, so that transport
	// follows momentum rather than velocity where the density field
	// varies horizontally.
	AdvectDensity bool

	// Scheme is the active microphysics scheme; it determines
	// whether ice-phase scalars and number concentrations are
	// transported.
	Scheme Scheme

	// Bounds are the debug sanity-check thresholds. The zero value
	// selects DefaultBounds.
	Bounds Bounds
}

// Bounds holds the thresholds used by the debug sanity checks.
type Bounds struct {
	// NegTol is the magnitude below which a post-advection negative
	// value is considered roundoff and clamped to zero. Larger
	// negatives are left in place for inspection.
	NegTol float64

	// Ceiling is the value above which a field is considered to have
	// blown up. It is deliberately generous: mixing ratios are
	// bounded by a small fraction of unity and potential
	// temperatures by a few hundred kelvin.
	Ceiling float64
}

// DefaultBounds are the sanity-check thresholds used when Config.Bounds
// is left zero.
var DefaultBounds = Bounds{NegTol: 1.e-12, Ceiling: 1.e3}

// Valid checks the configuration for internal consistency.
func (c Config) Valid() error {
	if c.Order < 1 {
		return fmt.Errorf("mpdata: config: Order is %d but must be at least 1", c.Order)
	}
	if c.BoundaryBuffer && !c.DimensionalSplit {
		return fmt.Errorf("mpdata: config: BoundaryBuffer applies only to the dimensional-split path")
	}
	if b := c.Bounds; b != (Bounds{}) && (b.NegTol <= 0 || b.Ceiling <= 0) {
		return fmt.Errorf("mpdata: config: Bounds thresholds must be positive, got %+v", b)
	}
	return nil
}

// bounds returns the sanity-check thresholds, substituting the
// defaults if none were set.
func (c Config) bounds() Bounds {
	if c.Bounds == (Bounds{}) {
		return DefaultBounds
	}
	return c.Bounds
}
