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

// Scheme identifies the active microphysics scheme. The advection
// driver only consults it to decide which scalars exist to be
// transported: warm-rain schemes carry no ice-phase fields, and only
// double-moment schemes carry number concentrations.
type Scheme int

const (
	// Kessler is warm-rain microphysics; no ice-phase scalars.
	Kessler Scheme = iota
	// Lin is single-moment mixed-phase microphysics; adds cloud ice
	// and graupel mixing ratios.
	Lin
	// Morrison is double-moment mixed-phase microphysics; also adds
	// ice- and rain-number concentrations.
	Morrison
)

func (s Scheme) String() string {
	switch s {
	case Kessler:
		return "kessler"
	case Lin:
		return "lin"
	case Morrison:
		return "morrison"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Ice reports whether the scheme carries ice-phase mixing ratios
// (cloud ice and graupel).
func (s Scheme) Ice() bool { return s == Lin || s == Morrison }

// Number reports whether the scheme carries hydrometeor number
// concentrations (ice number and rain number).
func (s Scheme) Number() bool { return s == Morrison }

// UnmarshalText parses a scheme name from a configuration file.
func (s *Scheme) UnmarshalText(text []byte) error {
	switch string(text) {
	case "kessler", "":
		*s = Kessler
	case "lin":
		*s = Lin
	case "morrison":
		*s = Morrison
	default:
		return fmt.Errorf("mpdata: unknown microphysics scheme %q", string(text))
	}
	return nil
}
