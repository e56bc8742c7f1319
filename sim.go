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
	"io"
	"math"
	"os"
	"time"
)

// A DomainManipulator is a function that operates on the simulation
// state, for example by advancing it one timestep or by recording
// output.
type DomainManipulator func(s *Simulation) error

// Simulation ties together a domain, a solver, and the operators that
// advance and observe them. The operators run in the order they are
// listed, so within a timestep an output operator placed after Advect
// sees the post-step state.
type Simulation struct {
	// Domain is the model state being simulated.
	Domain *Domain

	// Solver advances the domain's scalar fields.
	Solver *Solver

	// Dt is the timestep length [s]. Set it directly or with the
	// SetTimestepCFL initialization operator.
	Dt float64

	// Done specifies whether the simulation is finished.
	Done bool

	// Step is the number of completed timesteps.
	Step int

	// InitFuncs are run once, in order, before the simulation starts.
	InitFuncs []DomainManipulator

	// StepFuncs are run in order once per timestep until Done is set.
	StepFuncs []DomainManipulator

	// CleanupFuncs are run once, in order, after the simulation
	// finishes.
	CleanupFuncs []DomainManipulator
}

// Init initializes the simulation by running the InitFuncs.
func (s *Simulation) Init() error {
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the simulation one timestep at a time until an operator
// sets Done.
func (s *Simulation) Run() error {
	for !s.Done {
		for _, f := range s.StepFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
		s.Step++
	}
	return nil
}

// Cleanup finishes the simulation by running the CleanupFuncs.
func (s *Simulation) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Advect returns an operator that advances every transported scalar
// field by one timestep.
func Advect() DomainManipulator {
	return func(s *Simulation) error {
		return s.Solver.Step(s.Domain, s.Dt)
	}
}

// SetTimestepCFL returns an initialization operator that sets the
// timestep length so the largest face Courant number under the
// domain's current winds stays at cmax, with the usual margin for
// simultaneous three-dimensional transport.
func SetTimestepCFL(cmax float64) DomainManipulator {
	return func(s *Simulation) error {
		dt := s.Domain.CFLTimestep(cmax)
		if math.IsInf(dt, 0) || dt <= 0 {
			return fmt.Errorf("mpdata: cannot set timestep from winds (got %g s); set Dt directly", dt)
		}
		s.Dt = dt
		return nil
	}
}

// StepCheck returns an operator that finishes the simulation after
// numSteps timesteps have completed.
func StepCheck(numSteps int) DomainManipulator {
	return func(s *Simulation) error {
		if s.Step+1 >= numSteps {
			s.Done = true
		}
		return nil
	}
}

// Log returns an operator that writes simulation status messages to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()

	iteration := 0

	return func(s *Simulation) error {
		iteration++
		fmt.Fprintf(w, "Step %-4d  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"timestep=%2.3gs  mass(qv)=%.6g\n",
			iteration, time.Since(startTime).Hours(),
			time.Since(timeStepTime).Seconds(), s.Dt, s.Domain.Mass(IQv))
		timeStepTime = time.Now()
		return nil
	}
}

// WriteSnapshots returns an operator that writes the full domain state
// to a netcdf file every period timesteps, and again when the
// simulation finishes. The file name template may contain a [step]
// wildcard that is replaced with the timestep number; without it,
// later snapshots overwrite earlier ones.
func WriteSnapshots(template string, period int) DomainManipulator {
	return func(s *Simulation) error {
		if !s.Done && (period <= 0 || (s.Step+1)%period != 0) {
			return nil
		}
		f, err := os.Create(expandStep(template, s.Step+1))
		if err != nil {
			return fmt.Errorf("mpdata: creating snapshot file: %v", err)
		}
		defer f.Close()
		return s.Domain.Write(f)
	}
}
