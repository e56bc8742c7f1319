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

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mpdata"
)

// Run sets up a simulation from config and runs it to completion.
func Run(config *RunConfig) error {
	logger := logrus.StandardLogger()
	if config.LogFile != "" {
		f, err := os.Create(config.LogFile)
		if err != nil {
			return fmt.Errorf("problem creating log file: %v", err)
		}
		defer f.Close()
		out := logger.Out
		logger.Out = io.MultiWriter(out, f)
		defer func() { logger.Out = out }()
	}

	d, err := initialState(config)
	if err != nil {
		return err
	}

	solver, err := mpdata.NewSolver(d, config.Advection)
	if err != nil {
		return err
	}
	msgs := logger.Writer()
	defer msgs.Close()
	solver.Msgs = msgs

	sim := &mpdata.Simulation{
		Domain: d,
		Solver: solver,
		Dt:     config.Dt,
		StepFuncs: []mpdata.DomainManipulator{
			mpdata.Advect(),
			logProgress(logger),
			mpdata.StepCheck(config.NumSteps),
		},
	}
	if config.Dt == 0 {
		sim.InitFuncs = append(sim.InitFuncs, mpdata.SetTimestepCFL(config.MaxCourant))
	}
	if config.SnapshotFile != "" {
		sim.StepFuncs = append(sim.StepFuncs,
			mpdata.WriteSnapshots(config.SnapshotFile, config.SnapshotPeriod))
	}
	if len(config.OutputVariables) > 0 {
		o, err := mpdata.NewOutputter(config.OutputFile, config.OutputVariables, nil)
		if err != nil {
			return err
		}
		sim.CleanupFuncs = append(sim.CleanupFuncs, o.Output())
	}

	logger.WithFields(logrus.Fields{
		"nx":    d.Nx,
		"ny":    d.Ny,
		"nz":    d.Nz,
		"steps": config.NumSteps,
		"order": config.Advection.Order,
		"fct":   config.Advection.FCT,
	}).Info("starting simulation")

	start := time.Now()
	if err := sim.Init(); err != nil {
		return fmt.Errorf("problem initializing the simulation: %v", err)
	}
	logger.WithField("timestep", sim.Dt).Info("initialized")
	if err := sim.Run(); err != nil {
		return fmt.Errorf("problem running the simulation: %v", err)
	}
	if err := sim.Cleanup(); err != nil {
		return fmt.Errorf("problem finishing the simulation: %v", err)
	}
	logger.WithField("walltime", time.Since(start)).Info("simulation finished")
	return nil
}

// initialState loads the starting model state from a snapshot file, or
// synthesizes the idealized state the configuration describes.
func initialState(config *RunConfig) (*mpdata.Domain, error) {
	if config.InitialData != "" {
		f, err := os.Open(config.InitialData)
		if err != nil {
			return nil, fmt.Errorf("problem opening the initial data file: %v", err)
		}
		defer f.Close()
		return mpdata.ReadDomain(f)
	}
	d := mpdata.NewDomain(config.Nx, config.Ny, config.Nz, config.Dx, config.Dz)
	d.UniformWind(config.Wind.U, config.Wind.V, config.Wind.W)
	if config.Blob.Field != "" {
		si, err := mpdata.ScalarIndex(config.Blob.Field)
		if err != nil {
			return nil, err
		}
		d.GaussianBlob(si, config.Blob.Amplitude, config.Blob.Radius)
	}
	return d, nil
}

// logProgress returns a simulation operator that reports per-step
// timing and the water vapor mass budget through the logger.
func logProgress(logger *logrus.Logger) mpdata.DomainManipulator {
	stepTime := time.Now()
	return func(s *mpdata.Simulation) error {
		logger.WithFields(logrus.Fields{
			"step":     s.Step + 1,
			"walltime": time.Since(stepTime),
			"qvMass":   fmt.Sprintf("%.6g", s.Domain.Mass(mpdata.IQv)),
		}).Info("advanced")
		stepTime = time.Now()
		return nil
	}
}
