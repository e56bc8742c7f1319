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
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/mpdata"
)

// RunConfig holds the information needed to set up and run a
// simulation.
type RunConfig struct {
	// Nx, Ny, and Nz give the grid dimensions in cells. They are
	// ignored when InitialData is set.
	Nx, Ny, Nz int

	// Dx is the horizontal grid spacing and Dz the uniform layer
	// thickness [m]. They are ignored when InitialData is set.
	Dx, Dz float64

	// InitialData is the path to a netcdf model state snapshot to
	// start from. If it is empty, an idealized state is synthesized
	// from the Wind and Blob settings instead. The path can include
	// environment variables.
	InitialData string

	// Wind gives the constant wind components [m/s] used when
	// synthesizing the initial state.
	Wind struct {
		U, V, W float64
	}

	// Blob places a Gaussian bump in one scalar field of the
	// synthesized initial state.
	Blob struct {
		// Field is the name of the scalar to perturb, e.g. "qv".
		Field string

		// Amplitude is the peak value added at the domain center.
		Amplitude float64

		// Radius is the e-folding radius in grid cells.
		Radius float64
	}

	// NumSteps is the number of timesteps to run.
	NumSteps int

	// Dt is the timestep length [s]. If it is zero, the timestep is
	// set from the winds so the largest Courant number is MaxCourant.
	Dt float64

	// MaxCourant is the Courant number used to set the timestep when
	// Dt is not given. If it is zero, 0.8 is used.
	MaxCourant float64

	// Advection holds the advection engine options.
	Advection mpdata.Config

	// OutputFile is the path where the derived output variables are
	// saved when the simulation finishes. It can include environment
	// variables.
	OutputFile string

	// OutputVariables maps names of derived output variables to the
	// expressions that calculate them from the model fields; see
	// mpdata.NewOutputter. It can include environment variables.
	OutputVariables map[string]string

	// SnapshotFile, if set, is the file name template for periodic
	// model state snapshots. It may contain a [step] wildcard that is
	// replaced with the timestep number, and can include environment
	// variables.
	SnapshotFile string

	// SnapshotPeriod is the number of timesteps between snapshots.
	SnapshotPeriod int

	// LogFile is the path to the desired logfile location. If it is
	// left blank, log messages go to standard output only. It can
	// include environment variables.
	LogFile string
}

// ReadConfigFile reads and parses a TOML configuration file.
func ReadConfigFile(filename string) (*RunConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and "+
			"try again", filename)
	}
	reader := bufio.NewReader(file)
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("problem reading configuration file: %v", err)
	}

	config := new(RunConfig)
	if _, err = toml.Decode(string(bytes), config); err != nil {
		return nil, fmt.Errorf(
			"there has been an error parsing the configuration file: %v", err)
	}

	config.InitialData = os.ExpandEnv(config.InitialData)
	config.OutputFile = os.ExpandEnv(config.OutputFile)
	config.SnapshotFile = os.ExpandEnv(config.SnapshotFile)
	config.LogFile = os.ExpandEnv(config.LogFile)
	for k, v := range config.OutputVariables {
		config.OutputVariables[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}

	if config.InitialData == "" {
		if config.Nx < 2 || config.Ny < 1 || config.Nz < 1 {
			return nil, fmt.Errorf("the grid dimensions Nx=%d, Ny=%d, Nz=%d are too small; "+
				"Nx must be at least 2 and Ny and Nz at least 1", config.Nx, config.Ny, config.Nz)
		}
		if config.Dx <= 0 || config.Dz <= 0 {
			return nil, fmt.Errorf("the grid spacings Dx=%g and Dz=%g must be positive",
				config.Dx, config.Dz)
		}
	}
	if config.NumSteps < 1 {
		return nil, fmt.Errorf("NumSteps is %d but must be at least 1", config.NumSteps)
	}
	if config.Dt == 0 && config.MaxCourant == 0 {
		config.MaxCourant = 0.8
	}
	if config.MaxCourant < 0 || config.MaxCourant > 1 {
		return nil, fmt.Errorf("MaxCourant is %g but must be between 0 and 1", config.MaxCourant)
	}
	if err := config.Advection.Valid(); err != nil {
		return nil, err
	}
	if len(config.OutputVariables) > 0 && config.OutputFile == "" {
		return nil, fmt.Errorf("you need to specify an output file in the " +
			"configuration file (for example: OutputFile = \"output.nc\") " +
			"when OutputVariables are requested")
	}
	for _, f := range []string{config.OutputFile, config.SnapshotFile, config.LogFile} {
		if f == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f), os.ModePerm); err != nil {
			return nil, fmt.Errorf("problem creating output directory: %v", err)
		}
	}
	return config, nil
}
