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

// Package cmd implements the command-line interface for the MPDATA
// scalar transport model.
package cmd

import (
	"fmt"

	"github.com/spatialmodel/mpdata"
	"github.com/spf13/cobra"
)

// These variables specify configuration flags.
var (
	// configFile specifies the location of the configuration file.
	configFile string

	// numSteps overrides the number of timesteps in the configuration
	// file when it is positive.
	numSteps int
)

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)

	// Create the configuration flags.
	Root.PersistentFlags().StringVar(&configFile, "config", "./mpdata.toml", "configuration file location")

	runCmd.Flags().IntVar(&numSteps, "steps", 0,
		"Number of timesteps to run; overrides the NumSteps configuration variable.")
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mpdata",
	Short: "A positive-definite scalar transport model.",
	Long: `MPDATA advances moisture, temperature, and hydrometeor fields
through a prescribed wind field using the multipass positive definite
advection scheme of Smolarkiewicz, with optional flux-corrected
transport. Use the subcommands specified below to access the model
functionality.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of MPDATA.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MPDATA v%s\n", mpdata.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs an MPDATA simulation as specified by the information
in the configuration file, writing derived output variables when it
finishes and model state snapshots along the way if requested.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ReadConfigFile(configFile)
		if err != nil {
			return err
		}
		if numSteps > 0 {
			cfg.NumSteps = numSteps
		}
		return Run(cfg)
	},
	DisableAutoGenTag: true,
}
