/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gopnm/InputParameters"
	"github.com/notargets/gopnm/permeability"
	"github.com/notargets/gopnm/readfiles"
	"github.com/notargets/gopnm/types"
)

type ModelPerm struct {
	NetworkFile string
	InputFile   string
	Axis        string
	Viscosity   float64
	GPU         bool
	Correct     bool
	Engines     []string
	Profile     bool
}

// PermCmd represents the perm command
var PermCmd = &cobra.Command{
	Use:   "perm",
	Short: "Absolute permeability of a pore network",
	Long: `
Solves the pressure-diffusion system over a pore network and reports
absolute permeability in millidarcy per physical engine,

gopnm perm -f network.yaml -a X`,
	Run: func(cmd *cobra.Command, args []string) {
		mp := &ModelPerm{}
		mp.NetworkFile, _ = cmd.Flags().GetString("network")
		mp.InputFile, _ = cmd.Flags().GetString("input")
		mp.Axis, _ = cmd.Flags().GetString("axis")
		mp.Viscosity, _ = cmd.Flags().GetFloat64("viscosity")
		mp.GPU, _ = cmd.Flags().GetBool("gpu")
		mp.Correct, _ = cmd.Flags().GetBool("correct")
		mp.Engines, _ = cmd.Flags().GetStringSlice("engines")
		mp.Profile, _ = cmd.Flags().GetBool("profile")
		if len(mp.NetworkFile) == 0 {
			err := fmt.Errorf("must supply a network file (-f) to run permeability")
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		RunPerm(mp)
	},
}

func init() {
	rootCmd.AddCommand(PermCmd)
	PermCmd.Flags().StringP("network", "f", "", "pore network file to solve (JSON or YAML)")
	PermCmd.Flags().StringP("input", "I", "", "input parameters file (overrides other flags)")
	PermCmd.Flags().StringP("axis", "a", "X", "flow axis: X, Y or Z")
	PermCmd.Flags().Float64P("viscosity", "v", 1.0, "fluid viscosity in centipoise")
	PermCmd.Flags().BoolP("gpu", "g", false, "solve on an OCCA device, CPU fallback on failure")
	PermCmd.Flags().Bool("correct", true, "apply the tortuosity squared correction")
	PermCmd.Flags().StringSlice("engines", []string{"Darcy", "NavierStokes", "LatticeBoltzmann"},
		"physical engines to run")
	PermCmd.Flags().Bool("profile", false, "write a CPU profile of the solve")
}

func RunPerm(mp *ModelPerm) {
	var (
		pn   *types.PoreNetwork
		opts permeability.Options
		err  error
	)
	if mp.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	if len(mp.InputFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(mp.InputFile); err != nil {
			fmt.Printf("unable to read input file %s: %s\n", mp.InputFile, err.Error())
			os.Exit(1)
		}
		var pp InputParameters.PermeabilityParameters
		if err = pp.Parse(data); err != nil {
			fmt.Printf("unable to parse input file %s: %s\n", mp.InputFile, err.Error())
			os.Exit(1)
		}
		pp.Print()
		mp.Axis = pp.Axis
		mp.Viscosity = pp.Viscosity
		mp.GPU = pp.UseGPU
		mp.Correct = pp.CorrectTortuous
		mp.Engines = nil
		if pp.Darcy {
			mp.Engines = append(mp.Engines, "Darcy")
		}
		if pp.NavierStokes {
			mp.Engines = append(mp.Engines, "NavierStokes")
		}
		if pp.LatticeBoltzmann {
			mp.Engines = append(mp.Engines, "LatticeBoltzmann")
		}
	}
	if pn, err = readfiles.ReadPoreNetwork(mp.NetworkFile, true); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if opts, err = buildOptions(mp); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	res := permeability.Solve(pn, opts)
	res.Print()
}

func buildOptions(mp *ModelPerm) (opts permeability.Options, err error) {
	if opts.Axis, err = ParseAxis(mp.Axis); err != nil {
		return
	}
	opts.Viscosity = mp.Viscosity
	opts.UseGPU = mp.GPU
	opts.CorrectTortuous = mp.Correct
	for _, label := range mp.Engines {
		var eng permeability.Engine
		if eng, err = ParseEngine(label); err != nil {
			return
		}
		opts.Engines = append(opts.Engines, eng)
	}
	return
}

func ParseAxis(label string) (axis types.Axis, err error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "X":
		axis = types.AxisX
	case "Y":
		axis = types.AxisY
	case "Z":
		axis = types.AxisZ
	default:
		err = fmt.Errorf("unknown flow axis %q, must be X, Y or Z", label)
	}
	return
}

func ParseEngine(label string) (eng permeability.Engine, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "darcy":
		eng = permeability.Darcy
	case "navierstokes":
		eng = permeability.NavierStokes
	case "latticeboltzmann":
		eng = permeability.LatticeBoltzmann
	default:
		err = fmt.Errorf("unknown engine %q", label)
	}
	return
}
