package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type PermeabilityParameters struct {
	Title            string  `yaml:"Title"`
	Axis             string  `yaml:"Axis"`      // X, Y or Z
	Viscosity        float64 `yaml:"Viscosity"` // centipoise, 1.0 is water
	Darcy            bool    `yaml:"Darcy"`
	NavierStokes     bool    `yaml:"NavierStokes"`     // entrance-corrected engine
	LatticeBoltzmann bool    `yaml:"LatticeBoltzmann"` // three-resistor engine
	UseGPU           bool    `yaml:"UseGPU"`
	CorrectTortuous  bool    `yaml:"CorrectTortuous"` // divide by tortuosity squared
}

func (pp *PermeabilityParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

func (pp *PermeabilityParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%s]\t\t\t= Axis\n", pp.Axis)
	fmt.Printf("%8.5f\t\t= Viscosity (cP)\n", pp.Viscosity)
	fmt.Printf("[%v]\t\t\t= Darcy\n", pp.Darcy)
	fmt.Printf("[%v]\t\t\t= NavierStokes\n", pp.NavierStokes)
	fmt.Printf("[%v]\t\t\t= LatticeBoltzmann\n", pp.LatticeBoltzmann)
	fmt.Printf("[%v]\t\t\t= UseGPU\n", pp.UseGPU)
	fmt.Printf("[%v]\t\t\t= CorrectTortuous\n", pp.CorrectTortuous)
}
