package readfiles

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopnm/types"
)

// The network deck is the JSON/YAML schema produced by the segmentation and
// export tooling: pores, throats and one voxel_size scalar in micrometers.
type networkDeck struct {
	VoxelSize float64      `json:"voxel_size"`
	Pores     []poreDeck   `json:"pores"`
	Throats   []throatDeck `json:"throats"`
}

type poreDeck struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

type throatDeck struct {
	ID     int     `json:"id"`
	Pore1  int     `json:"pore1"`
	Pore2  int     `json:"pore2"`
	Radius float64 `json:"radius"`
}

// ReadPoreNetwork reads a pore network deck, either JSON or YAML.
func ReadPoreNetwork(filename string, verbose bool) (pn *types.PoreNetwork, err error) {
	var (
		data []byte
	)
	if verbose {
		fmt.Printf("Reading pore network file named: %s\n", filename)
	}
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	if pn, err = ParsePoreNetwork(data); err != nil {
		return nil, fmt.Errorf("unable to parse file %s: %w", filename, err)
	}
	if verbose {
		fmt.Printf("Np = %d, Nt = %d, voxel size = %g um\n",
			len(pn.Pores), len(pn.Throats), pn.VoxelSize)
	}
	return
}

// ParsePoreNetwork decodes a network deck and validates it through the
// network constructor.
func ParsePoreNetwork(data []byte) (pn *types.PoreNetwork, err error) {
	var (
		deck networkDeck
	)
	if err = yaml.Unmarshal(data, &deck); err != nil {
		return nil, err
	}
	pores := make([]types.Pore, len(deck.Pores))
	for i, p := range deck.Pores {
		pores[i] = types.Pore{
			ID:       p.ID,
			Position: [3]float64{p.X, p.Y, p.Z},
			Radius:   p.Radius,
		}
	}
	throats := make([]types.Throat, len(deck.Throats))
	for i, th := range deck.Throats {
		throats[i] = types.Throat{
			ID:     th.ID,
			Pore1:  th.Pore1,
			Pore2:  th.Pore2,
			Radius: th.Radius,
		}
	}
	return types.NewPoreNetwork(pores, throats, deck.VoxelSize)
}
