package terrain

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"

	"github.com/landfall/sim/internal/voxel"
)

// Noise builds rolling hills from 2D OpenSimplex noise: each column rises
// Base plus up to Amplitude voxels.
type Noise struct {
	Seed      int64
	Base      int
	Amplitude int
	Frequency float64
}

func (n Noise) Load(g *voxel.Grid) error {
	if n.Base < 1 || n.Base+n.Amplitude >= g.Y {
		return fmt.Errorf("noise terrain %d+%d does not fit height %d", n.Base, n.Amplitude, g.Y)
	}
	if n.Frequency <= 0 {
		return fmt.Errorf("noise frequency must be positive, got %g", n.Frequency)
	}
	noise := opensimplex.NewNormalized(n.Seed)
	for x := 0; x < g.XZ; x++ {
		for z := 0; z < g.XZ; z++ {
			v := noise.Eval2(float64(x)*n.Frequency, float64(z)*n.Frequency)
			fillColumn(g, x, z, n.Base+int(v*float64(n.Amplitude)))
		}
	}
	return nil
}
