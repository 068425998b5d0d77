// Package terrain fills a voxel grid's terrain layer from a heightmap.
package terrain

import (
	"fmt"

	"github.com/landfall/sim/internal/config"
	"github.com/landfall/sim/internal/voxel"
)

// Loader writes terrain into a grid. Heightmap file loaders plug in here.
type Loader interface {
	Load(g *voxel.Grid) error
}

// New returns the loader selected by cfg.Terrain.
func New(cfg config.WorldConfig) (Loader, error) {
	switch cfg.Terrain {
	case "flat":
		return Flat{Level: cfg.FlatLevel}, nil
	case "noise", "":
		return Noise{Seed: cfg.Seed, Base: cfg.FlatLevel, Amplitude: cfg.NoiseAmp, Frequency: cfg.NoiseFreq}, nil
	}
	return nil, fmt.Errorf("unknown terrain %q", cfg.Terrain)
}

// Flat fills every column up to (excluding) Level.
type Flat struct {
	Level int
}

func (f Flat) Load(g *voxel.Grid) error {
	if f.Level < 1 || f.Level >= g.Y {
		return fmt.Errorf("flat level %d outside 1..%d", f.Level, g.Y-1)
	}
	for x := 0; x < g.XZ; x++ {
		for z := 0; z < g.XZ; z++ {
			fillColumn(g, x, z, f.Level)
		}
	}
	return nil
}

// fillColumn stacks height voxels from y=0, coloured by altitude.
func fillColumn(g *voxel.Grid, x, z, height int) {
	height = min(height, g.Y-1)
	for y := 0; y < height; y++ {
		g.SetTerrain(voxel.Coord{X: x, Y: y, Z: z}, band(y, height))
	}
}

// band picks the colour of the voxel at y in a column of the given height.
func band(y, height int) voxel.Colour {
	switch {
	case y == 0:
		return voxel.ColourGrey
	case y < height-1:
		return voxel.ColourBrown
	case height >= 14:
		return voxel.ColourWhite
	case height <= 3:
		return voxel.ColourBlue
	}
	return voxel.ColourGreen
}
