package world

import (
	"fmt"

	"github.com/landfall/sim/internal/voxel"
)

// TerrainHeight is the origin height of a human standing in column (x, z).
func (s *State) TerrainHeight(x, z int) int {
	if top, ok := s.Grid.ColumnTop(x, z, s.Grid.Y-1); ok {
		return top + 2
	}
	return 2
}

// CruiseAltitude returns the band landers fly in: floor clears the highest
// terrain, cruise sits 2×MapClear above it without nearing the ceiling.
func (s *State) CruiseAltitude() (floor, cruise int) {
	floor = s.maxHeight + 3
	cruise = min(floor+2*s.Tuning.MapClear, s.Grid.Y-2*s.Tuning.MapClear)
	cruise = max(cruise, floor)
	return floor, cruise
}

// RandomColumn returns a random column at least MapClear from every edge.
func (s *State) RandomColumn() (x, z int) {
	mc := s.Tuning.MapClear
	span := s.Grid.XZ - 2*mc
	return mc + s.rng.Intn(span), mc + s.rng.Intn(span)
}

// RandomAerial returns a random coordinate inside the cruise band.
func (s *State) RandomAerial() voxel.Coord {
	x, z := s.RandomColumn()
	floor, cruise := s.CruiseAltitude()
	return voxel.Coord{X: x, Y: floor + s.rng.Intn(cruise-floor+1), Z: z}
}

// RandomEdgeCoord returns a random aerial coordinate on the MapClear margin.
func (s *State) RandomEdgeCoord() voxel.Coord {
	c := s.RandomAerial()
	mc := s.Tuning.MapClear
	edge := mc
	if s.rng.Intn(2) == 1 {
		edge = s.Grid.XZ - 1 - mc
	}
	if s.rng.Intn(2) == 0 {
		c.X = edge
	} else {
		c.Z = edge
	}
	return c
}

// fits reports whether layout placed at origin lies in open, unoccupied air.
func (s *State) fits(origin voxel.Coord, layout voxel.Layout) bool {
	for off := range layout {
		c := origin.Add(off)
		if !s.Grid.InBounds(c) || c.Y <= 0 {
			return false
		}
		if s.Grid.Terrain(c) != voxel.ColourNone || !s.Grid.Unit(c).IsZero() {
			return false
		}
	}
	return true
}

// PlaceHuman stands a human on the terrain of column (at.X, at.Z). at.Y is
// ignored.
func (s *State) PlaceHuman(at voxel.Coord) (*Human, error) {
	th := s.TerrainHeight(at.X, at.Z)
	origin := voxel.Coord{X: at.X, Y: th, Z: at.Z}
	if !s.fits(origin, s.Templates.Human.Layout(s.Templates.Human.BaseColour)) {
		return nil, fmt.Errorf("place human at %s: cell blocked", origin)
	}
	return s.AddHuman(origin, th), nil
}

// PlaceLander puts a lander at at.
func (s *State) PlaceLander(at voxel.Coord) (*Lander, error) {
	t := &s.Templates.Lander
	layout := t.Layout(t.BaseColour)
	t.Frame(layout, 0, t.BaseColour)
	if !s.fits(at, layout) {
		return nil, fmt.Errorf("place lander at %s: cell blocked", at)
	}
	return s.AddLander(at), nil
}

// PlaceRandomHumans places up to n humans on random free columns and returns
// how many were placed.
func (s *State) PlaceRandomHumans(n int) int {
	placed := 0
	for i := 0; i < n; i++ {
		for try := 0; try < s.Tuning.PlacementAttempts; try++ {
			x, z := s.RandomColumn()
			if _, err := s.PlaceHuman(voxel.Coord{X: x, Z: z}); err == nil {
				placed++
				break
			}
		}
	}
	return placed
}

// PlaceRandomAliens places up to n landers at random cruise-band coordinates
// and returns how many were placed.
func (s *State) PlaceRandomAliens(n int) int {
	placed := 0
	for i := 0; i < n; i++ {
		for try := 0; try < s.Tuning.PlacementAttempts; try++ {
			if _, err := s.PlaceLander(s.RandomAerial()); err == nil {
				placed++
				break
			}
		}
	}
	return placed
}
