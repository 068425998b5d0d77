// Package voxel holds the dense world grids: terrain colour and unit
// occupancy, both indexed by integer coordinate.
package voxel

import "fmt"

// Coord is an integer grid position, also used as a layout offset.
type Coord struct {
	X, Y, Z int
}

func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// StepToward moves c at most one voxel along each axis toward t.
func (c Coord) StepToward(t Coord) Coord {
	return Coord{c.X + sign(t.X-c.X), c.Y + sign(t.Y-c.Y), c.Z + sign(t.Z-c.Z)}
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
