package voxel

import (
	"fmt"

	"github.com/landfall/sim/internal/core/ecs"
)

// Grid is the voxel world: terrain colours and unit occupancy over
// [0,XZ) × [0,Y) × [0,XZ). Accessed only from the game loop goroutine.
// Out-of-bounds access is a programming error and panics.
type Grid struct {
	XZ, Y   int
	terrain []Colour
	units   []ecs.EntityID
}

func NewGrid(xz, y int) *Grid {
	if xz <= 0 || y <= 0 {
		panic(fmt.Sprintf("voxel: invalid grid size %dx%dx%d", xz, y, xz))
	}
	n := xz * y * xz
	return &Grid{
		XZ:      xz,
		Y:       y,
		terrain: make([]Colour, n),
		units:   make([]ecs.EntityID, n),
	}
}

func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.XZ &&
		c.Y >= 0 && c.Y < g.Y &&
		c.Z >= 0 && c.Z < g.XZ
}

func (g *Grid) index(c Coord) int {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("voxel: coordinate %s out of bounds", c))
	}
	return (c.X*g.Y+c.Y)*g.XZ + c.Z
}

func (g *Grid) Terrain(c Coord) Colour { return g.terrain[g.index(c)] }

func (g *Grid) SetTerrain(c Coord, col Colour) { g.terrain[g.index(c)] = col }

// Unit returns the occupant of c, or the zero ID.
func (g *Grid) Unit(c Coord) ecs.EntityID { return g.units[g.index(c)] }

func (g *Grid) SetUnit(c Coord, id ecs.EntityID) { g.units[g.index(c)] = id }

// ColumnTop returns the highest terrain y at or below fromY in column (x, z).
func (g *Grid) ColumnTop(x, z, fromY int) (int, bool) {
	if fromY >= g.Y {
		fromY = g.Y - 1
	}
	for y := fromY; y >= 0; y-- {
		if g.Terrain(Coord{x, y, z}) != ColourNone {
			return y, true
		}
	}
	return 0, false
}

// MaxHeight returns the highest terrain y anywhere in the grid, or -1.
func (g *Grid) MaxHeight() int {
	top := -1
	for x := 0; x < g.XZ; x++ {
		for z := 0; z < g.XZ; z++ {
			if y, ok := g.ColumnTop(x, z, g.Y-1); ok && y > top {
				top = y
			}
		}
	}
	return top
}

// ClearUnits empties the occupancy grid.
func (g *Grid) ClearUnits() {
	clear(g.units)
}

// OccupiedCells counts occupancy cells holding id (all ids when id is zero).
func (g *Grid) OccupiedCells(id ecs.EntityID) int {
	n := 0
	for _, u := range g.units {
		if u.IsZero() {
			continue
		}
		if id.IsZero() || u == id {
			n++
		}
	}
	return n
}
