package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/voxel"
)

// ClampTarget keeps a movement target inside the playable volume.
func (s *State) ClampTarget(t voxel.Coord) voxel.Coord {
	t.X = clampInt(t.X, 2, s.Grid.XZ-3)
	t.Y = clampInt(t.Y, 2, s.Grid.Y-2)
	t.Z = clampInt(t.Z, 2, s.Grid.XZ-3)
	return t
}

// Probe reports what u would hit if its origin moved to next: the ground
// (terrain, the floor or the world boundary) or another unit. A lander and
// its captive never collide with each other.
func (s *State) Probe(u *Unit, next voxel.Coord) (ground, unit bool) {
	for off := range u.Layout {
		c := next.Add(off)
		if !s.Grid.InBounds(c) || c.Y <= 0 || s.Grid.Terrain(c) != voxel.ColourNone {
			ground = true
			continue
		}
		occ := s.Grid.Unit(c)
		if occ.IsZero() || occ == u.ID || s.linked(u.ID, occ) {
			continue
		}
		unit = true
	}
	return ground, unit
}

func (s *State) linked(a, b ecs.EntityID) bool {
	return s.captors[a] == b || s.captors[b] == a
}

// FindPursuableHuman scans the box of half-width SearchRange around l below
// its origin, x then z then y, and returns the first available human found.
// The first hit in scan order wins, not the nearest.
func (s *State) FindPursuableHuman(l *Lander) (*Human, bool) {
	r := s.Tuning.SearchRange
	o := l.Origin
	x0, x1 := max(o.X-r, 0), min(o.X+r, s.Grid.XZ-1)
	z0, z1 := max(o.Z-r, 0), min(o.Z+r, s.Grid.XZ-1)
	y1 := min(o.Y, s.Grid.Y)
	for x := x0; x < x1; x++ {
		for z := z0; z < z1; z++ {
			for y := 0; y < y1; y++ {
				id := s.Grid.Unit(voxel.Coord{X: x, Y: y, Z: z})
				if id.IsZero() {
					continue
				}
				h, ok := s.humans.Get(id)
				if ok && h.Available && !h.Terminal() && !s.Pending(id) {
					return h, true
				}
			}
		}
	}
	return nil, false
}

const rayStep = 0.5

// RayCast marches from along dir up to maxDist and returns the first unit hit.
// Terrain and the world boundary stop the ray. end is where the ray stopped.
func (s *State) RayCast(from, dir mgl32.Vec3, maxDist float32) (hit *Unit, end mgl32.Vec3) {
	dir = dir.Normalize()
	end = from
	for d := float32(0); d <= maxDist; d += rayStep {
		p := from.Add(dir.Mul(d))
		end = p
		c := VoxelOf(p)
		if !s.Grid.InBounds(c) || s.Grid.Terrain(c) != voxel.ColourNone {
			return nil, end
		}
		if u, ok := s.UnitAt(c); ok && !s.Pending(u.ID) {
			return u, end
		}
	}
	return nil, end
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
