package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/landfall/sim/internal/voxel"
)

// Laser is a straight beam between two world-space points.
type Laser struct {
	From, To mgl32.Vec3
	Active   bool
}

// Aim points the laser from a voxel towards a world-space target and turns it on.
func (l *Laser) Aim(from voxel.Coord, to mgl32.Vec3) {
	l.From = VoxelCentre(from)
	l.To = to
	l.Active = true
}

// VoxelCentre returns the world-space centre of voxel c.
func VoxelCentre(c voxel.Coord) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X) + 0.5, float32(c.Y) + 0.5, float32(c.Z) + 0.5}
}

// VoxelOf returns the voxel containing world-space point p.
func VoxelOf(p mgl32.Vec3) voxel.Coord {
	return voxel.Coord{X: floor(p.X()), Y: floor(p.Y()), Z: floor(p.Z())}
}

func floor(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
