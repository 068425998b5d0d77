package voxel

// HasCollided reports whether the 3×3×3 neighbourhood around c touches the
// world boundary or any terrain. The player movement check uses it; c is a
// world-space coordinate. Cells on the zero plane count as boundary.
func HasCollided(g *Grid, c Coord) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				n := Coord{c.X + dx, c.Y + dy, c.Z + dz}
				if n.X <= 0 || n.X >= g.XZ {
					return true
				}
				if n.Z <= 0 || n.Z >= g.XZ {
					return true
				}
				if n.Y <= 0 || n.Y >= g.Y {
					return true
				}
				if g.Terrain(n) != ColourNone {
					return true
				}
			}
		}
	}
	return false
}
