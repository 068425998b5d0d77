package voxel

// Layout maps offsets relative to a unit's origin to the colour drawn there.
// Its keys are the unit's footprint.
type Layout map[Coord]Colour

// FlipY mirrors the layout vertically about the origin.
func (l Layout) FlipY() Layout {
	out := make(Layout, len(l))
	for k, v := range l {
		out[Coord{k.X, -k.Y, k.Z}] = v
	}
	return out
}
