package voxel

import "fmt"

// Colour of a voxel. ColourNone marks an empty terrain cell.
type Colour uint8

const (
	ColourNone Colour = iota
	ColourGreen
	ColourRed
	ColourOrange
	ColourYellow
	ColourBlue
	ColourWhite
	ColourBrown
	ColourGrey
)

var colourNames = [...]string{
	ColourNone:   "none",
	ColourGreen:  "green",
	ColourRed:    "red",
	ColourOrange: "orange",
	ColourYellow: "yellow",
	ColourBlue:   "blue",
	ColourWhite:  "white",
	ColourBrown:  "brown",
	ColourGrey:   "grey",
}

func (c Colour) String() string {
	if int(c) < len(colourNames) {
		return colourNames[c]
	}
	return fmt.Sprintf("colour(%d)", uint8(c))
}

// ParseColour resolves a colour name.
func ParseColour(name string) (Colour, error) {
	for i, n := range colourNames {
		if n == name {
			return Colour(i), nil
		}
	}
	return ColourNone, fmt.Errorf("unknown colour %q", name)
}
