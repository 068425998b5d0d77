package data

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/landfall/sim/internal/voxel"
	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var defaultUnitsYAML []byte

// baseColourName marks a cell that takes the unit's current body colour.
const baseColourName = "base"

type cellEntry struct {
	Offset [3]int `yaml:"offset"`
	Colour string `yaml:"colour"`
}

type kindEntry struct {
	BaseColour   string        `yaml:"base_colour"`
	AttackColour string        `yaml:"attack_colour"`
	Layout       []cellEntry   `yaml:"layout"`
	Frames       [][]cellEntry `yaml:"frames"`
}

type unitListFile struct {
	Units struct {
		Human  *kindEntry `yaml:"human"`
		Lander *kindEntry `yaml:"lander"`
	} `yaml:"units"`
}

// Cell is one resolved layout cell. Base cells are painted with the unit's
// body colour at render time.
type Cell struct {
	Offset voxel.Coord
	Colour voxel.Colour
	Base   bool
}

// Template is the static shape of one unit kind.
type Template struct {
	BaseColour   voxel.Colour
	AttackColour voxel.Colour
	Cells        []Cell
	Frames       [][]Cell
}

// Layout paints the template's base cells with body.
func (t *Template) Layout(body voxel.Colour) voxel.Layout {
	l := make(voxel.Layout, len(t.Cells)+4)
	paint(l, t.Cells, body)
	return l
}

// Frame overlays animation frame n (mod frame count) onto l.
func (t *Template) Frame(l voxel.Layout, n uint32, body voxel.Colour) {
	if len(t.Frames) == 0 {
		return
	}
	paint(l, t.Frames[int(n%uint32(len(t.Frames)))], body)
}

func paint(l voxel.Layout, cells []Cell, body voxel.Colour) {
	for _, c := range cells {
		if c.Base {
			l[c.Offset] = body
		} else {
			l[c.Offset] = c.Colour
		}
	}
}

// UnitTable holds the templates for every unit kind.
type UnitTable struct {
	Human  Template
	Lander Template
}

// LoadUnitTable loads unit templates from a YAML file. An empty path loads the
// built-in table.
func LoadUnitTable(path string) (*UnitTable, error) {
	raw := defaultUnitsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read unit table: %w", err)
		}
		raw = b
	}
	return ParseUnitTable(raw)
}

// ParseUnitTable decodes and validates a unit table document.
func ParseUnitTable(raw []byte) (*UnitTable, error) {
	var f unitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse unit table: %w", err)
	}
	if f.Units.Human == nil || f.Units.Lander == nil {
		return nil, errors.New("parse unit table: both human and lander entries are required")
	}
	human, err := f.Units.Human.resolve("human")
	if err != nil {
		return nil, err
	}
	lander, err := f.Units.Lander.resolve("lander")
	if err != nil {
		return nil, err
	}
	if lander.AttackColour == voxel.ColourNone {
		lander.AttackColour = voxel.ColourRed
	}
	return &UnitTable{Human: human, Lander: lander}, nil
}

func (k *kindEntry) resolve(kind string) (Template, error) {
	var t Template
	var err error
	if t.BaseColour, err = voxel.ParseColour(k.BaseColour); err != nil {
		return t, fmt.Errorf("%s base_colour: %w", kind, err)
	}
	if k.AttackColour != "" {
		if t.AttackColour, err = voxel.ParseColour(k.AttackColour); err != nil {
			return t, fmt.Errorf("%s attack_colour: %w", kind, err)
		}
	}
	if len(k.Layout) == 0 {
		return t, fmt.Errorf("%s: empty layout", kind)
	}
	if t.Cells, err = resolveCells(kind, k.Layout); err != nil {
		return t, err
	}
	for i, fr := range k.Frames {
		cells, err := resolveCells(fmt.Sprintf("%s frame %d", kind, i), fr)
		if err != nil {
			return t, err
		}
		t.Frames = append(t.Frames, cells)
	}
	return t, nil
}

func resolveCells(what string, entries []cellEntry) ([]Cell, error) {
	seen := make(map[voxel.Coord]bool, len(entries))
	cells := make([]Cell, 0, len(entries))
	for _, e := range entries {
		off := voxel.Coord{X: e.Offset[0], Y: e.Offset[1], Z: e.Offset[2]}
		if seen[off] {
			return nil, fmt.Errorf("%s: duplicate offset %s", what, off)
		}
		seen[off] = true
		c := Cell{Offset: off}
		if e.Colour == baseColourName {
			c.Base = true
		} else {
			col, err := voxel.ParseColour(e.Colour)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", what, err)
			}
			c.Colour = col
		}
		cells = append(cells, c)
	}
	return cells, nil
}
