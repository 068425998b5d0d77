package world

import (
	"fmt"

	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/core/event"
	"github.com/landfall/sim/internal/voxel"
)

// Kind tags a registry entry with its unit variant.
type Kind uint8

const (
	KindHuman Kind = iota + 1
	KindLander
)

func (k Kind) String() string {
	switch k {
	case KindHuman:
		return "human"
	case KindLander:
		return "lander"
	}
	return "unknown"
}

// Unit is the capability set shared by every variant. Variant structs embed a
// pointer to it, so the registry and the variant stores see the same unit.
// Accessed only from the game loop goroutine.
type Unit struct {
	ID        ecs.EntityID
	Kind      Kind
	Origin    voxel.Coord // authoritative position
	Target    voxel.Coord // where the unit is heading
	Available bool        // may be claimed by a lander
	Layout    voxel.Layout

	// Collision flags from the last movement attempt.
	CollidingGround bool
	CollidingUnit   bool

	Cycle uint32 // ticks lived
	Cause event.Cause

	footprint []voxel.Coord // cells currently stamped with ID
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d", u.Kind, u.ID.Index())
}

func (u *Unit) AtTarget() bool { return u.Origin == u.Target }

// Footprint returns the grid cells the unit currently occupies.
func (u *Unit) Footprint() []voxel.Coord { return u.footprint }
