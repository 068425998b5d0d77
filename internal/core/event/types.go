package event

import (
	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/voxel"
)

// Cause explains why a unit left play.
type Cause string

const (
	CauseShot     Cause = "shot"
	CauseFall     Cause = "fall"
	CauseCaptured Cause = "captured"
	CauseRemoved  Cause = "removed"
)

type UnitSpawned struct {
	ID   ecs.EntityID
	Kind string
	At   voxel.Coord
}

// HumanCaptured fires when a lander claims a human as its captive.
type HumanCaptured struct {
	Human  ecs.EntityID
	Lander ecs.EntityID
	At     voxel.Coord
}

type HumanDropped struct {
	Human  ecs.EntityID
	Lander ecs.EntityID
	At     voxel.Coord
}

type UnitKilled struct {
	ID    ecs.EntityID
	Kind  string
	Cause Cause
	At    voxel.Coord
}

// LanderExited fires when a lander reaches the ceiling with its captive and
// turns hostile.
type LanderExited struct {
	Lander ecs.EntityID
	Human  ecs.EntityID
	At     voxel.Coord
}

type PlayerHit struct {
	Lander ecs.EntityID
	From   voxel.Coord
}
