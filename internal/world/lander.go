package world

import (
	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/core/event"
)

type LanderState uint8

const (
	LanderSearching LanderState = iota
	LanderPursuing
	LanderCapturing
	LanderEscaping
	LanderExited
	LanderAttacking
	LanderHittingGround
	LanderHittingUnit
	LanderKilled
)

var landerStateNames = [...]string{
	LanderSearching:     "searching",
	LanderPursuing:      "pursuing",
	LanderCapturing:     "capturing",
	LanderEscaping:      "escaping",
	LanderExited:        "exited",
	LanderAttacking:     "attacking",
	LanderHittingGround: "hitting_ground",
	LanderHittingUnit:   "hitting_unit",
	LanderKilled:        "killed",
}

func (s LanderState) String() string {
	if int(s) < len(landerStateNames) {
		return landerStateNames[s]
	}
	return "unknown"
}

// Lander hunts humans and carries them to the ceiling. Captive is a
// non-owning reference; State keeps it consistent when either side leaves.
type Lander struct {
	*Unit
	State       LanderState
	Captive     ecs.EntityID
	DazeCounter int // ticks of forced searching left
}

func (l *Lander) Shoot() {
	l.Available = false
	l.State = LanderKilled
	l.Cause = event.CauseShot
}

// Sticky reports whether the lander has left the capture cycle for good.
func (l *Lander) Sticky() bool {
	return l.State == LanderAttacking || l.State == LanderKilled
}

func (l *Lander) Terminal() bool { return l.State == LanderKilled }

// HasCaptive reports whether the lander holds a human.
func (l *Lander) HasCaptive() bool { return !l.Captive.IsZero() }
