package world

import "github.com/landfall/sim/internal/core/event"

type HumanState uint8

const (
	HumanSettled HumanState = iota
	HumanFalling
	HumanFloating
	HumanKilled
)

func (s HumanState) String() string {
	switch s {
	case HumanSettled:
		return "settled"
	case HumanFalling:
		return "falling"
	case HumanFloating:
		return "floating"
	case HumanKilled:
		return "killed"
	}
	return "unknown"
}

// Human stands on terrain until a lander lifts it. Other units change a
// human only through its action methods.
type Human struct {
	*Unit
	State         HumanState
	TerrainHeight int // origin.y when standing on the ground below
	FallHeight    int // voxels fallen since the last drop
}

// Lift raises the human one voxel and marks it carried.
func (h *Human) Lift() {
	if h.State == HumanKilled {
		return
	}
	h.Target.Y++
	h.Available = false
	h.State = HumanFloating
}

// Drop releases the human to fall back to the ground.
func (h *Human) Drop() {
	if h.State == HumanKilled {
		return
	}
	h.FallHeight = 0
	h.Available = true
	h.State = HumanFalling
}

// Capture takes the human out of play after its captor escaped.
func (h *Human) Capture() {
	h.Available = false
	h.State = HumanKilled
	h.Cause = event.CauseCaptured
}

func (h *Human) Shoot() {
	h.Available = false
	h.State = HumanKilled
	h.Cause = event.CauseShot
}

func (h *Human) Terminal() bool { return h.State == HumanKilled }
