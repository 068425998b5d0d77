package system

import (
	"time"

	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/world"
)

// CleanupSystem destroys units still left in a terminal state (shot while the
// AI was paused) and frees the slots of everything destroyed this tick.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	state *world.State
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{state: ws}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.state.EachHuman(func(h *world.Human) {
		if h.Terminal() {
			s.state.Destroy(h.ID, h.Cause)
		}
	})
	s.state.EachLander(func(l *world.Lander) {
		if l.Terminal() {
			s.state.Destroy(l.ID, l.Cause)
		}
	})
	s.state.Flush()
}
