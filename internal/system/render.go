package system

import (
	"time"

	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/voxel"
	"github.com/landfall/sim/internal/world"
)

// RenderSystem rebuilds each unit's layout from its template and state and
// re-stamps its footprint into the unit grid in registry order.
// Phase 3 (PostUpdate).
type RenderSystem struct {
	state *world.State
}

func NewRenderSystem(ws *world.State) *RenderSystem {
	return &RenderSystem{state: ws}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RenderSystem) Update(_ time.Duration) {
	s.state.EachUnit(func(u *world.Unit) {
		if s.state.Pending(u.ID) {
			return
		}
		switch u.Kind {
		case world.KindHuman:
			h, _ := s.state.Human(u.ID)
			u.Layout = s.humanLayout(h)
		case world.KindLander:
			l, _ := s.state.Lander(u.ID)
			u.Layout = s.landerLayout(l)
		}
		s.state.Stamp(u)
	})
}

// humanLayout turns a carried human upside down.
func (s *RenderSystem) humanLayout(h *world.Human) voxel.Layout {
	t := &s.state.Templates.Human
	layout := t.Layout(t.BaseColour)
	if h.State == world.HumanFloating {
		return layout.FlipY()
	}
	return layout
}

// landerLayout paints the body red while attacking and alternates the two
// animation frames every tick.
func (s *RenderSystem) landerLayout(l *world.Lander) voxel.Layout {
	t := &s.state.Templates.Lander
	body := t.BaseColour
	if l.State == world.LanderAttacking {
		body = t.AttackColour
	}
	layout := t.Layout(body)
	t.Frame(layout, l.Cycle, body)
	return layout
}
