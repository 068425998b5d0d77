package system

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/core/event"
	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/world"
)

// UnitAISystem runs one AI step for every unit in registry order, then the
// shared movement step. Skipped while paused. Phase 2 (Update).
type UnitAISystem struct {
	state *world.State
	log   *zap.Logger
}

func NewUnitAISystem(ws *world.State, log *zap.Logger) *UnitAISystem {
	return &UnitAISystem{state: ws, log: log}
}

func (s *UnitAISystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UnitAISystem) Update(_ time.Duration) {
	if s.state.Paused {
		return
	}
	s.state.EachUnit(func(u *world.Unit) {
		if s.state.Pending(u.ID) {
			return
		}
		switch u.Kind {
		case world.KindHuman:
			h, _ := s.state.Human(u.ID)
			s.stepHuman(h)
		case world.KindLander:
			l, _ := s.state.Lander(u.ID)
			s.stepLander(l)
		}
	})
}

// --- Human ---

func (s *UnitAISystem) stepHuman(h *world.Human) {
	switch h.State {
	case world.HumanSettled:
		if h.FallHeight >= s.state.Tuning.MapClear {
			h.State = world.HumanKilled
			h.Cause = event.CauseFall
		}
	case world.HumanFalling:
		if h.Origin.Y == h.TerrainHeight {
			h.State = world.HumanSettled
		} else {
			h.FallHeight++
			h.Target.Y = max(h.Target.Y-1, h.TerrainHeight)
		}
	case world.HumanFloating:
		if h.Target.Y-2 > s.state.Grid.Y {
			panic(fmt.Sprintf("system: %s carried above the ceiling at %s", h, h.Target))
		}
	case world.HumanKilled:
		s.state.Destroy(h.ID, h.Cause)
		return
	}
	s.advance(h.Unit)
}

// --- Lander ---

func (s *UnitAISystem) stepLander(l *world.Lander) {
	if l.State == world.LanderKilled {
		s.state.Destroy(l.ID, l.Cause)
		return
	}
	s.decide(l)
	if l.DazeCounter > 0 {
		l.DazeCounter--
	}
	s.act(l)
	if l.CollidingGround {
		s.bounceGround(l)
	}
	if l.CollidingUnit {
		s.bounceUnit(l)
	}
	s.advance(l.Unit)
}

// decide picks the lander's state for this tick. The first matching rule
// wins. Attacking and killed landers keep their state.
func (s *UnitAISystem) decide(l *world.Lander) {
	if l.Sticky() {
		return
	}
	captive, held := s.state.Captive(l)
	mc := s.state.Tuning.MapClear
	dist := 0
	if held {
		dist = l.Origin.Y - captive.Origin.Y
	}
	switch {
	case l.DazeCounter > 0:
		l.State = world.LanderSearching
	case held && s.state.Grid.Y-l.Origin.Y < mc:
		l.State = world.LanderExited
	case held && dist > 0 && dist < 2*mc:
		l.State = world.LanderEscaping
	case held && dist > 0:
		l.State = world.LanderCapturing
	default:
		// A captive that can no longer be captured is let go before
		// looking for another, so a lander never holds two humans.
		if held {
			s.state.AbandonCaptive(l, true)
		}
		if h, ok := s.state.FindPursuableHuman(l); ok {
			l.State = world.LanderPursuing
			s.state.SetCaptive(l, h)
			return
		}
		l.State = world.LanderSearching
	}
}

func (s *UnitAISystem) act(l *world.Lander) {
	switch l.State {
	case world.LanderSearching:
		s.search(l)
	case world.LanderPursuing:
		if h, ok := s.state.Captive(l); ok {
			l.Target.X = h.Origin.X
			l.Target.Z = h.Origin.Z
			l.Target.Y = h.Origin.Y + s.state.Tuning.MapClear
		}
	case world.LanderCapturing:
		if h, ok := s.state.Captive(l); ok {
			l.Target.Y = h.Origin.Y + s.state.Tuning.MapClear
		}
	case world.LanderEscaping:
		if l.Cycle%uint32(s.state.Tuning.EscapeLiftInterval) != 0 {
			return
		}
		l.Target.Y++
		if h, ok := s.state.Captive(l); ok {
			h.Lift()
		}
	case world.LanderExited:
		s.exit(l)
	case world.LanderAttacking:
		s.attack(l)
	}
}

func (s *UnitAISystem) search(l *world.Lander) {
	mc := s.state.Tuning.MapClear
	xz := s.state.Grid.XZ
	o := l.Origin
	if o.X <= mc || o.X >= xz-mc || o.Z <= mc || o.Z >= xz-mc || l.AtTarget() {
		s.state.AbandonCaptive(l, true)
		l.Target = s.state.RandomEdgeCoord()
		s.log.Debug("lander searching elsewhere", zap.Stringer("lander", l), zap.Stringer("target", l.Target))
	}
}

func (s *UnitAISystem) exit(l *world.Lander) {
	var hid ecs.EntityID
	if h, ok := s.state.Captive(l); ok {
		hid = h.ID
		h.Capture()
		s.log.Debug("lander escaped with human", zap.Stringer("lander", l), zap.Stringer("human", h))
	}
	s.state.AbandonCaptive(l, false)
	l.State = world.LanderAttacking
	event.Emit(s.state.Bus, event.LanderExited{Lander: l.ID, Human: hid, At: l.Origin})
}

func (s *UnitAISystem) attack(l *world.Lander) {
	if l.AtTarget() {
		l.Target = s.state.RandomAerial()
	}
	laser := s.state.LanderLaser(l)
	p := s.state.Player
	r := float64(s.state.Tuning.AttackRange)
	pos := p.Pos
	if math.Abs(float64(l.Origin.X)-float64(pos.X())) >= r || math.Abs(float64(l.Origin.Z)-float64(pos.Z())) >= r {
		laser.Active = false
		return
	}
	laser.Aim(l.Origin, pos.Sub(mgl32.Vec3{0, 1, 0}))
	p.Hits++
	event.Emit(s.state.Bus, event.PlayerHit{Lander: l.ID, From: l.Origin})
	s.log.Debug("lander shot player", zap.Stringer("lander", l))
}

// bounceGround lifts the lander off whatever it struck and lets go of its captive.
func (s *UnitAISystem) bounceGround(l *world.Lander) {
	s.log.Debug("lander hitting ground", zap.Stringer("lander", l))
	up := l.Origin
	up.Y++
	if s.state.Grid.InBounds(up) {
		s.state.MoveUnit(l.Unit, up)
	}
	l.Target.Y += s.state.Tuning.BounceLift
	if h, ok := s.state.Captive(l); ok {
		h.Target.Y += s.state.Tuning.BounceLift
		s.state.AbandonCaptive(l, true)
	}
	s.daze(l, world.LanderHittingGround)
}

// bounceUnit mirrors the lander's target across the world centre.
func (s *UnitAISystem) bounceUnit(l *world.Lander) {
	s.log.Debug("lander hitting unit", zap.Stringer("lander", l))
	xz := s.state.Grid.XZ
	l.Target.X = xz - l.Target.X
	l.Target.Z = xz - l.Target.Z
	l.Target.Y++
	s.state.AbandonCaptive(l, true)
	s.daze(l, world.LanderHittingUnit)
}

func (s *UnitAISystem) daze(l *world.Lander, hit world.LanderState) {
	l.DazeCounter = s.state.Tuning.DazeTicks()
	if !l.Sticky() {
		l.State = hit
	}
}

// --- Shared movement ---

// advance steps u one voxel toward its clamped target unless the new
// position collides, recording what it hit.
func (s *UnitAISystem) advance(u *world.Unit) {
	u.Cycle++
	next := u.Origin.StepToward(s.state.ClampTarget(u.Target))
	if next == u.Origin {
		u.CollidingGround, u.CollidingUnit = false, false
		return
	}
	u.CollidingGround, u.CollidingUnit = s.state.Probe(u, next)
	if u.CollidingGround || u.CollidingUnit {
		return
	}
	s.state.MoveUnit(u, next)
}
