package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/world"
)

// InputSystem drains queued player and operator commands, then coasts the
// player and cools the player laser. It also runs alone between simulation
// ticks so movement stays frame-smooth. Phase 0 (Input).
type InputSystem struct {
	state     *world.State
	queue     *world.CommandQueue
	reset     func()
	removeAll func()
	log       *zap.Logger
}

// NewInputSystem wires the command queue. reset and removeAll back the
// CmdReset and CmdRemoveAll commands.
func NewInputSystem(ws *world.State, queue *world.CommandQueue, reset, removeAll func(), log *zap.Logger) *InputSystem {
	return &InputSystem{
		state:     ws,
		queue:     queue,
		reset:     reset,
		removeAll: removeAll,
		log:       log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(dt time.Duration) {
	s.queue.Drain(s.apply)

	p := s.state.Player
	p.Cool(dt)
	p.Move(s.state.Grid, world.Coast)
}

func (s *InputSystem) apply(c world.Command) {
	p := s.state.Player
	switch c.Kind {
	case world.CmdMove:
		p.Move(s.state.Grid, c.Direction)
	case world.CmdLook:
		p.Turn(c.Yaw, c.Pitch)
	case world.CmdFire:
		s.fire()
	case world.CmdReset:
		s.reset()
	case world.CmdRemoveAll:
		s.removeAll()
	case world.CmdTogglePause:
		s.state.Paused = !s.state.Paused
		s.log.Info("pause toggled", zap.Bool("paused", s.state.Paused))
	case world.CmdToggleFly:
		p.FlyControl = !p.FlyControl
		if p.FlyControl {
			p.Pos[1] = float32(s.state.Grid.Y - s.state.Tuning.MapClear)
		}
		s.log.Info("fly controls toggled", zap.Bool("fly", p.FlyControl))
	case world.CmdToggleTraction:
		p.Traction = !p.Traction
		s.log.Info("traction toggled", zap.Bool("traction", p.Traction))
	case world.CmdToggleTimer:
		s.state.TimerUnlock = !s.state.TimerUnlock
		s.log.Info("timer unlock toggled", zap.Bool("timer_unlock", s.state.TimerUnlock))
	default:
		s.log.Warn("unknown command", zap.Uint8("kind", uint8(c.Kind)))
	}
}

// fire shoots along the look direction. The first unit the beam meets is
// killed; the AI step or cleanup removes it.
func (s *InputSystem) fire() {
	p := s.state.Player
	if p.Laser.Active {
		return
	}
	hit, end := s.state.RayCast(p.Pos, p.Look(), p.LaserRange)
	p.Fire(end)
	if hit == nil {
		return
	}
	switch hit.Kind {
	case world.KindHuman:
		if h, ok := s.state.Human(hit.ID); ok {
			h.Shoot()
		}
	case world.KindLander:
		if l, ok := s.state.Lander(hit.ID); ok {
			l.Shoot()
		}
	}
	s.log.Debug("player shot unit", zap.Stringer("unit", hit))
}
