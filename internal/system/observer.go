package system

import (
	"cmp"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/landfall/sim/internal/core/ecs"
	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/net"
	"github.com/landfall/sim/internal/voxel"
	"github.com/landfall/sim/internal/world"
)

// SessionSource hands over connected and disconnected observer sessions.
// net.Server implements it.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	DeadSessions() <-chan uint64
}

// ObserverSystem admits observer sessions and broadcasts a world frame to
// them every N ticks. Phase 4 (Output).
type ObserverSystem struct {
	state    *world.State
	source   SessionSource
	store    *net.SessionStore
	log      *zap.Logger
	tick     uint64
	interval uint64
}

func NewObserverSystem(ws *world.State, source SessionSource, log *zap.Logger, frameTicks int) *ObserverSystem {
	return &ObserverSystem{
		state:    ws,
		source:   source,
		store:    net.NewSessionStore(),
		log:      log,
		interval: uint64(max(frameTicks, 1)),
	}
}

func (s *ObserverSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ObserverSystem) Update(_ time.Duration) {
	s.admit()
	for _, id := range s.store.RemoveClosed() {
		s.log.Info("observer session closed", zap.Uint64("session", id))
	}
	s.tick++
	if s.tick%s.interval != 0 || s.store.Len() == 0 {
		return
	}
	f := BuildFrame(s.state, s.tick)
	data, err := net.EncodeFrame(f)
	if err != nil {
		s.log.Error("frame encode failed", zap.Error(err))
		return
	}
	s.store.Each(func(sess *net.Session) {
		sess.Send(data)
		sess.FlushOutput()
	})
}

func (s *ObserverSystem) admit() {
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		case id := <-s.source.DeadSessions():
			s.store.Remove(id)
			s.log.Info("observer disconnected", zap.Uint64("session", id))
		default:
			return
		}
	}
}

// Sessions returns the number of connected observers.
func (s *ObserverSystem) Sessions() int { return s.store.Len() }

// BuildFrame snapshots the world for observers.
func BuildFrame(ws *world.State, tick uint64) *net.Frame {
	p := ws.Player
	f := &net.Frame{
		Tick:   tick,
		Paused: ws.Paused,
		Player: net.PlayerView{Pos: p.Pos, Yaw: p.Yaw, Pitch: p.Pitch, Hits: p.Hits},
		Lasers: make([]net.LaserView, 0, 4),
		Units:  make([]net.UnitView, 0, ws.UnitCount()),
	}
	if p.Laser.Active {
		f.Lasers = append(f.Lasers, laserView(0, &p.Laser))
	}
	ws.EachLaser(func(owner ecs.EntityID, l *world.Laser) {
		f.Lasers = append(f.Lasers, laserView(uint64(owner), l))
	})
	ws.EachUnit(func(u *world.Unit) {
		if ws.Pending(u.ID) {
			return
		}
		f.Units = append(f.Units, net.UnitView{
			ID:     uint64(u.ID),
			Kind:   u.Kind.String(),
			State:  unitState(ws, u),
			Origin: [3]int{u.Origin.X, u.Origin.Y, u.Origin.Z},
			Cells:  cellViews(u.Layout),
		})
	})
	return f
}

func laserView(owner uint64, l *world.Laser) net.LaserView {
	return net.LaserView{Owner: owner, From: l.From, To: l.To}
}

func unitState(ws *world.State, u *world.Unit) string {
	switch u.Kind {
	case world.KindHuman:
		if h, ok := ws.Human(u.ID); ok {
			return h.State.String()
		}
	case world.KindLander:
		if l, ok := ws.Lander(u.ID); ok {
			return l.State.String()
		}
	}
	return ""
}

func cellViews(l voxel.Layout) []net.CellView {
	cells := make([]net.CellView, 0, len(l))
	for off, col := range l {
		cells = append(cells, net.CellView{Offset: [3]int{off.X, off.Y, off.Z}, Colour: col.String()})
	}
	slices.SortFunc(cells, func(a, b net.CellView) int {
		for i := range a.Offset {
			if c := cmp.Compare(a.Offset[i], b.Offset[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return cells
}
