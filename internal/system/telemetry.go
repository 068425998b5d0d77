package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/telemetry"
	"github.com/landfall/sim/internal/world"
)

// TelemetrySystem closes a statistics window every N ticks and writes it to
// the telemetry CSV. Phase 4 (Output).
type TelemetrySystem struct {
	state     *world.State
	collector *telemetry.Collector
	out       *telemetry.OutputManager
	log       *zap.Logger
	tick      uint64
}

// NewTelemetrySystem subscribes collector to the world's bus. out may be nil.
func NewTelemetrySystem(ws *world.State, collector *telemetry.Collector, out *telemetry.OutputManager, log *zap.Logger) *TelemetrySystem {
	collector.Subscribe(ws.Bus)
	return &TelemetrySystem{state: ws, collector: collector, out: out, log: log}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *TelemetrySystem) Update(_ time.Duration) {
	s.tick++
	if !s.collector.ShouldFlush(s.tick) {
		return
	}
	stats := s.collector.Flush(s.tick, Census(s.state))
	if err := s.out.WriteTelemetry(stats); err != nil {
		s.log.Error("telemetry write failed", zap.Error(err))
	}
}

// Census counts live units by kind and lander state.
func Census(ws *world.State) telemetry.Population {
	var pop telemetry.Population
	ws.EachHuman(func(h *world.Human) {
		if ws.Pending(h.ID) {
			return
		}
		pop.Humans++
		if h.Available {
			pop.HumansAvailable++
		}
	})
	ws.EachLander(func(l *world.Lander) {
		if ws.Pending(l.ID) {
			return
		}
		pop.Landers++
		switch l.State {
		case world.LanderSearching, world.LanderHittingGround, world.LanderHittingUnit:
			pop.Searching++
		case world.LanderPursuing:
			pop.Pursuing++
		case world.LanderCapturing:
			pop.Capturing++
		case world.LanderEscaping, world.LanderExited:
			pop.Escaping++
		case world.LanderAttacking:
			pop.Attacking++
		}
	})
	return pop
}
