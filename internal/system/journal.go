package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/landfall/sim/internal/core/event"
	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/persist"
	"github.com/landfall/sim/internal/voxel"
)

// JournalWriter stores batches of lifecycle rows. persist.JournalRepo
// implements it.
type JournalWriter interface {
	WriteEvents(ctx context.Context, rows []persist.EventRow) error
}

// JournalSystem records unit lifecycle events and writes them in batches
// every interval ticks. Phase 5 (Persist).
type JournalSystem struct {
	writer    JournalWriter
	runID     string
	log       *zap.Logger
	pending   []persist.EventRow
	tick      uint64
	tickCount int
	interval  int
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, runID string, log *zap.Logger, intervalTicks int) *JournalSystem {
	s := &JournalSystem{
		writer:   writer,
		runID:    runID,
		log:      log,
		pending:  make([]persist.EventRow, 0, 64),
		interval: max(intervalTicks, 1),
	}
	event.Subscribe(bus, func(e event.UnitSpawned) {
		s.record("spawned", uint64(e.ID), 0, e.Kind, "", e.At)
	})
	event.Subscribe(bus, func(e event.HumanCaptured) {
		s.record("captured", uint64(e.Human), uint64(e.Lander), "human", "", e.At)
	})
	event.Subscribe(bus, func(e event.HumanDropped) {
		s.record("dropped", uint64(e.Human), uint64(e.Lander), "human", "", e.At)
	})
	event.Subscribe(bus, func(e event.UnitKilled) {
		s.record("killed", uint64(e.ID), 0, e.Kind, string(e.Cause), e.At)
	})
	event.Subscribe(bus, func(e event.LanderExited) {
		s.record("exited", uint64(e.Lander), uint64(e.Human), "lander", "", e.At)
	})
	event.Subscribe(bus, func(e event.PlayerHit) {
		s.record("player_hit", uint64(e.Lander), 0, "lander", "", e.From)
	})
	return s
}

func (s *JournalSystem) record(kind string, unit, other uint64, unitKind, cause string, at voxel.Coord) {
	s.pending = append(s.pending, persist.EventRow{
		RunID:    s.runID,
		Tick:     s.tick,
		Kind:     kind,
		Unit:     unit,
		Other:    other,
		UnitKind: unitKind,
		Cause:    cause,
		X:        at.X,
		Y:        at.Y,
		Z:        at.Z,
	})
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tick++
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Pending returns the number of rows not yet written.
func (s *JournalSystem) Pending() int { return len(s.pending) }

// Flush writes all buffered rows now. Called on shutdown so nothing is lost.
// A failed batch is kept and retried on the next flush.
func (s *JournalSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.WriteEvents(ctx, s.pending); err != nil {
		s.log.Error("journal write failed", zap.Int("rows", len(s.pending)), zap.Error(err))
		return
	}
	s.log.Debug("journal written", zap.Int("rows", len(s.pending)))
	s.pending = s.pending[:0]
}
