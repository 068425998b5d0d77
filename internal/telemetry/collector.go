package telemetry

import "github.com/landfall/sim/internal/core/event"

// Collector accumulates lifecycle events within tick windows and produces
// WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	spawned    int
	claims     int
	drops      int
	exits      int
	playerHits int
	kills      map[event.Cause]int
}

// NewCollector creates a collector emitting one window every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: uint64(windowTicks),
		kills:       make(map[event.Cause]int, 4),
	}
}

// Subscribe feeds the collector from bus.
func (c *Collector) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.UnitSpawned) { c.spawned++ })
	event.Subscribe(bus, func(event.HumanCaptured) { c.claims++ })
	event.Subscribe(bus, func(event.HumanDropped) { c.drops++ })
	event.Subscribe(bus, func(event.LanderExited) { c.exits++ })
	event.Subscribe(bus, func(event.PlayerHit) { c.playerHits++ })
	event.Subscribe(bus, func(e event.UnitKilled) { c.kills[e.Cause]++ })
}

// ShouldFlush reports whether tick closes the current window.
func (c *Collector) ShouldFlush(tick uint64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush closes the window ending at tick and resets the counters.
func (c *Collector) Flush(tick uint64, pop Population) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Humans:          pop.Humans,
		HumansAvailable: pop.HumansAvailable,
		Landers:         pop.Landers,
		Searching:       pop.Searching,
		Pursuing:        pop.Pursuing,
		Capturing:       pop.Capturing,
		Escaping:        pop.Escaping,
		Attacking:       pop.Attacking,
		Spawned:         c.spawned,
		Claims:          c.claims,
		Drops:           c.drops,
		Exits:           c.exits,
		Shot:            c.kills[event.CauseShot],
		FellToDeath:     c.kills[event.CauseFall],
		Captured:        c.kills[event.CauseCaptured],
		Removed:         c.kills[event.CauseRemoved],
		PlayerHits:      c.playerHits,
	}
	c.windowStartTick = tick
	c.spawned, c.claims, c.drops, c.exits, c.playerHits = 0, 0, 0, 0, 0
	clear(c.kills)
	return stats
}
