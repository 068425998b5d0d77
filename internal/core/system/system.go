package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain player/observer commands, move player
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: unit AI
	PhasePostUpdate              // 3: layouts + occupancy re-stamp
	PhaseOutput                  // 4: telemetry rows, observer frames
	PhasePersist                 // 5: journal flush
	PhaseCleanup                 // 6: destroy queued units
)

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
