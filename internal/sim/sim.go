// Package sim assembles the world, the systems and the runner into the
// simulation the host drives.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/landfall/sim/internal/config"
	"github.com/landfall/sim/internal/core/event"
	coresys "github.com/landfall/sim/internal/core/system"
	"github.com/landfall/sim/internal/data"
	"github.com/landfall/sim/internal/scripting"
	"github.com/landfall/sim/internal/system"
	"github.com/landfall/sim/internal/telemetry"
	"github.com/landfall/sim/internal/terrain"
	"github.com/landfall/sim/internal/voxel"
	"github.com/landfall/sim/internal/world"
)

// ScenarioSource decides what InitAll places. scripting.Engine implements it.
type ScenarioSource interface {
	Scenario(info scripting.WorldInfo) (scripting.Scenario, bool)
}

// Options wires a Sim. Only Config and Log are required; nil collaborators
// are built from Config or disabled.
type Options struct {
	Config *config.Config
	Log    *zap.Logger

	// Terrain defaults to the loader named by config.World.Terrain.
	Terrain terrain.Loader
	// Templates defaults to the table at config.Data.UnitTable.
	Templates *data.UnitTable
	// Scenario defaults to the configured unit counts.
	Scenario ScenarioSource
	Commands *world.CommandQueue

	// Journal, Telemetry and Observers are optional outputs.
	Journal   system.JournalWriter
	RunID     string
	Telemetry *telemetry.OutputManager
	Observers system.SessionSource
}

// Sim owns the world state and the phased runner.
type Sim struct {
	cfg      *config.Config
	state    *world.State
	runner   *coresys.Runner
	bus      *event.Bus
	commands *world.CommandQueue
	scenario ScenarioSource
	journal  *system.JournalSystem
	seed     int64
	log      *zap.Logger
}

func New(opts Options) (*Sim, error) {
	cfg := opts.Config
	log := opts.Log

	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	templates := opts.Templates
	if templates == nil {
		t, err := data.LoadUnitTable(cfg.Data.UnitTable)
		if err != nil {
			return nil, err
		}
		templates = t
	}

	loader := opts.Terrain
	if loader == nil {
		wc := cfg.World
		wc.Seed = seed
		l, err := terrain.New(wc)
		if err != nil {
			return nil, err
		}
		loader = l
	}
	grid := voxel.NewGrid(cfg.World.XZ, cfg.World.Y)
	if err := loader.Load(grid); err != nil {
		return nil, fmt.Errorf("load terrain: %w", err)
	}

	commands := opts.Commands
	if commands == nil {
		commands = world.NewCommandQueue(256)
	}

	bus := event.NewBus()
	ws := world.NewState(grid, templates, world.TuningFrom(cfg), world.NewPlayer(cfg.Player), bus, rand.New(rand.NewSource(seed)), log)
	ws.Paused = cfg.Game.PauseUnits
	ws.TimerUnlock = cfg.Game.TimerUnlock

	s := &Sim{
		cfg:      cfg,
		state:    ws,
		runner:   coresys.NewRunner(),
		bus:      bus,
		commands: commands,
		scenario: opts.Scenario,
		seed:     seed,
		log:      log,
	}

	s.runner.Register(system.NewInputSystem(ws, commands, s.ResetAll, s.RemoveAll, log))
	s.runner.Register(system.NewEventDispatchSystem(bus))
	s.runner.Register(system.NewUnitAISystem(ws, log))
	s.runner.Register(system.NewRenderSystem(ws))
	s.runner.Register(system.NewTelemetrySystem(ws, telemetry.NewCollector(cfg.Telemetry.WindowTicks), opts.Telemetry, log))
	if opts.Observers != nil {
		s.runner.Register(system.NewObserverSystem(ws, opts.Observers, log, cfg.Observer.FrameTicks))
	}
	if opts.Journal != nil {
		s.journal = system.NewJournalSystem(bus, opts.Journal, opts.RunID, log, cfg.Database.FlushTicks)
		s.runner.Register(s.journal)
	}
	s.runner.Register(system.NewCleanupSystem(ws))

	log.Info("simulation ready",
		zap.Int("xz", grid.XZ),
		zap.Int("y", grid.Y),
		zap.Int("max_terrain", grid.MaxHeight()),
		zap.Int64("seed", seed),
	)
	return s, nil
}

// State exposes the world for inspection. Game loop only.
func (s *Sim) State() *world.State { return s.state }

// Commands is the queue input collaborators push onto.
func (s *Sim) Commands() *world.CommandQueue { return s.commands }

func (s *Sim) Seed() int64 { return s.seed }

// Ticks returns how many full ticks have run.
func (s *Sim) Ticks() uint64 { return s.runner.Ticks() }

// Cycle advances the simulation one tick.
func (s *Sim) Cycle() {
	s.runner.Tick(s.cfg.Game.TickRate)
}

// Frame applies input and player movement between ticks.
func (s *Sim) Frame(dt time.Duration) {
	s.runner.TickPhase(coresys.PhaseInput, dt)
}

// Submit queues a command for the next Frame or Cycle. It reports false
// when the queue is full.
func (s *Sim) Submit(c world.Command) bool {
	return s.commands.Push(c)
}

// RemoveAll destroys every unit and releases grid occupancy.
func (s *Sim) RemoveAll() {
	n := s.state.UnitCount()
	s.state.RemoveAll()
	s.log.Info("all units removed", zap.Int("count", n))
}

// ResetAll clears the world and places units again.
func (s *Sim) ResetAll() {
	s.RemoveAll()
	s.InitAll()
}

// InitAll places the scenario's units, or the configured counts when no
// scenario applies.
func (s *Sim) InitAll() {
	humans, aliens := s.cfg.Units.Humans, s.cfg.Units.Aliens
	if s.scenario != nil {
		sc, ok := s.scenario.Scenario(scripting.WorldInfo{
			XZ:       s.state.Grid.XZ,
			Y:        s.state.Grid.Y,
			MapClear: s.state.Tuning.MapClear,
		})
		if ok {
			humans, aliens = sc.Humans, sc.Aliens
			s.placeExplicit(sc.Units)
		}
	}
	placedH := s.PlaceRandomHumans(humans)
	placedA := s.PlaceRandomAliens(aliens)
	s.log.Info("units placed",
		zap.Int("humans", placedH),
		zap.Int("aliens", placedA),
		zap.Int("total", s.state.UnitCount()),
	)
}

func (s *Sim) placeExplicit(units []scripting.Placement) {
	for _, p := range units {
		at := voxel.Coord{X: p.X, Y: p.Y, Z: p.Z}
		var err error
		switch p.Kind {
		case "human":
			_, err = s.PlaceHuman(at)
		case "lander":
			_, err = s.PlaceLander(at)
		default:
			err = fmt.Errorf("unknown unit kind %q", p.Kind)
		}
		if err != nil {
			s.log.Warn("scenario placement skipped", zap.Error(err))
		}
	}
}

// PlaceRandomHumans places up to n humans and returns how many fit.
func (s *Sim) PlaceRandomHumans(n int) int {
	placed := s.state.PlaceRandomHumans(n)
	if placed < n {
		s.log.Warn("not every human could be placed", zap.Int("wanted", n), zap.Int("placed", placed))
	}
	return placed
}

// PlaceRandomAliens places up to n landers and returns how many fit.
func (s *Sim) PlaceRandomAliens(n int) int {
	placed := s.state.PlaceRandomAliens(n)
	if placed < n {
		s.log.Warn("not every lander could be placed", zap.Int("wanted", n), zap.Int("placed", placed))
	}
	return placed
}

// PlaceHuman stands a human on the terrain of column (at.X, at.Z).
func (s *Sim) PlaceHuman(at voxel.Coord) (*world.Human, error) {
	if !s.inColumns(at) {
		return nil, fmt.Errorf("place human: %s outside the world", at)
	}
	return s.state.PlaceHuman(at)
}

// PlaceLander puts a lander at at.
func (s *Sim) PlaceLander(at voxel.Coord) (*world.Lander, error) {
	if !s.state.Grid.InBounds(at) {
		return nil, fmt.Errorf("place lander: %s outside the world", at)
	}
	return s.state.PlaceLander(at)
}

func (s *Sim) inColumns(at voxel.Coord) bool {
	g := s.state.Grid
	return at.X >= 0 && at.X < g.XZ && at.Z >= 0 && at.Z < g.XZ
}

// Close writes any journal rows still buffered.
func (s *Sim) Close() {
	if s.journal != nil {
		s.journal.Flush()
	}
}
