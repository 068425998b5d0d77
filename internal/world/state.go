package world

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/landfall/sim/internal/config"
	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/core/event"
	"github.com/landfall/sim/internal/data"
	"github.com/landfall/sim/internal/voxel"
)

// Tuning holds the unit behaviour constants.
type Tuning struct {
	MapClear           int
	SearchRange        int
	AttackRange        int
	EscapeLiftInterval int
	BounceLift         int
	PlacementAttempts  int
}

func TuningFrom(cfg *config.Config) Tuning {
	return Tuning{
		MapClear:           cfg.World.MapClear,
		SearchRange:        cfg.Units.SearchRange,
		AttackRange:        cfg.Units.AttackRange,
		EscapeLiftInterval: cfg.Units.EscapeLiftInterval,
		BounceLift:         cfg.Units.BounceLift,
		PlacementAttempts:  cfg.Units.PlacementAttempts,
	}
}

// DazeTicks is how long a collision forces a lander to search.
func (t Tuning) DazeTicks() int { return 2 * t.SearchRange }

// State is the unit registry over the voxel grid. It owns unit lifetimes and
// the lander→human capture relation.
// Single-goroutine access only (game loop).
type State struct {
	Grid      *voxel.Grid
	Tuning    Tuning
	Templates *data.UnitTable
	Player    *Player
	Bus       *event.Bus
	Paused    bool

	// TimerUnlock asks the host to tick every frame instead of at the tick rate.
	TimerUnlock bool

	ecs     *ecs.World
	units   *ecs.PtrComponentStore[Unit]
	humans  *ecs.PtrComponentStore[Human]
	landers *ecs.PtrComponentStore[Lander]
	captors map[ecs.EntityID]ecs.EntityID // human → lander
	lasers  map[ecs.EntityID]*Laser       // attacking lander → its laser

	maxHeight int
	rng       *rand.Rand
	log       *zap.Logger
}

func NewState(grid *voxel.Grid, templates *data.UnitTable, tuning Tuning, player *Player, bus *event.Bus, rng *rand.Rand, log *zap.Logger) *State {
	s := &State{
		Grid:      grid,
		Tuning:    tuning,
		Templates: templates,
		Player:    player,
		Bus:       bus,
		ecs:       ecs.NewWorld(),
		units:     ecs.NewPtrComponentStore[Unit](),
		humans:    ecs.NewPtrComponentStore[Human](),
		landers:   ecs.NewPtrComponentStore[Lander](),
		captors:   make(map[ecs.EntityID]ecs.EntityID),
		lasers:    make(map[ecs.EntityID]*Laser),
		rng:       rng,
		log:       log,
	}
	reg := s.ecs.Registry()
	reg.Register("unit", s.units)
	reg.Register("human", s.humans)
	reg.Register("lander", s.landers)
	s.RefreshTerrain()
	return s
}

// RefreshTerrain recomputes cached terrain facts after the grid's terrain changed.
func (s *State) RefreshTerrain() {
	s.maxHeight = s.Grid.MaxHeight()
}

// --- Registry ---

func (s *State) register(kind Kind, at voxel.Coord, layout voxel.Layout) *Unit {
	id := s.ecs.CreateEntity()
	u := &Unit{
		ID:        id,
		Kind:      kind,
		Origin:    at,
		Target:    at,
		Available: true,
		Layout:    layout,
	}
	s.units.Set(id, u)
	return u
}

// AddHuman registers a settled human at at and stamps it into the grid.
func (s *State) AddHuman(at voxel.Coord, terrainHeight int) *Human {
	u := s.register(KindHuman, at, s.Templates.Human.Layout(s.Templates.Human.BaseColour))
	h := &Human{Unit: u, State: HumanSettled, TerrainHeight: terrainHeight}
	s.humans.Set(u.ID, h)
	s.Stamp(u)
	event.Emit(s.Bus, event.UnitSpawned{ID: u.ID, Kind: u.Kind.String(), At: at})
	return h
}

// AddLander registers a searching lander at at and stamps it into the grid.
func (s *State) AddLander(at voxel.Coord) *Lander {
	t := &s.Templates.Lander
	layout := t.Layout(t.BaseColour)
	t.Frame(layout, 0, t.BaseColour)
	u := s.register(KindLander, at, layout)
	l := &Lander{Unit: u, State: LanderSearching}
	s.landers.Set(u.ID, l)
	s.Stamp(u)
	event.Emit(s.Bus, event.UnitSpawned{ID: u.ID, Kind: u.Kind.String(), At: at})
	return l
}

func (s *State) Unit(id ecs.EntityID) (*Unit, bool) { return s.units.Get(id) }

func (s *State) Human(id ecs.EntityID) (*Human, bool) { return s.humans.Get(id) }

func (s *State) Lander(id ecs.EntityID) (*Lander, bool) { return s.landers.Get(id) }

// UnitAt returns the unit occupying c, if any.
func (s *State) UnitAt(c voxel.Coord) (*Unit, bool) {
	if !s.Grid.InBounds(c) {
		return nil, false
	}
	id := s.Grid.Unit(c)
	if id.IsZero() {
		return nil, false
	}
	return s.units.Get(id)
}

// EachUnit visits every registered unit in insertion order. Units added
// during the walk are not visited.
func (s *State) EachUnit(fn func(*Unit)) {
	s.units.Each(func(_ ecs.EntityID, u *Unit) { fn(u) })
}

func (s *State) EachHuman(fn func(*Human)) {
	s.humans.Each(func(_ ecs.EntityID, h *Human) { fn(h) })
}

func (s *State) EachLander(fn func(*Lander)) {
	s.landers.Each(func(_ ecs.EntityID, l *Lander) { fn(l) })
}

func (s *State) UnitCount() int   { return s.units.Len() }
func (s *State) HumanCount() int  { return s.humans.Len() }
func (s *State) LanderCount() int { return s.landers.Len() }

// Pending reports whether id has been destroyed and awaits the end-of-tick flush.
func (s *State) Pending(id ecs.EntityID) bool { return s.ecs.Pending(id) }

// --- Capture protocol ---

// SetCaptive records h as l's captive and marks h unavailable.
// Claiming a human that is already held, or claiming while holding another,
// breaks the one-captor invariant and panics.
func (s *State) SetCaptive(l *Lander, h *Human) {
	if l.HasCaptive() && l.Captive != h.ID {
		panic(fmt.Sprintf("world: %s already holds %d, cannot claim %s", l, l.Captive.Index(), h))
	}
	if captor, ok := s.captors[h.ID]; ok && captor != l.ID {
		panic(fmt.Sprintf("world: %s already held by %d, cannot be claimed by %s", h, captor.Index(), l))
	}
	l.Captive = h.ID
	h.Available = false
	s.captors[h.ID] = l.ID
	event.Emit(s.Bus, event.HumanCaptured{Human: h.ID, Lander: l.ID, At: h.Origin})
}

// Captive returns the human l holds.
func (s *State) Captive(l *Lander) (*Human, bool) {
	if !l.HasCaptive() {
		return nil, false
	}
	h, ok := s.humans.Get(l.Captive)
	if !ok {
		panic(fmt.Sprintf("world: %s holds unknown captive %d", l, l.Captive.Index()))
	}
	return h, true
}

// CaptorOf returns the lander holding h.
func (s *State) CaptorOf(h *Human) (*Lander, bool) {
	id, ok := s.captors[h.ID]
	if !ok {
		return nil, false
	}
	return s.landers.Get(id)
}

// AbandonCaptive releases l's captive. With drop set the human falls back to
// the ground and becomes available again.
func (s *State) AbandonCaptive(l *Lander, drop bool) {
	h, ok := s.Captive(l)
	if !ok {
		return
	}
	l.Captive = 0
	delete(s.captors, h.ID)
	if drop && !h.Terminal() {
		h.Drop()
		event.Emit(s.Bus, event.HumanDropped{Human: h.ID, Lander: l.ID, At: h.Origin})
		s.log.Debug("human dropped", zap.Stringer("human", h), zap.Stringer("lander", l))
	}
}

// --- Lifecycle ---

// Destroy takes a unit out of play: the capture relation and grid cells are
// released now, the registry slot at the next Flush.
func (s *State) Destroy(id ecs.EntityID, cause event.Cause) {
	u, ok := s.units.Get(id)
	if !ok || s.ecs.Pending(id) {
		return
	}
	switch u.Kind {
	case KindLander:
		l, _ := s.landers.Get(id)
		s.AbandonCaptive(l, true)
		l.State = LanderKilled
		delete(s.lasers, id)
	case KindHuman:
		h, _ := s.humans.Get(id)
		if captor, ok := s.CaptorOf(h); ok {
			captor.Captive = 0
			delete(s.captors, id)
		}
		h.State = HumanKilled
	}
	u.Available = false
	if u.Cause == "" {
		u.Cause = cause
	}
	s.unstamp(u)
	s.ecs.MarkForDestruction(id)
	event.Emit(s.Bus, event.UnitKilled{ID: id, Kind: u.Kind.String(), Cause: u.Cause, At: u.Origin})
	s.log.Debug("unit destroyed", zap.Stringer("unit", u), zap.String("cause", string(u.Cause)))
}

// Flush frees the registry slots of destroyed units.
func (s *State) Flush() {
	s.ecs.FlushDestroyQueue(nil)
}

// RemoveAll destroys every unit and clears grid occupancy.
func (s *State) RemoveAll() {
	s.units.Each(func(id ecs.EntityID, _ *Unit) {
		s.Destroy(id, event.CauseRemoved)
	})
	s.Flush()
	s.ecs.Registry().Sizes(func(name string, n int) {
		if n != 0 {
			panic(fmt.Sprintf("world: %d %s components left after RemoveAll", n, name))
		}
	})
	s.Grid.ClearUnits()
	clear(s.captors)
	clear(s.lasers)
	s.Player.Laser.Active = false
}

// --- Grid occupancy ---

// MoveUnit sets u's origin and restamps its footprint, so units moved later
// in the same pass collide with the new position.
func (s *State) MoveUnit(u *Unit, to voxel.Coord) {
	u.Origin = to
	s.Stamp(u)
}

// Stamp rewrites u's footprint from its origin and layout. Cells outside the
// grid or held by another unit are skipped.
func (s *State) Stamp(u *Unit) {
	s.unstamp(u)
	for off := range u.Layout {
		c := u.Origin.Add(off)
		if !s.Grid.InBounds(c) {
			continue
		}
		if occ := s.Grid.Unit(c); !occ.IsZero() {
			continue
		}
		s.Grid.SetUnit(c, u.ID)
		u.footprint = append(u.footprint, c)
	}
}

func (s *State) unstamp(u *Unit) {
	for _, c := range u.footprint {
		if s.Grid.Unit(c) == u.ID {
			s.Grid.SetUnit(c, 0)
		}
	}
	u.footprint = u.footprint[:0]
}

// --- Lasers ---

// LanderLaser returns the laser owned by l, creating it on first use.
func (s *State) LanderLaser(l *Lander) *Laser {
	ls, ok := s.lasers[l.ID]
	if !ok {
		ls = &Laser{}
		s.lasers[l.ID] = ls
	}
	return ls
}

// EachLaser visits the active lander lasers in registry order.
func (s *State) EachLaser(fn func(owner ecs.EntityID, l *Laser)) {
	s.landers.Each(func(id ecs.EntityID, _ *Lander) {
		if ls, ok := s.lasers[id]; ok && ls.Active {
			fn(id, ls)
		}
	})
}
