package world

import (
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"github.com/landfall/sim/internal/config"
	"github.com/landfall/sim/internal/core/ecs"
	"github.com/landfall/sim/internal/core/event"
	"github.com/landfall/sim/internal/data"
	"github.com/landfall/sim/internal/terrain"
	"github.com/landfall/sim/internal/voxel"
)

// newTestState builds a 100×50×100 world on flat ground three voxels deep,
// so humans stand at y=4.
func newTestState(t *testing.T) *State {
	t.Helper()
	cfg := config.Defaults()
	g := voxel.NewGrid(cfg.World.XZ, cfg.World.Y)
	if err := (terrain.Flat{Level: 3}).Load(g); err != nil {
		t.Fatalf("load terrain: %v", err)
	}
	tbl, err := data.LoadUnitTable("")
	if err != nil {
		t.Fatalf("load units: %v", err)
	}
	return NewState(g, tbl, TuningFrom(cfg), NewPlayer(cfg.Player), event.NewBus(), rand.New(rand.NewSource(1)), zap.NewNop())
}

func mustHuman(t *testing.T, s *State, x, z int) *Human {
	t.Helper()
	h, err := s.PlaceHuman(voxel.Coord{X: x, Z: z})
	if err != nil {
		t.Fatalf("PlaceHuman: %v", err)
	}
	return h
}

func mustLander(t *testing.T, s *State, at voxel.Coord) *Lander {
	t.Helper()
	l, err := s.PlaceLander(at)
	if err != nil {
		t.Fatalf("PlaceLander: %v", err)
	}
	return l
}

func TestState_PlaceHuman(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)

	if h.Origin != (voxel.Coord{X: 10, Y: 4, Z: 10}) {
		t.Errorf("origin = %s, want (10,4,10)", h.Origin)
	}
	if h.State != HumanSettled || !h.Available || h.TerrainHeight != 4 {
		t.Errorf("human = %+v", h)
	}
	if n := s.Grid.OccupiedCells(h.ID); n != 3 {
		t.Errorf("occupied cells = %d, want 3", n)
	}
	if u, ok := s.UnitAt(voxel.Coord{X: 10, Y: 5, Z: 10}); !ok || u.ID != h.ID {
		t.Error("UnitAt did not find the human")
	}
	if _, err := s.PlaceHuman(voxel.Coord{X: 10, Y: 30, Z: 10}); err == nil {
		t.Error("second human in the same column should be blocked")
	}
	if s.Bus.Pending() != 1 {
		t.Errorf("spawn events = %d, want 1", s.Bus.Pending())
	}
}

func TestState_PlaceLander(t *testing.T) {
	s := newTestState(t)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 12, Z: 11})

	if l.State != LanderSearching || l.HasCaptive() {
		t.Errorf("lander = %+v", l)
	}
	if n := s.Grid.OccupiedCells(l.ID); n != 12 {
		t.Errorf("occupied cells = %d, want 12", n)
	}
	if _, err := s.PlaceLander(voxel.Coord{X: 10, Y: 3, Z: 11}); err == nil {
		t.Error("lander inside terrain should be blocked")
	}
	if _, err := s.PlaceLander(voxel.Coord{X: 1, Y: 20, Z: 20}); err == nil {
		t.Error("lander hanging over the edge should be blocked")
	}
}

func TestState_RegistryOrderAndCounts(t *testing.T) {
	s := newTestState(t)
	h1 := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 50, Y: 20, Z: 50})
	h2 := mustHuman(t, s, 20, 20)

	var order []Kind
	s.EachUnit(func(u *Unit) { order = append(order, u.Kind) })
	if len(order) != 3 || order[0] != KindHuman || order[1] != KindLander || order[2] != KindHuman {
		t.Errorf("order = %v", order)
	}
	if s.HumanCount() != 2 || s.LanderCount() != 1 || s.UnitCount() != 3 {
		t.Errorf("counts = %d/%d/%d", s.HumanCount(), s.LanderCount(), s.UnitCount())
	}
	if _, ok := s.Lander(h1.ID); ok {
		t.Error("human found in lander store")
	}
	if got, ok := s.Human(h2.ID); !ok || got != h2 {
		t.Error("typed human lookup failed")
	}
	if got, ok := s.Unit(l.ID); !ok || got != l.Unit {
		t.Error("lander and registry disagree on the shared unit")
	}
}

func TestState_SetCaptiveDoubleClaimPanics(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	other := mustHuman(t, s, 30, 30)
	l1 := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 11})
	l2 := mustLander(t, s, voxel.Coord{X: 30, Y: 20, Z: 31})

	s.SetCaptive(l1, h)
	if h.Available {
		t.Error("claimed human still available")
	}
	if c, ok := s.CaptorOf(h); !ok || c != l1 {
		t.Error("captor not recorded")
	}

	tests := []struct {
		name string
		l    *Lander
		h    *Human
	}{
		{"human already held", l2, h},
		{"lander already holding", l1, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			s.SetCaptive(tt.l, tt.h)
		})
	}
}

func TestState_DestroyLanderDropsCaptive(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 11})
	s.SetCaptive(l, h)
	h.Lift()

	s.Destroy(l.ID, event.CauseShot)

	if h.State != HumanFalling || !h.Available || h.FallHeight != 0 {
		t.Errorf("human after captor destroyed = %+v", h)
	}
	if _, ok := s.CaptorOf(h); ok {
		t.Error("captor relation survived destroy")
	}
	if l.State != LanderKilled || l.Cause != event.CauseShot {
		t.Errorf("lander = %v cause %q", l.State, l.Cause)
	}
	if s.Grid.OccupiedCells(l.ID) != 0 {
		t.Error("destroyed lander still occupies the grid")
	}
	if !s.Pending(l.ID) {
		t.Error("lander slot not queued")
	}

	s.Flush()
	if _, ok := s.Lander(l.ID); ok {
		t.Error("lander still registered after flush")
	}
	if held := s.ecs.Registry().Holding(l.ID); len(held) != 0 {
		t.Errorf("stores still holding lander: %v", held)
	}
	if s.UnitCount() != 1 {
		t.Errorf("UnitCount = %d, want 1", s.UnitCount())
	}
}

func TestState_DestroyCaptiveClearsLander(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 11})
	s.SetCaptive(l, h)

	s.Destroy(h.ID, event.CauseShot)
	s.Destroy(h.ID, event.CauseFall)

	if l.HasCaptive() {
		t.Error("lander still references destroyed human")
	}
	if h.Cause != event.CauseShot {
		t.Errorf("cause = %q, want first cause kept", h.Cause)
	}
	if _, ok := s.Captive(l); ok {
		t.Error("Captive returned a human")
	}
}

func TestState_RemoveAll(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 11})
	s.SetCaptive(l, h)
	s.LanderLaser(l).Aim(l.Origin, s.Player.Pos)
	s.Player.Laser.Active = true

	s.RemoveAll()

	if s.UnitCount() != 0 || s.HumanCount() != 0 || s.LanderCount() != 0 {
		t.Errorf("units left: %d", s.UnitCount())
	}
	if n := s.Grid.OccupiedCells(0); n != 0 {
		t.Errorf("%d grid cells still occupied", n)
	}
	if s.Player.Laser.Active {
		t.Error("player laser left on")
	}
	lasers := 0
	s.EachLaser(func(_ ecs.EntityID, _ *Laser) { lasers++ })
	if lasers != 0 {
		t.Errorf("%d lasers left", lasers)
	}
}

func TestState_StampSkipsOccupiedCells(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 10})

	s.MoveUnit(l.Unit, voxel.Coord{X: 10, Y: 5, Z: 10})

	if s.Grid.Unit(voxel.Coord{X: 10, Y: 5, Z: 10}) != h.ID {
		t.Error("stamp overwrote another unit's cell")
	}
	if s.Grid.Unit(voxel.Coord{X: 10, Y: 6, Z: 10}) != l.ID {
		t.Error("lander not stamped at its new origin")
	}
	if s.Grid.Unit(voxel.Coord{X: 10, Y: 20, Z: 10}) != 0 {
		t.Error("old footprint not cleared")
	}
}

func TestState_MoveUnitUpdatesGrid(t *testing.T) {
	s := newTestState(t)
	l := mustLander(t, s, voxel.Coord{X: 50, Y: 20, Z: 50})
	to := voxel.Coord{X: 51, Y: 20, Z: 50}

	s.MoveUnit(l.Unit, to)

	if s.Grid.Unit(to) != l.ID {
		t.Error("origin cell not held after move")
	}
	if s.Grid.Unit(voxel.Coord{X: 48, Y: 18, Z: 50}) != 0 {
		t.Error("vacated corner still held")
	}
	if s.Grid.Unit(voxel.Coord{X: 53, Y: 18, Z: 50}) != l.ID {
		t.Error("new corner not held")
	}
	if n := s.Grid.OccupiedCells(l.ID); n != 12 {
		t.Errorf("occupied cells = %d, want 12", n)
	}
	if ground, unit := s.Probe(l.Unit, to); ground || unit {
		t.Errorf("lander collides with itself: ground %v unit %v", ground, unit)
	}
}

func TestState_CruiseAltitude(t *testing.T) {
	s := newTestState(t)
	floor, cruise := s.CruiseAltitude()
	if floor != 5 || cruise != 15 {
		t.Errorf("cruise band = %d..%d, want 5..15", floor, cruise)
	}
	for i := 0; i < 50; i++ {
		c := s.RandomAerial()
		if c.Y < floor || c.Y > cruise {
			t.Fatalf("RandomAerial y = %d outside band", c.Y)
		}
		if c.X < 5 || c.X >= 95 || c.Z < 5 || c.Z >= 95 {
			t.Fatalf("RandomAerial %s inside the edge margin", c)
		}
		e := s.RandomEdgeCoord()
		if e.X != 5 && e.X != 94 && e.Z != 5 && e.Z != 94 {
			t.Fatalf("RandomEdgeCoord %s not on the margin", e)
		}
	}
}

func TestState_PlaceRandom(t *testing.T) {
	s := newTestState(t)
	if n := s.PlaceRandomHumans(10); n != 10 {
		t.Fatalf("placed %d humans, want 10", n)
	}
	if n := s.PlaceRandomAliens(5); n != 5 {
		t.Fatalf("placed %d landers, want 5", n)
	}
	s.EachHuman(func(h *Human) {
		if h.Origin.Y != 4 {
			t.Errorf("%s at %s, want y=4", h, h.Origin)
		}
	})
	s.EachLander(func(l *Lander) {
		if l.Origin.Y < 5 || l.Origin.Y > 15 {
			t.Errorf("%s at %s, outside cruise band", l, l.Origin)
		}
	})
}

func TestState_Lasers(t *testing.T) {
	s := newTestState(t)
	a := mustLander(t, s, voxel.Coord{X: 20, Y: 20, Z: 20})
	b := mustLander(t, s, voxel.Coord{X: 40, Y: 20, Z: 40})
	s.LanderLaser(a).Aim(a.Origin, s.Player.Pos)
	s.LanderLaser(b)

	var owners []ecs.EntityID
	s.EachLaser(func(id ecs.EntityID, ls *Laser) {
		owners = append(owners, id)
		if ls.From != VoxelCentre(a.Origin) {
			t.Errorf("laser from %v", ls.From)
		}
	})
	if len(owners) != 1 || owners[0] != a.ID {
		t.Fatalf("active lasers = %v", owners)
	}

	s.Destroy(a.ID, event.CauseShot)
	owners = owners[:0]
	s.EachLaser(func(id ecs.EntityID, _ *Laser) { owners = append(owners, id) })
	if len(owners) != 0 {
		t.Errorf("destroyed lander's laser still active")
	}
}
