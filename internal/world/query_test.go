package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/landfall/sim/internal/voxel"
)

func TestFindPursuableHuman_ScanOrder(t *testing.T) {
	s := newTestState(t)
	far := mustHuman(t, s, 5, 10)
	mustHuman(t, s, 8, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 12, Z: 10})

	h, ok := s.FindPursuableHuman(l)
	if !ok {
		t.Fatal("no human found")
	}
	if h != far {
		t.Errorf("found %s at %s, want the first in scan order at x=5", h, h.Origin)
	}
}

func TestFindPursuableHuman_Filters(t *testing.T) {
	tests := []struct {
		name   string
		human  voxel.Coord
		lander voxel.Coord
		setup  func(*State, *Human)
		want   bool
	}{
		{"in range", voxel.Coord{X: 10, Z: 10}, voxel.Coord{X: 10, Y: 12, Z: 11}, nil, true},
		{"outside x range", voxel.Coord{X: 30, Z: 10}, voxel.Coord{X: 10, Y: 12, Z: 10}, nil, false},
		{"upper bound exclusive", voxel.Coord{X: 20, Z: 10}, voxel.Coord{X: 10, Y: 12, Z: 10}, nil, false},
		{"unavailable", voxel.Coord{X: 10, Z: 10}, voxel.Coord{X: 10, Y: 12, Z: 11}, func(_ *State, h *Human) { h.Available = false }, false},
		{"killed", voxel.Coord{X: 10, Z: 10}, voxel.Coord{X: 10, Y: 12, Z: 11}, func(_ *State, h *Human) { h.Shoot() }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t)
			h := mustHuman(t, s, tt.human.X, tt.human.Z)
			l := mustLander(t, s, tt.lander)
			if tt.setup != nil {
				tt.setup(s, h)
			}
			got, ok := s.FindPursuableHuman(l)
			if ok != tt.want {
				t.Fatalf("found = %v, want %v", ok, tt.want)
			}
			if ok && got != h {
				t.Errorf("found %s, want %s", got, h)
			}
		})
	}
}

func TestFindPursuableHuman_OnlyBelowOrigin(t *testing.T) {
	s := newTestState(t)
	mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 12, Z: 11})
	l.Origin.Y = 3

	if h, ok := s.FindPursuableHuman(l); ok {
		t.Errorf("found %s at or above the lander", h)
	}
}

func TestProbe(t *testing.T) {
	s := newTestState(t)
	h := mustHuman(t, s, 10, 10)
	l := mustLander(t, s, voxel.Coord{X: 10, Y: 20, Z: 10})

	if ground, unit := s.Probe(l.Unit, voxel.Coord{X: 10, Y: 19, Z: 10}); ground || unit {
		t.Errorf("open air probe = %v,%v", ground, unit)
	}
	if ground, unit := s.Probe(l.Unit, voxel.Coord{X: 10, Y: 5, Z: 10}); ground || !unit {
		t.Errorf("probe into human = %v,%v, want unit only", ground, unit)
	}
	if ground, _ := s.Probe(l.Unit, voxel.Coord{X: 10, Y: 4, Z: 10}); !ground {
		t.Error("probe into terrain reported no ground")
	}
	if ground, _ := s.Probe(l.Unit, voxel.Coord{X: 1, Y: 20, Z: 10}); !ground {
		t.Error("probe past the world edge reported no ground")
	}

	s.SetCaptive(l, h)
	if _, unit := s.Probe(l.Unit, voxel.Coord{X: 10, Y: 5, Z: 10}); unit {
		t.Error("lander collides with its own captive")
	}
	if _, unit := s.Probe(h.Unit, voxel.Coord{X: 10, Y: 5, Z: 10}); unit {
		t.Error("human collides with itself")
	}
}

func TestClampTarget(t *testing.T) {
	s := newTestState(t)
	tests := []struct {
		in, want voxel.Coord
	}{
		{voxel.Coord{X: 50, Y: 20, Z: 50}, voxel.Coord{X: 50, Y: 20, Z: 50}},
		{voxel.Coord{X: -4, Y: 0, Z: 120}, voxel.Coord{X: 2, Y: 2, Z: 97}},
		{voxel.Coord{X: 99, Y: 60, Z: 1}, voxel.Coord{X: 97, Y: 48, Z: 2}},
	}
	for _, tt := range tests {
		if got := s.ClampTarget(tt.in); got != tt.want {
			t.Errorf("ClampTarget(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRayCast(t *testing.T) {
	s := newTestState(t)
	l := mustLander(t, s, voxel.Coord{X: 50, Y: 20, Z: 50})

	hit, end := s.RayCast(mgl32.Vec3{50.5, 20.5, 60.5}, mgl32.Vec3{0, 0, -1}, 60)
	if hit == nil || hit.ID != l.ID {
		t.Fatalf("ray missed the lander, stopped at %v", end)
	}
	if VoxelOf(end).Z != 50 {
		t.Errorf("ray stopped at %v, want inside z=50", end)
	}

	hit, end = s.RayCast(mgl32.Vec3{20.5, 20.5, 20.5}, mgl32.Vec3{0, -1, 0}, 60)
	if hit != nil {
		t.Errorf("ray through terrain hit %s", hit)
	}
	if end.Y() >= 3 {
		t.Errorf("ray passed the ground, stopped at %v", end)
	}

	if hit, _ = s.RayCast(mgl32.Vec3{50.5, 20.5, 60.5}, mgl32.Vec3{0, 0, -1}, 5); hit != nil {
		t.Error("ray hit beyond its range")
	}
}
