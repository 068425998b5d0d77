package world

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/landfall/sim/internal/config"
	"github.com/landfall/sim/internal/voxel"
)

// Direction is a player movement request.
type Direction uint8

const (
	Coast Direction = iota
	Forward
	Back
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Coast:
		return "coast"
	case Forward:
		return "forward"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// ParseDirection maps a direction name to a Direction.
func ParseDirection(name string) (Direction, bool) {
	for d := Coast; d <= Right; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return Coast, false
}

const maxPitch = 89

// Player is the human-controlled camera body. Position is world space.
type Player struct {
	Pos        mgl32.Vec3
	Accel      mgl32.Vec3
	Yaw, Pitch float32 // degrees
	FlyControl bool    // keep altitude while moving forward or back
	Traction   bool    // strong velocity decay

	Hits  int // lander laser hits taken
	Laser Laser

	LaserCooldown time.Duration // how long a shot stays lit
	LaserRange    float32
	laserLit      time.Duration
}

func NewPlayer(cfg config.PlayerConfig) *Player {
	return &Player{
		Pos:           mgl32.Vec3{cfg.StartX, cfg.StartY, cfg.StartZ},
		FlyControl:    cfg.FlyControl,
		Traction:      cfg.Traction,
		LaserCooldown: cfg.LaserCooldown,
		LaserRange:    float32(cfg.LaserRange),
	}
}

// Voxel returns the voxel the player is in.
func (p *Player) Voxel() voxel.Coord { return VoxelOf(p.Pos) }

// Turn adjusts the look angles. Pitch is clamped short of straight up or down.
func (p *Player) Turn(dyaw, dpitch float32) {
	p.Yaw += dyaw
	for p.Yaw >= 360 {
		p.Yaw -= 360
	}
	for p.Yaw < 0 {
		p.Yaw += 360
	}
	p.Pitch = mgl32.Clamp(p.Pitch+dpitch, -maxPitch, maxPitch)
}

// Look returns the unit vector the player faces. Yaw 0 faces -z; positive
// pitch looks down.
func (p *Player) Look() mgl32.Vec3 {
	sy, cy := sincos(p.Yaw)
	sp, cp := sincos(p.Pitch)
	return mgl32.Vec3{sy * cp, -sp, -cy * cp}.Normalize()
}

// Move applies one movement step. A requested direction feeds a quarter of
// the step into the acceleration; the accumulated acceleration then moves the
// player unless the new position collides, which stops it dead.
func (p *Player) Move(g *voxel.Grid, d Direction) {
	next := p.Pos
	if d != Coast {
		sy, cy := sincos(p.Yaw)
		sp, _ := sincos(p.Pitch)
		switch d {
		case Forward:
			next = next.Add(mgl32.Vec3{sy, 0, -cy})
			if !p.FlyControl {
				next[1] -= sp
			}
		case Back:
			next = next.Add(mgl32.Vec3{-sy, 0, cy})
			if !p.FlyControl {
				next[1] += sp
			}
		case Left:
			next = next.Add(mgl32.Vec3{-cy, 0, -sy})
		case Right:
			next = next.Add(mgl32.Vec3{cy, 0, sy})
		}
		p.Accel = p.Accel.Add(next.Sub(p.Pos).Mul(0.25))
	}
	next = next.Add(p.Accel)
	if voxel.HasCollided(g, VoxelOf(next)) {
		p.Accel = mgl32.Vec3{}
		return
	}
	decay := float32(1.025)
	if p.Traction {
		decay = 2
	}
	p.Accel = p.Accel.Mul(1 / decay)
	p.Pos = next
}

// Fire lights the player laser along the look direction. It fails while the
// previous shot is still lit.
func (p *Player) Fire(to mgl32.Vec3) bool {
	if p.Laser.Active {
		return false
	}
	p.Laser.From = p.Pos
	p.Laser.To = to
	p.Laser.Active = true
	p.laserLit = 0
	return true
}

// Cool advances the lit time of the player laser by dt and turns it off once
// the cooldown has passed.
func (p *Player) Cool(dt time.Duration) {
	if !p.Laser.Active {
		return
	}
	p.laserLit += dt
	if p.laserLit > p.LaserCooldown {
		p.Laser.Active = false
		p.laserLit = 0
	}
}

func sincos(deg float32) (float32, float32) {
	s, c := math.Sincos(float64(mgl32.DegToRad(deg)))
	return float32(s), float32(c)
}
