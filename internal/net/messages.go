package net

import (
	"encoding/json"
	"fmt"

	"github.com/landfall/sim/internal/world"
)

// InputMsg is an inbound observer message, e.g.
// {"type":"move","direction":"forward"} or {"type":"look","yaw":5,"pitch":-2}.
type InputMsg struct {
	Type      string  `json:"type"`
	Direction string  `json:"direction,omitempty"`
	Yaw       float32 `json:"yaw,omitempty"`
	Pitch     float32 `json:"pitch,omitempty"`
}

// DecodeInput parses an inbound message into a command.
func DecodeInput(raw []byte) (world.Command, error) {
	var msg InputMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return world.Command{}, fmt.Errorf("decode input: %w", err)
	}
	kind, ok := world.ParseCommandKind(msg.Type)
	if !ok {
		return world.Command{}, fmt.Errorf("decode input: unknown type %q", msg.Type)
	}
	cmd := world.Command{Kind: kind, Yaw: msg.Yaw, Pitch: msg.Pitch}
	if kind == world.CmdMove {
		d, ok := world.ParseDirection(msg.Direction)
		if !ok {
			return world.Command{}, fmt.Errorf("decode input: unknown direction %q", msg.Direction)
		}
		cmd.Direction = d
	}
	return cmd, nil
}

// Frame is the per-tick world snapshot broadcast to observers.
type Frame struct {
	Type   string      `json:"type"`
	Tick   uint64      `json:"tick"`
	Paused bool        `json:"paused"`
	Player PlayerView  `json:"player"`
	Lasers []LaserView `json:"lasers"`
	Units  []UnitView  `json:"units"`
}

type PlayerView struct {
	Pos   [3]float32 `json:"pos"`
	Yaw   float32    `json:"yaw"`
	Pitch float32    `json:"pitch"`
	Hits  int        `json:"hits"`
}

type LaserView struct {
	Owner uint64     `json:"owner"` // 0 = player
	From  [3]float32 `json:"from"`
	To    [3]float32 `json:"to"`
}

type UnitView struct {
	ID     uint64     `json:"id"`
	Kind   string     `json:"kind"`
	State  string     `json:"state"`
	Origin [3]int     `json:"origin"`
	Cells  []CellView `json:"cells"`
}

type CellView struct {
	Offset [3]int `json:"offset"`
	Colour string `json:"colour"`
}

// EncodeFrame marshals f for the wire.
func EncodeFrame(f *Frame) ([]byte, error) {
	f.Type = "frame"
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return b, nil
}
