package worldview

import (
	"time"

	"elevcoord/src/types"
)

// Message is implemented by everything sent between nodes.
type Message interface {
	MsgType() string
	Sender() int
}

const (
	TypeStateSync     = "StateSync"
	TypeHallBroadcast = "HallRequestBroadcast"
)

// StateSync is the periodic heartbeat of one car. It carries the full car
// state and the car's unacknowledged hall presses and served reports.
type StateSync struct {
	State     types.ElevState
	Calls     []types.HallCall
	Served    []types.HallServed
	Timestamp time.Time
}

func (m StateSync) MsgType() string { return TypeStateSync }
func (m StateSync) Sender() int     { return m.State.NodeID }

// HallRequestBroadcast is the hall matrix published by the master, tagged with
// (Version, MasterID). CabBackup mirrors every known car's cab requests so a
// restarted node can recover them.
type HallRequestBroadcast struct {
	Version   uint64
	MasterID  int
	Hall      types.HallMatrix
	CabBackup map[int][]bool
}

func (m HallRequestBroadcast) MsgType() string { return TypeHallBroadcast }
func (m HallRequestBroadcast) Sender() int     { return m.MasterID }
