package types

import (
	"fmt"
	"time"
)

// NumButtons is the number of call kinds per floor: hall up, hall down and cab.
const NumButtons = 3

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Stop MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "up"
	case MD_Down:
		return "down"
	case MD_Stop:
		return "stop"
	}
	return fmt.Sprintf("MotorDirection(%d)", int(d))
}

type ButtonType int

const (
	BT_HallUp ButtonType = iota
	BT_HallDown
	BT_Cab
)

func (b ButtonType) String() string {
	switch b {
	case BT_HallUp:
		return "hall-up"
	case BT_HallDown:
		return "hall-down"
	case BT_Cab:
		return "cab"
	}
	return fmt.Sprintf("ButtonType(%d)", int(b))
}

type ButtonEvent struct {
	Floor  int
	Button ButtonType
}

type HallType int

const (
	HallUp HallType = iota
	HallDown
)

// Button converts a hall direction to the button that raises it.
func (h HallType) Button() ButtonType {
	return ButtonType(h)
}

// Dir is the travel direction a hall call asks for.
func (h HallType) Dir() MotorDirection {
	if h == HallUp {
		return MD_Up
	}
	return MD_Down
}

type HallOrder struct {
	Floor  int
	Button HallType
}

type ElevBehaviour int

const (
	Idle ElevBehaviour = iota
	Moving
	DoorOpen
	Unavailable
)

func (b ElevBehaviour) String() string {
	switch b {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case DoorOpen:
		return "door-open"
	case Unavailable:
		return "unavailable"
	}
	return fmt.Sprintf("ElevBehaviour(%d)", int(b))
}

type DirnBehaviourPair struct {
	Dir       MotorDirection
	Behaviour ElevBehaviour
}

// Requests is the floor x button view of the calls one car has to serve.
type Requests [][NumButtons]bool

func NewRequests(numFloors int) Requests {
	return make(Requests, numFloors)
}

func (r Requests) Clone() Requests {
	if r == nil {
		return nil
	}
	c := make(Requests, len(r))
	copy(c, r)
	return c
}

// ElevState is the canonical state of one car. It is written only by the node
// owning the car; every other node holds a replica replaced wholesale on merge.
type ElevState struct {
	NodeID      int
	Floor       int
	Dir         MotorDirection
	Behaviour   ElevBehaviour
	Obstructed  bool
	CabRequests []bool

	// Version orders broadcasts of one sender. It is seeded with the boot time
	// in milliseconds, so a restarted node outranks its previous life.
	Version uint64

	Active   bool      `json:"-"`
	LastSeen time.Time `json:"-"`
}

type Role int

const (
	Backup Role = iota
	Master
)

func (r Role) String() string {
	if r == Master {
		return "master"
	}
	return "backup"
}
