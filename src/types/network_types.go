package types

import "fmt"

type HallStatus int

const (
	HallInactive HallStatus = iota
	HallRequested
	HallAssigned
)

func (s HallStatus) String() string {
	switch s {
	case HallInactive:
		return "inactive"
	case HallRequested:
		return "requested"
	case HallAssigned:
		return "assigned"
	}
	return fmt.Sprintf("HallStatus(%d)", int(s))
}

// HallRequest is one cell of the hall matrix. Seq grows each time the cell
// returns to inactive, so a late served report never clears a newer call.
type HallRequest struct {
	Status   HallStatus
	Assignee int
	Seq      uint64
}

// Pending reports whether the call still waits to be served.
func (r HallRequest) Pending() bool {
	return r.Status != HallInactive
}

func (r HallRequest) AssignedTo(nodeID int) bool {
	return r.Status == HallAssigned && r.Assignee == nodeID
}

// HallMatrix is indexed by floor, then by HallType.
type HallMatrix [][2]HallRequest

func NewHallMatrix(numFloors int) HallMatrix {
	return make(HallMatrix, numFloors)
}

func (m HallMatrix) Clone() HallMatrix {
	if m == nil {
		return nil
	}
	c := make(HallMatrix, len(m))
	copy(c, m)
	return c
}

func (m HallMatrix) Equal(o HallMatrix) bool {
	if len(m) != len(o) {
		return false
	}
	for floor := range m {
		if m[floor] != o[floor] {
			return false
		}
	}
	return true
}

// HallCall is a hall button press not yet acknowledged by the master. Seq is
// the cell sequence number observed when the button was pressed.
type HallCall struct {
	Order HallOrder
	Seq   uint64
}

// HallServed reports that a car cleared the hall call with sequence Seq.
type HallServed struct {
	Order HallOrder
	Seq   uint64
}

// LocalReport is what the car owner hands to the worldview owner.
type LocalReport struct {
	State  ElevState
	Calls  []HallCall
	Served []HallServed
}

// Assignment is what the worldview owner hands back to the car owner.
type Assignment struct {
	Hall      HallMatrix
	CabBackup []bool
}

type HwEventKind int

const (
	EvCallButton HwEventKind = iota
	EvFloorReached
	EvObstruction
	EvStopPressed
	EvStopReleased
)

// HwEvent is one item of the event stream derived from polling the hardware.
type HwEvent struct {
	Kind   HwEventKind
	Button ButtonEvent
	Floor  int
	Value  bool
}

type PeerUpdate struct {
	Peers []int
	New   []int
	Lost  []int
}
