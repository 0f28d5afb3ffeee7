package requests

import (
	"cmp"
	"slices"

	"elevcoord/src/types"
)

// Store is the request view owned by the car's controller goroutine. Cab
// requests are authoritative here; hall requests mirror the master's matrix,
// with local presses and clears kept as sticky reports until the matrix shows
// the master has seen them.
type Store struct {
	nodeID    int
	numFloors int

	cab  []bool
	hall types.HallMatrix
	mine [][2]bool

	calls  map[types.HallOrder]uint64
	served map[types.HallOrder]uint64
}

func NewStore(nodeID, numFloors int) *Store {
	return &Store{
		nodeID:    nodeID,
		numFloors: numFloors,
		cab:       make([]bool, numFloors),
		hall:      types.NewHallMatrix(numFloors),
		mine:      make([][2]bool, numFloors),
		calls:     make(map[types.HallOrder]uint64),
		served:    make(map[types.HallOrder]uint64),
	}
}

func (s *Store) valid(floor int) bool {
	return floor >= 0 && floor < s.numFloors
}

// Add registers a button press. Pressing a call that is already pending is a
// no-op. For hall buttons the call is only recorded for the master; it does
// not enter the local view until it is assigned to this car.
func (s *Store) Add(btn types.ButtonEvent) bool {
	if !s.valid(btn.Floor) {
		return false
	}

	if btn.Button == types.BT_Cab {
		if s.cab[btn.Floor] {
			return false
		}
		s.cab[btn.Floor] = true
		return true
	}

	order := types.HallOrder{Floor: btn.Floor, Button: types.HallType(btn.Button)}
	cell := s.hall[order.Floor][order.Button]
	if cell.Pending() {
		return false
	}
	if _, found := s.calls[order]; found {
		return false
	}
	s.calls[order] = cell.Seq
	return true
}

// Remove clears a request from the local view. Removing an absent request is a
// no-op. A cleared hall request is remembered as served until the master's
// matrix moves past it.
func (s *Store) Remove(btn types.ButtonEvent) bool {
	if !s.valid(btn.Floor) {
		return false
	}

	if btn.Button == types.BT_Cab {
		if !s.cab[btn.Floor] {
			return false
		}
		s.cab[btn.Floor] = false
		return true
	}

	order := types.HallOrder{Floor: btn.Floor, Button: types.HallType(btn.Button)}
	if !s.mine[order.Floor][order.Button] {
		return false
	}
	s.mine[order.Floor][order.Button] = false
	s.served[order] = s.hall[order.Floor][order.Button].Seq
	return true
}

// SetHallMatrix installs the matrix received from the worldview and reports
// whether the local view changed.
func (s *Store) SetHallMatrix(m types.HallMatrix) bool {
	if len(m) != s.numFloors {
		return false
	}
	before := s.View()

	s.hall = m.Clone()

	for order, seq := range s.calls {
		cell := s.hall[order.Floor][order.Button]
		if cell.Pending() || cell.Seq > seq {
			delete(s.calls, order)
		}
	}
	for order, seq := range s.served {
		if s.hall[order.Floor][order.Button].Seq > seq {
			delete(s.served, order)
		}
	}

	for floor := range s.hall {
		for h := range 2 {
			cell := s.hall[floor][h]
			order := types.HallOrder{Floor: floor, Button: types.HallType(h)}
			seq, served := s.served[order]
			s.mine[floor][h] = cell.AssignedTo(s.nodeID) && !(served && seq == cell.Seq)
		}
	}

	return !viewEqual(before, s.View())
}

// Relinquish drops every hall request from the local view. The master
// reassigns them once it sees the car unavailable.
func (s *Store) Relinquish() bool {
	changed := false
	for floor := range s.mine {
		if s.mine[floor] != [2]bool{} {
			changed = true
		}
		s.mine[floor] = [2]bool{}
	}
	return changed
}

// RestoreCab merges cab requests backed up by the master into the local ones.
func (s *Store) RestoreCab(backup []bool) bool {
	changed := false
	for floor, active := range backup {
		if s.valid(floor) && active && !s.cab[floor] {
			s.cab[floor] = true
			changed = true
		}
	}
	return changed
}

// View returns the floor x button requests this car must serve.
func (s *Store) View() types.Requests {
	view := types.NewRequests(s.numFloors)
	for floor := range view {
		view[floor][types.BT_HallUp] = s.mine[floor][types.HallUp]
		view[floor][types.BT_HallDown] = s.mine[floor][types.HallDown]
		view[floor][types.BT_Cab] = s.cab[floor]
	}
	return view
}

func (s *Store) Cab() []bool {
	return slices.Clone(s.cab)
}

func (s *Store) Hall() types.HallMatrix {
	return s.hall.Clone()
}

func (s *Store) Calls() []types.HallCall {
	calls := make([]types.HallCall, 0, len(s.calls))
	for order, seq := range s.calls {
		calls = append(calls, types.HallCall{Order: order, Seq: seq})
	}
	slices.SortFunc(calls, func(a, b types.HallCall) int {
		return compareOrders(a.Order, b.Order)
	})
	return calls
}

func (s *Store) Served() []types.HallServed {
	served := make([]types.HallServed, 0, len(s.served))
	for order, seq := range s.served {
		served = append(served, types.HallServed{Order: order, Seq: seq})
	}
	slices.SortFunc(served, func(a, b types.HallServed) int {
		return compareOrders(a.Order, b.Order)
	})
	return served
}

func compareOrders(a, b types.HallOrder) int {
	if c := cmp.Compare(a.Floor, b.Floor); c != 0 {
		return c
	}
	return cmp.Compare(a.Button, b.Button)
}

func viewEqual(a, b types.Requests) bool {
	return slices.Equal(a, b)
}
