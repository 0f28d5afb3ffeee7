package elev

import (
	"elevcoord/src/requests"
	"elevcoord/src/types"
)

// OrdersToClearHere returns the buttons served when the door opens at the
// current floor. The cab call is always served. The hall call matching the
// direction of travel is served, and the opposite one only when nothing more
// waits in the direction of travel.
func OrdersToClearHere(s State) [types.NumButtons]bool {
	shouldClear := [types.NumButtons]bool{}
	shouldClear[types.BT_Cab] = true

	switch s.Dir {
	case types.MD_Up:
		shouldClear[types.BT_HallUp] = true
		if !requests.Above(s.Requests, s.Floor) {
			shouldClear[types.BT_HallDown] = true
		}
	case types.MD_Down:
		shouldClear[types.BT_HallDown] = true
		if !requests.Below(s.Requests, s.Floor) {
			shouldClear[types.BT_HallUp] = true
		}
	case types.MD_Stop:
		shouldClear[types.BT_HallUp] = true
		shouldClear[types.BT_HallDown] = true
	}

	// Only report what is actually pending.
	for btn := range shouldClear {
		shouldClear[btn] = shouldClear[btn] && s.hasRequest(s.Floor, types.ButtonType(btn))
	}
	return shouldClear
}

// ShouldStop checks if a moving car should stop at its current floor.
func ShouldStop(s State) bool {
	switch s.Dir {
	case types.MD_Up:
		return s.hasRequest(s.Floor, types.BT_HallUp) ||
			s.hasRequest(s.Floor, types.BT_Cab) ||
			!requests.Above(s.Requests, s.Floor)
	case types.MD_Down:
		return s.hasRequest(s.Floor, types.BT_HallDown) ||
			s.hasRequest(s.Floor, types.BT_Cab) ||
			!requests.Below(s.Requests, s.Floor)
	default:
		return true
	}
}

// ChooseDirection picks the next direction and behaviour.
//  1. If the car is stopped, go where there are orders, serving this floor first.
//  2. If the car is travelling, continue until there are no more orders in that
//     direction, then serve this floor, then reverse.
func ChooseDirection(s State) types.DirnBehaviourPair {
	above := requests.Above(s.Requests, s.Floor)
	below := requests.Below(s.Requests, s.Floor)
	here := requests.Here(s.Requests, s.Floor)

	switch s.Dir {
	case types.MD_Up:
		switch {
		case above:
			return types.DirnBehaviourPair{Dir: types.MD_Up, Behaviour: types.Moving}
		case here:
			return types.DirnBehaviourPair{Dir: types.MD_Down, Behaviour: types.DoorOpen}
		case below:
			return types.DirnBehaviourPair{Dir: types.MD_Down, Behaviour: types.Moving}
		}
	case types.MD_Down:
		switch {
		case below:
			return types.DirnBehaviourPair{Dir: types.MD_Down, Behaviour: types.Moving}
		case here:
			return types.DirnBehaviourPair{Dir: types.MD_Up, Behaviour: types.DoorOpen}
		case above:
			return types.DirnBehaviourPair{Dir: types.MD_Up, Behaviour: types.Moving}
		}
	case types.MD_Stop:
		switch {
		case here:
			return types.DirnBehaviourPair{Dir: types.MD_Stop, Behaviour: types.DoorOpen}
		case above:
			return types.DirnBehaviourPair{Dir: types.MD_Up, Behaviour: types.Moving}
		case below:
			return types.DirnBehaviourPair{Dir: types.MD_Down, Behaviour: types.Moving}
		}
	}
	return types.DirnBehaviourPair{Dir: types.MD_Stop, Behaviour: types.Idle}
}
