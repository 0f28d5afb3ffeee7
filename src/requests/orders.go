// Package requests holds the request view of one car and the counting helpers
// the cab controller decides on.
package requests

import "elevcoord/src/types"

func countOrders(reqs types.Requests, startFloor int, endFloor int) (result int) {
	for floor := max(startFloor, 0); floor < min(endFloor, len(reqs)); floor++ {
		for btn := range types.NumButtons {
			if reqs[floor][btn] {
				result++
			}
		}
	}
	return result
}

func Above(reqs types.Requests, floor int) bool {
	return countOrders(reqs, floor+1, len(reqs)) > 0
}

func Below(reqs types.Requests, floor int) bool {
	return countOrders(reqs, 0, floor) > 0
}

func Here(reqs types.Requests, floor int) bool {
	return countOrders(reqs, floor, floor+1) > 0
}

// Count returns the number of active requests in the view.
func Count(reqs types.Requests) int {
	return countOrders(reqs, 0, len(reqs))
}

// Beyond reports whether there are requests strictly past floor in direction dir.
func Beyond(reqs types.Requests, floor int, dir types.MotorDirection) bool {
	switch dir {
	case types.MD_Up:
		return Above(reqs, floor)
	case types.MD_Down:
		return Below(reqs, floor)
	}
	return false
}

// Extremes returns the lowest and highest floor with a request, or ok=false
// if the view is empty.
func Extremes(reqs types.Requests) (lowest, highest int, ok bool) {
	lowest, highest = -1, -1
	for floor := range reqs {
		for btn := range types.NumButtons {
			if reqs[floor][btn] {
				if lowest == -1 {
					lowest = floor
				}
				highest = floor
			}
		}
	}
	return lowest, highest, lowest != -1
}
