package assigner

import (
	"math"
	"time"

	"elevcoord/src/config"
	"elevcoord/src/requests"
	"elevcoord/src/types"
)

// Infinite is the cost of a car that cannot take hall requests.
const Infinite = time.Duration(math.MaxInt64)

type Params struct {
	TravelDuration    time.Duration
	DoorOpenDuration  time.Duration
	DirChangePenalty  time.Duration
	ObstructedPenalty time.Duration
}

func DefaultParams() Params {
	return Params{
		TravelDuration:    config.TravelDuration,
		DoorOpenDuration:  config.DoorOpenDuration,
		DirChangePenalty:  config.DirChangePenalty,
		ObstructedPenalty: config.ObstructedPenalty,
	}
}

func ParamsFrom(cfg config.Config) Params {
	p := DefaultParams()
	p.TravelDuration = cfg.TravelDuration
	p.DoorOpenDuration = cfg.DoorOpenDuration
	return p
}

// timeToServeOrder estimates how long car needs to reach order once it has
// served its current queue.
//   - returns Infinite if the car cannot take hall requests
//   - travel time from where the queue leaves the car to the order floor
//   - a door cycle for every request already queued
//   - a penalty if the order is against the car's direction of travel
//   - a large penalty if the car is obstructed
func timeToServeOrder(car types.ElevState, queue types.Requests, order types.HallOrder, p Params) time.Duration {
	if !eligible(car) {
		return Infinite
	}

	end := projectedFloor(car.Floor, car.Dir, queue)
	duration := time.Duration(abs(end-order.Floor)) * p.TravelDuration
	duration += time.Duration(requests.Count(queue)) * p.DoorOpenDuration

	if directionMismatch(car, order) {
		duration += p.DirChangePenalty
	}
	if car.Obstructed {
		duration += p.ObstructedPenalty
	}
	return duration
}

func eligible(car types.ElevState) bool {
	return car.Active && car.Behaviour != types.Unavailable && car.Floor >= 0
}

// projectedFloor is where the car ends up after serving queue: it sweeps to
// the far end in its direction of travel, then to the far end behind it. A
// stopped car sweeps towards the nearer end first.
func projectedFloor(floor int, dir types.MotorDirection, queue types.Requests) int {
	lowest, highest, ok := requests.Extremes(queue)
	if !ok {
		return floor
	}

	if dir == types.MD_Stop {
		switch {
		case highest <= floor:
			dir = types.MD_Down
		case lowest >= floor:
			dir = types.MD_Up
		case floor-lowest <= highest-floor:
			dir = types.MD_Down
		default:
			dir = types.MD_Up
		}
	}

	switch dir {
	case types.MD_Up:
		if lowest < floor {
			return lowest
		}
		return highest
	default:
		if highest > floor {
			return highest
		}
		return lowest
	}
}

// directionMismatch reports whether a moving car has to turn around to serve
// order, or would reach it travelling against the requested direction.
func directionMismatch(car types.ElevState, order types.HallOrder) bool {
	if car.Dir == types.MD_Stop {
		return false
	}
	towards := types.MD_Stop
	switch {
	case order.Floor > car.Floor:
		towards = types.MD_Up
	case order.Floor < car.Floor:
		towards = types.MD_Down
	}
	return towards == -car.Dir || order.Button.Dir() != car.Dir
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
