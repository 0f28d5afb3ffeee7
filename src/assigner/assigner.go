// Package assigner decides which car serves each pending hall request. It is
// a pure function of the hall matrix and the car states; the master runs it
// and publishes the result.
package assigner

import (
	"fmt"
	"slices"
	"time"

	"elevcoord/src/types"

	"github.com/tiendc/go-deepcopy"
)

// Assign returns a copy of hall where every pending cell is assigned to the
// cheapest eligible car, ties going to the lowest id. Cells are decided in
// floor, then up, then down order, and a cell decided earlier counts toward the
// queue of its car. If no car is eligible, pending cells stay requested.
func Assign(hall types.HallMatrix, cars map[int]types.ElevState, p Params) (types.HallMatrix, error) {
	var result types.HallMatrix
	if err := deepcopy.Copy(&result, hall); err != nil {
		return nil, fmt.Errorf("cannot copy hall matrix: %w", err)
	}

	ids := make([]int, 0, len(cars))
	queues := make(map[int]types.Requests, len(cars))
	for id, car := range cars {
		ids = append(ids, id)
		queues[id] = cabQueue(car, len(hall))
	}
	slices.Sort(ids)

	for floor := range result {
		for _, h := range []types.HallType{types.HallUp, types.HallDown} {
			cell := &result[floor][h]
			if !cell.Pending() {
				continue
			}
			order := types.HallOrder{Floor: floor, Button: h}

			best, bestCost := -1, Infinite
			for _, id := range ids {
				cost := timeToServeOrder(cars[id], queues[id], order, p)
				if cost < bestCost {
					best, bestCost = id, cost
				}
			}

			if best == -1 {
				*cell = types.HallRequest{Status: types.HallRequested, Seq: cell.Seq}
				continue
			}
			*cell = types.HallRequest{Status: types.HallAssigned, Assignee: best, Seq: cell.Seq}
			queues[best][floor][h.Button()] = true
		}
	}
	return result, nil
}

// Costs returns the cost of every car for order, for logging.
func Costs(order types.HallOrder, hall types.HallMatrix, cars map[int]types.ElevState, p Params) map[int]time.Duration {
	costs := make(map[int]time.Duration, len(cars))
	for id, car := range cars {
		queue := cabQueue(car, len(hall))
		for floor := range hall {
			for h := range 2 {
				if hall[floor][h].AssignedTo(id) {
					queue[floor][h] = true
				}
			}
		}
		costs[id] = timeToServeOrder(car, queue, order, p)
	}
	return costs
}

func cabQueue(car types.ElevState, numFloors int) types.Requests {
	queue := types.NewRequests(numFloors)
	for floor, active := range car.CabRequests {
		if floor < numFloors {
			queue[floor][types.BT_Cab] = active
		}
	}
	return queue
}
