package utils

import (
	"fmt"
	"slices"

	"elevcoord/src/types"
)

// ForEachHall is a helper function that reduces indentation when performing an action on all hall cells
func ForEachHall(hall types.HallMatrix, action func(floor int, btn types.ButtonType, cell types.HallRequest)) {
	for floor := range hall {
		for h, cell := range hall[floor] {
			action(floor, types.HallType(h).Button(), cell)
		}
	}
}

// SendLatest replaces whatever is waiting in ch with v. ch must have a buffer
// of one and a single sender.
func SendLatest[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// PrintStatus is called when the set of active peers changes
func PrintStatus(nodeID int, role types.Role, peerUpdate types.PeerUpdate) {
	fmt.Printf("\rNode ID: %d | Role: %-6s | ", nodeID, role)
	if slices.Contains(peerUpdate.Peers, nodeID) && len(peerUpdate.Peers) > 1 {
		fmt.Printf("Status: Connected %v    \r", peerUpdate.Peers)
	} else {
		fmt.Print("Status: Disconnected      \r")
	}
}
