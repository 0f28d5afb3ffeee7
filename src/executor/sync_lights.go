package executor

import "elevcoord/src/types"

// syncCabLights sets the cab lamps that differ from the store's cab requests.
// Hall lamps follow the shared hall matrix and are set by the dispatcher.
func (e *Executor) syncCabLights() error {
	for floor, active := range e.store.Cab() {
		if e.cabLamps[floor] == active {
			continue
		}
		if err := e.hw.SetButtonLamp(types.BT_Cab, floor, active); err != nil {
			return err
		}
		e.cabLamps[floor] = active
	}
	return nil
}
