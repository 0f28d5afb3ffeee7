package dispatcher

import "elevcoord/src/types"

//go:generate mockgen -source=lights.go -destination=lights_mock_test.go -package=dispatcher

// Lights is the part of the hardware the dispatcher drives: the hall lamps
// mirror the hall matrix of the worldview.
type Lights interface {
	SetButtonLamp(button types.ButtonType, floor int, value bool) error
}

// syncHallLights sets every hall lamp whose cell changed between pending and
// inactive. It waits for the first local report, so that the car has cleared
// its lamps before the dispatcher turns any on.
func (d *Dispatcher) syncHallLights() error {
	if !d.localSeen || d.lights == nil {
		return nil
	}
	for floor := range d.wv.Hall {
		for h, cell := range d.wv.Hall[floor] {
			on := cell.Pending()
			if d.hallLamps[floor][h] == on {
				continue
			}
			if err := d.lights.SetButtonLamp(types.HallType(h).Button(), floor, on); err != nil {
				return err
			}
			d.hallLamps[floor][h] = on
		}
	}
	return nil
}
