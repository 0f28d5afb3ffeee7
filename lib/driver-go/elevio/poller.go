package elevio

import (
	"context"
	"time"

	"elevcoord/src/types"
)

// The pollers turn level readings into an edge-triggered event stream. They
// share one output channel and return only on cancellation or hardware loss.

func (d *Driver) PollButtons(ctx context.Context, rate time.Duration, out chan<- types.HwEvent) error {
	prev := make([][types.NumButtons]bool, d.numFloors)
	return poll(ctx, rate, func() error {
		for f := range d.numFloors {
			for b := range types.NumButtons {
				v, err := d.GetButton(types.ButtonType(b), f)
				if err != nil {
					return err
				}
				if v != prev[f][b] && v {
					ev := types.HwEvent{
						Kind:   types.EvCallButton,
						Button: types.ButtonEvent{Floor: f, Button: types.ButtonType(b)},
					}
					if !send(ctx, out, ev) {
						return ctx.Err()
					}
				}
				prev[f][b] = v
			}
		}
		return nil
	})
}

func (d *Driver) PollFloorSensor(ctx context.Context, rate time.Duration, out chan<- types.HwEvent) error {
	prev := -1
	return poll(ctx, rate, func() error {
		v, err := d.GetFloor()
		if err != nil {
			return err
		}
		if v != prev && v != -1 {
			if !send(ctx, out, types.HwEvent{Kind: types.EvFloorReached, Floor: v}) {
				return ctx.Err()
			}
		}
		prev = v
		return nil
	})
}

func (d *Driver) PollStopButton(ctx context.Context, rate time.Duration, out chan<- types.HwEvent) error {
	prev := false
	return poll(ctx, rate, func() error {
		v, err := d.GetStop()
		if err != nil {
			return err
		}
		if v != prev {
			kind := types.EvStopReleased
			if v {
				kind = types.EvStopPressed
			}
			if !send(ctx, out, types.HwEvent{Kind: kind, Value: v}) {
				return ctx.Err()
			}
		}
		prev = v
		return nil
	})
}

func (d *Driver) PollObstructionSwitch(ctx context.Context, rate time.Duration, out chan<- types.HwEvent) error {
	prev := false
	return poll(ctx, rate, func() error {
		v, err := d.GetObstruction()
		if err != nil {
			return err
		}
		if v != prev {
			if !send(ctx, out, types.HwEvent{Kind: types.EvObstruction, Value: v}) {
				return ctx.Err()
			}
		}
		prev = v
		return nil
	})
}

func poll(ctx context.Context, rate time.Duration, step func() error) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := step(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func send(ctx context.Context, out chan<- types.HwEvent, ev types.HwEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
