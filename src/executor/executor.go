// Package executor owns one car: its controller state, its request store and
// the hardware. Everything else talks to it over channels.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"elevcoord/src/config"
	"elevcoord/src/elev"
	"elevcoord/src/requests"
	"elevcoord/src/timer"
	"elevcoord/src/types"
	"elevcoord/src/utils"
)

type Executor struct {
	cfg   config.Config
	hw    Hardware
	state elev.State
	store *requests.Store

	doorAction  chan timer.TimerAction
	motorAction chan timer.TimerAction

	cabLamps []bool
	restored bool
}

func New(cfg config.Config, hw Hardware) *Executor {
	return &Executor{
		cfg:         cfg,
		hw:          hw,
		state:       elev.NewState(cfg.NumFloors),
		store:       requests.NewStore(cfg.NodeID, cfg.NumFloors),
		doorAction:  make(chan timer.TimerAction, 16),
		motorAction: make(chan timer.TimerAction, 16),
		cabLamps:    make([]bool, cfg.NumFloors),
	}
}

// Run drives the car until ctx is cancelled or the hardware fails. Hardware
// events and assignments go in; the latest car report comes out on reportCh,
// which must have a buffer of one.
func (e *Executor) Run(ctx context.Context,
	hwEvents <-chan types.HwEvent,
	assignCh <-chan types.Assignment,
	reportCh chan types.LocalReport,
) (err error) {
	doorTimeout := make(chan struct{})
	motorTimeout := make(chan struct{})
	go timer.Timer(ctx, "door", e.cfg.DoorOpenDuration, doorTimeout, e.doorAction)
	go timer.Timer(ctx, "motor", e.cfg.MotorTimeout, motorTimeout, e.motorAction)

	defer func() {
		if err != nil {
			// Best effort: the connection is probably gone already.
			if stopErr := e.hw.SetMotorDirection(types.MD_Stop); stopErr != nil {
				slog.Error("Cannot stop motor", "error", stopErr)
			}
			err = fmt.Errorf("cannot drive car %d: %w", e.cfg.NodeID, err)
		}
	}()

	if err := e.init(); err != nil {
		return err
	}
	utils.SendLatest(reportCh, e.Report())

	for {
		select {
		case <-ctx.Done():
			return e.hw.SetMotorDirection(types.MD_Stop)
		case ev := <-hwEvents:
			err = e.handleHw(ev)
		case <-doorTimeout:
			err = e.handle(elev.DoorTimeout{})
		case <-motorTimeout:
			slog.Warn("Motor timeout, car unavailable", "floor", e.state.Floor, "dir", e.state.Dir)
			err = e.handle(elev.MotorTimeout{})
		case a := <-assignCh:
			err = e.assign(a)
		}
		if err != nil {
			return err
		}
		utils.SendLatest(reportCh, e.Report())
	}
}

// init reads the sensors and starts the controller.
func (e *Executor) init() error {
	floor, err := e.hw.GetFloor()
	if err != nil {
		return err
	}
	obstructed, err := e.hw.GetObstruction()
	if err != nil {
		return err
	}
	for floor := range e.cfg.NumFloors {
		for btn := range types.NumButtons {
			if err := e.hw.SetButtonLamp(types.ButtonType(btn), floor, false); err != nil {
				return err
			}
		}
	}
	if err := e.handle(elev.ObstructionChanged{Obstructed: obstructed}); err != nil {
		return err
	}
	slog.Info("Car initialised", "nodeID", e.cfg.NodeID, "floor", floor)
	return e.handle(elev.Initialize{SensorFloor: floor})
}

func (e *Executor) handleHw(ev types.HwEvent) error {
	switch ev.Kind {
	case types.EvCallButton:
		slog.Debug("Button pressed", "button", utils.FormatBtnEvent(ev.Button))
		if !e.store.Add(ev.Button) || ev.Button.Button != types.BT_Cab {
			return nil
		}
		return e.requestsChanged()

	case types.EvFloorReached:
		return e.handle(elev.FloorArrival{Floor: ev.Floor})

	case types.EvObstruction:
		slog.Info("Obstruction changed", "obstructed", ev.Value)
		return e.handle(elev.ObstructionChanged{Obstructed: ev.Value})

	case types.EvStopPressed:
		slog.Warn("Stop button pressed")
		if err := e.hw.SetStopLamp(true); err != nil {
			return err
		}
		return e.handle(elev.StopPressed{})

	case types.EvStopReleased:
		if err := e.hw.SetStopLamp(false); err != nil {
			return err
		}
		floor, err := e.hw.GetFloor()
		if err != nil {
			return err
		}
		slog.Info("Stop button released, reinitialising", "floor", floor)
		return e.handle(elev.Initialize{SensorFloor: floor})
	}
	return nil
}

// assign installs the hall matrix from the worldview and, the first time one
// is offered, merges the cab requests the master kept for this car.
func (e *Executor) assign(a types.Assignment) error {
	changed := e.store.SetHallMatrix(a.Hall)
	if !e.restored && a.CabBackup != nil {
		e.restored = true
		if e.store.RestoreCab(a.CabBackup) {
			slog.Info("Restored cab requests", "cab", e.store.Cab())
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return e.requestsChanged()
}

func (e *Executor) requestsChanged() error {
	return e.handle(elev.RequestsChanged{Requests: e.store.View()})
}

func (e *Executor) handle(ev elev.Event) error {
	prev := e.state
	next, cmds := elev.Transition(e.state, ev)
	e.state = next

	for _, cmd := range cmds {
		if err := e.execute(cmd); err != nil {
			return err
		}
	}
	e.state.Requests = e.store.View()

	if prev.Behaviour != next.Behaviour || prev.Floor != next.Floor {
		slog.Debug("Car state", "floor", next.Floor, "dir", next.Dir, "behaviour", next.Behaviour)
	}
	return e.syncCabLights()
}

func (e *Executor) execute(cmd elev.Command) error {
	switch cmd := cmd.(type) {
	case elev.SetMotor:
		return e.hw.SetMotorDirection(cmd.Dir)
	case elev.SetDoorLight:
		return e.hw.SetDoorOpenLamp(cmd.On)
	case elev.SetFloorIndicator:
		return e.hw.SetFloorIndicator(cmd.Floor)
	case elev.StartDoorTimer:
		e.doorAction <- timer.Start
	case elev.StopDoorTimer:
		e.doorAction <- timer.Stop
	case elev.StartMotorWatchdog:
		e.motorAction <- timer.Start
	case elev.StopMotorWatchdog:
		e.motorAction <- timer.Stop
	case elev.ClearRequests:
		for btn, clear := range cmd.Buttons {
			if clear {
				e.store.Remove(types.ButtonEvent{Floor: cmd.Floor, Button: types.ButtonType(btn)})
			}
		}
	case elev.RelinquishHall:
		e.store.Relinquish()
	}
	return nil
}

// Report is the car state handed to the worldview owner.
func (e *Executor) Report() types.LocalReport {
	return types.LocalReport{
		State: types.ElevState{
			NodeID:      e.cfg.NodeID,
			Floor:       e.state.Floor,
			Dir:         e.state.Dir,
			Behaviour:   e.state.Behaviour,
			Obstructed:  e.state.Obstructed,
			CabRequests: e.store.Cab(),
		},
		Calls:  e.store.Calls(),
		Served: e.store.Served(),
	}
}
