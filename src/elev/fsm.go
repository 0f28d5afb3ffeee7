// Package elev is the cab controller of a single car, written as a pure
// transition function. The goroutine owning the car applies the returned state
// and executes the returned commands against the hardware and request store.
package elev

import "elevcoord/src/types"

// State is everything the controller decides on.
type State struct {
	Floor      int
	Dir        types.MotorDirection
	Behaviour  types.ElevBehaviour
	Obstructed bool
	// Stopped is set by the stop button and cleared only by Initialize.
	Stopped  bool
	Requests types.Requests
}

// NewState returns the boot state: unavailable until a floor is known.
func NewState(numFloors int) State {
	return State{
		Floor:     -1,
		Dir:       types.MD_Stop,
		Behaviour: types.Unavailable,
		Requests:  types.NewRequests(numFloors),
	}
}

func (s State) hasRequest(floor int, btn types.ButtonType) bool {
	return floor >= 0 && floor < len(s.Requests) && s.Requests[floor][btn]
}

type Event interface{ isEvent() }

// Initialize starts or restarts the controller. SensorFloor is -1 when the car
// is between floors.
type Initialize struct{ SensorFloor int }

type FloorArrival struct{ Floor int }

type RequestsChanged struct{ Requests types.Requests }

type DoorTimeout struct{}

type ObstructionChanged struct{ Obstructed bool }

type StopPressed struct{}

// MotorTimeout fires when a moving car has not reached a floor in time.
type MotorTimeout struct{}

func (Initialize) isEvent()         {}
func (FloorArrival) isEvent()       {}
func (RequestsChanged) isEvent()    {}
func (DoorTimeout) isEvent()        {}
func (ObstructionChanged) isEvent() {}
func (StopPressed) isEvent()        {}
func (MotorTimeout) isEvent()       {}

type Command interface{ isCommand() }

type SetMotor struct{ Dir types.MotorDirection }

type SetDoorLight struct{ On bool }

type SetFloorIndicator struct{ Floor int }

type StartDoorTimer struct{}

type StopDoorTimer struct{}

type StartMotorWatchdog struct{}

type StopMotorWatchdog struct{}

// ClearRequests tells the request store which buttons were served at Floor.
type ClearRequests struct {
	Floor   int
	Buttons [types.NumButtons]bool
}

// RelinquishHall tells the request store to give up every hall request.
type RelinquishHall struct{}

func (SetMotor) isCommand()           {}
func (SetDoorLight) isCommand()       {}
func (SetFloorIndicator) isCommand()  {}
func (StartDoorTimer) isCommand()     {}
func (StopDoorTimer) isCommand()      {}
func (StartMotorWatchdog) isCommand() {}
func (StopMotorWatchdog) isCommand()  {}
func (ClearRequests) isCommand()      {}
func (RelinquishHall) isCommand()     {}

// Transition computes the next state and the commands that realise it. It
// never mutates its input.
func Transition(s State, ev Event) (State, []Command) {
	s.Requests = s.Requests.Clone()
	var cmds []Command

	switch ev := ev.(type) {
	case Initialize:
		s.Stopped = false
		cmds = append(cmds, StopDoorTimer{}, SetDoorLight{On: false})
		if ev.SensorFloor < 0 {
			s.Behaviour = types.Unavailable
			s.Dir = types.MD_Down
			cmds = append(cmds, SetMotor{Dir: types.MD_Down}, StartMotorWatchdog{})
			return s, cmds
		}
		s.Floor = ev.SensorFloor
		s.Dir = types.MD_Stop
		s.Behaviour = types.Idle
		cmds = append(cmds, SetMotor{Dir: types.MD_Stop}, StopMotorWatchdog{},
			SetFloorIndicator{Floor: s.Floor})
		return chooseAction(s, cmds)

	case FloorArrival:
		s.Floor = ev.Floor
		cmds = append(cmds, SetFloorIndicator{Floor: s.Floor})

		switch s.Behaviour {
		case types.Unavailable:
			if s.Stopped {
				return s, cmds
			}
			// First floor after boot or after the motor watchdog fired.
			s.Behaviour = types.Idle
			cmds = append(cmds, SetMotor{Dir: types.MD_Stop}, StopMotorWatchdog{})
			return chooseAction(s, cmds)

		case types.Moving:
			if !ShouldStop(s) {
				return s, append(cmds, StartMotorWatchdog{})
			}
			cmds = append(cmds, SetMotor{Dir: types.MD_Stop}, StopMotorWatchdog{})
			if !requestsHere(s) {
				s.Behaviour = types.Idle
				return chooseAction(s, cmds)
			}
			return openDoor(s, cmds)
		}
		return s, cmds

	case RequestsChanged:
		s.Requests = ev.Requests.Clone()

		switch s.Behaviour {
		case types.Idle:
			return chooseAction(s, cmds)
		case types.DoorOpen:
			if clear := OrdersToClearHere(s); clear != ([types.NumButtons]bool{}) {
				// A new call at this floor keeps the door open.
				s, cmds = clearHere(s, cmds)
				cmds = append(cmds, StartDoorTimer{})
			}
		}
		return s, cmds

	case DoorTimeout:
		if s.Behaviour != types.DoorOpen {
			return s, nil
		}
		if s.Obstructed {
			return s, append(cmds, StartDoorTimer{})
		}
		s, cmds = clearHere(s, cmds)
		pair := ChooseDirection(s)
		s.Dir = pair.Dir
		s.Behaviour = pair.Behaviour

		switch pair.Behaviour {
		case types.DoorOpen:
			// Announce the new direction; the door stays open.
			s, cmds = clearHere(s, cmds)
			cmds = append(cmds, StartDoorTimer{})
		case types.Moving:
			cmds = append(cmds, SetDoorLight{On: false}, SetMotor{Dir: s.Dir}, StartMotorWatchdog{})
		default:
			cmds = append(cmds, SetDoorLight{On: false})
		}
		return s, cmds

	case ObstructionChanged:
		s.Obstructed = ev.Obstructed
		return s, nil

	case StopPressed:
		s.Stopped = true
		s.Behaviour = types.Unavailable
		s.Dir = types.MD_Stop
		s.Requests = withoutHall(s.Requests)
		return s, []Command{
			SetMotor{Dir: types.MD_Stop},
			SetDoorLight{On: false},
			StopMotorWatchdog{},
			StopDoorTimer{},
			RelinquishHall{},
		}

	case MotorTimeout:
		if s.Behaviour != types.Moving {
			return s, nil
		}
		// Keep driving towards the next floor, but let the master reassign.
		s.Behaviour = types.Unavailable
		s.Requests = withoutHall(s.Requests)
		return s, []Command{RelinquishHall{}}
	}

	return s, nil
}

// chooseAction is called from Idle, on request changes and after initialisation.
func chooseAction(s State, cmds []Command) (State, []Command) {
	pair := ChooseDirection(s)
	s.Dir = pair.Dir

	switch pair.Behaviour {
	case types.Moving:
		s.Behaviour = types.Moving
		cmds = append(cmds, SetMotor{Dir: s.Dir}, StartMotorWatchdog{})
	case types.DoorOpen:
		return openDoor(s, cmds)
	default:
		s.Behaviour = types.Idle
	}
	return s, cmds
}

func openDoor(s State, cmds []Command) (State, []Command) {
	s.Behaviour = types.DoorOpen
	cmds = append(cmds, SetDoorLight{On: true})
	s, cmds = clearHere(s, cmds)
	return s, append(cmds, StartDoorTimer{})
}

func clearHere(s State, cmds []Command) (State, []Command) {
	clear := OrdersToClearHere(s)
	if clear == ([types.NumButtons]bool{}) {
		return s, cmds
	}
	for btn, c := range clear {
		if c {
			s.Requests[s.Floor][btn] = false
		}
	}
	return s, append(cmds, ClearRequests{Floor: s.Floor, Buttons: clear})
}

func requestsHere(s State) bool {
	return s.Floor >= 0 && s.Floor < len(s.Requests) && s.Requests[s.Floor] != [types.NumButtons]bool{}
}

func withoutHall(reqs types.Requests) types.Requests {
	for floor := range reqs {
		reqs[floor][types.BT_HallUp] = false
		reqs[floor][types.BT_HallDown] = false
	}
	return reqs
}
