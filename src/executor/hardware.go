package executor

import "elevcoord/src/types"

//go:generate mockgen -source=hardware.go -destination=hardware_mock_test.go -package=executor

// Hardware is the part of the elevator driver the executor needs.
type Hardware interface {
	SetMotorDirection(dir types.MotorDirection) error
	SetDoorOpenLamp(value bool) error
	SetButtonLamp(button types.ButtonType, floor int, value bool) error
	SetFloorIndicator(floor int) error
	SetStopLamp(value bool) error
	GetFloor() (int, error)
	GetObstruction() (bool, error)
}
