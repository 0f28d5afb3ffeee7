// This file defines types and functions for interfacing with the elevator hardware.
// It establishes a TCP connection with the elevator server
package elevio

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"elevcoord/src/types"
)

// ErrHardwareIO is wrapped by every error caused by a lost or broken connection
// to the elevator server. It is fatal to the node.
var ErrHardwareIO = errors.New("hardware i/o failure")

const ioTimeout = 2 * time.Second

type Driver struct {
	mtx       sync.Mutex
	conn      net.Conn
	numFloors int
}

// Dial opens the TCP connection to the elevator server.
func Dial(addr string, numFloors int) (*Driver, error) {
	conn, err := net.DialTimeout("tcp", addr, ioTimeout)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to elevator server at %s: %w: %w", addr, ErrHardwareIO, err)
	}
	return &Driver{conn: conn, numFloors: numFloors}, nil
}

func (d *Driver) Close() error {
	return d.conn.Close()
}

func (d *Driver) NumFloors() int {
	return d.numFloors
}

func (d *Driver) SetMotorDirection(dir types.MotorDirection) error {
	return d.write([4]byte{1, byte(dir), 0, 0})
}

func (d *Driver) SetButtonLamp(button types.ButtonType, floor int, value bool) error {
	return d.write([4]byte{2, byte(button), byte(floor), toByte(value)})
}

func (d *Driver) SetFloorIndicator(floor int) error {
	return d.write([4]byte{3, byte(floor), 0, 0})
}

func (d *Driver) SetDoorOpenLamp(value bool) error {
	return d.write([4]byte{4, toByte(value), 0, 0})
}

func (d *Driver) SetStopLamp(value bool) error {
	return d.write([4]byte{5, toByte(value), 0, 0})
}

func (d *Driver) GetButton(button types.ButtonType, floor int) (bool, error) {
	a, err := d.read([4]byte{6, byte(button), byte(floor), 0})
	return toBool(a[1]), err
}

// GetFloor returns the floor sensed by the car, or -1 between floors.
func (d *Driver) GetFloor() (int, error) {
	a, err := d.read([4]byte{7, 0, 0, 0})
	if err != nil {
		return -1, err
	}
	if a[1] != 0 {
		return int(a[2]), nil
	}
	return -1, nil
}

func (d *Driver) GetStop() (bool, error) {
	a, err := d.read([4]byte{8, 0, 0, 0})
	return toBool(a[1]), err
}

func (d *Driver) GetObstruction() (bool, error) {
	a, err := d.read([4]byte{9, 0, 0, 0})
	return toBool(a[1]), err
}

func (d *Driver) read(in [4]byte) ([4]byte, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	var out [4]byte
	if err := d.conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
		return out, fmt.Errorf("cannot set deadline: %w: %w", ErrHardwareIO, err)
	}
	if _, err := d.conn.Write(in[:]); err != nil {
		return out, fmt.Errorf("lost connection to elevator server: %w: %w", ErrHardwareIO, err)
	}
	if _, err := io.ReadFull(d.conn, out[:]); err != nil {
		return out, fmt.Errorf("lost connection to elevator server: %w: %w", ErrHardwareIO, err)
	}
	return out, nil
}

func (d *Driver) write(in [4]byte) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err := d.conn.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return fmt.Errorf("cannot set deadline: %w: %w", ErrHardwareIO, err)
	}
	if _, err := d.conn.Write(in[:]); err != nil {
		return fmt.Errorf("lost connection to elevator server: %w: %w", ErrHardwareIO, err)
	}
	return nil
}

func toByte(a bool) byte {
	var b byte = 0
	if a {
		b = 1
	}
	return b
}

func toBool(a byte) bool {
	return a != 0
}
