// Package bcast moves raw datagrams to and from the UDP broadcast address.
// Encoding is left to the caller.
package bcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"elevcoord/lib/network-go/network/conn"
)

const BufSize = 4096

// ErrTooLarge is returned for payloads that do not fit in one datagram.
var ErrTooLarge = errors.New("message larger than buffer size")

const readInterval = 100 * time.Millisecond

// Transmitter broadcasts every payload received on in until ctx is cancelled.
// Send errors are logged and the payload dropped; the network is best effort.
func Transmitter(ctx context.Context, port int, in <-chan []byte) error {
	c, err := conn.DialBroadcastUDP(port)
	if err != nil {
		return err
	}
	defer c.Close()

	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("255.255.255.255:%d", port))
	if err != nil {
		return fmt.Errorf("cannot resolve broadcast address: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-in:
			if len(data) > BufSize {
				slog.Warn("Dropping datagram", "length", len(data), "error", ErrTooLarge)
				continue
			}
			if _, err := c.WriteTo(data, addr); err != nil {
				slog.Warn("WriteTo error", "error", err)
			}
		}
	}
}

// Receiver forwards every datagram read on port to out until ctx is cancelled.
// A datagram is dropped if out is full.
func Receiver(ctx context.Context, port int, out chan<- []byte) error {
	c, err := conn.DialBroadcastUDP(port)
	if err != nil {
		return err
	}
	defer c.Close()

	var buf [BufSize]byte
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.SetReadDeadline(time.Now().Add(readInterval)); err != nil {
			slog.Warn("SetReadDeadline error", "error", err)
		}

		n, _, err := c.ReadFrom(buf[:])
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("cannot read from port %d: %w", port, err)
			}
			slog.Warn("ReadFrom error", "error", err)
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case out <- data:
		default:
			slog.Debug("Receive buffer full, dropping datagram")
		}
	}
}
