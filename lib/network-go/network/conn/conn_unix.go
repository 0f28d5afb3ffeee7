//go:build unix

package conn

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// DialBroadcastUDP opens a UDP socket bound to port on all interfaces that may
// send to the broadcast address. Several nodes on one host can share the port.
func DialBroadcastUDP(port int) (net.PacketConn, error) {
	s, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("cannot create socket: %w", err)
	}

	opts := []struct {
		name string
		opt  int
	}{
		{"SO_REUSEADDR", unix.SO_REUSEADDR},
		{"SO_REUSEPORT", unix.SO_REUSEPORT},
		{"SO_BROADCAST", unix.SO_BROADCAST},
	}
	for _, o := range opts {
		if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, o.opt, 1); err != nil {
			unix.Close(s)
			return nil, fmt.Errorf("cannot set %s: %w", o.name, err)
		}
	}

	if err := unix.Bind(s, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(s)
		return nil, fmt.Errorf("cannot bind port %d: %w", port, err)
	}

	f := os.NewFile(uintptr(s), fmt.Sprintf("udp-broadcast-%d", port))
	defer f.Close()

	conn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, fmt.Errorf("cannot wrap socket: %w", err)
	}
	return conn, nil
}
