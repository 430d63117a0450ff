//go:build !unix && !windows

package udp

import "syscall"

// The runtime already sets SO_BROADCAST on datagram sockets here.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
