//go:build !windows

package wardcli

import (
	"fmt"
	"net"
)

// dial connects to the daemon over the unix socket with TCP fallback.
// Transport priority: unix socket > TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("forced TCP, dialing %s", tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	debugLog("dialing unix socket at %s", socketPath())
	conn, unixErr := dialFunc("unix", socketPath())
	if unixErr != nil {
		debugLog("unix socket failed: %v, falling back to TCP", unixErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
		}
		return conn, nil
	}
	return conn, nil
}
