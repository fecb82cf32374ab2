//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/cookieward/cookieward/common"
)

// pipeSecurityDescriptor restricts pipe access to SYSTEM, built-in
// Administrators and the Creator Owner. Other users on the machine must
// not be able to read or change cookie permissions.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener creates a Windows named pipe listener with TCP fallback.
// Transport priority: named pipe > TCP on loopback.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Println("Force TCP mode enabled, using TCP listener")
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	}

	l, err := winio.ListenPipe(common.PipePath(), cfg)
	if err != nil {
		s.log.Println("WARNING: Named pipe creation failed:", err.Error())
		s.log.Println("Falling back to TCP")
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tcpListener, nil
	}
	return l, nil
}

// cleanupSocket is a no-op on Windows since named pipes are cleaned up
// by the OS when the last handle is closed.
func cleanupSocket() error {
	return nil
}
