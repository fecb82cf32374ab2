//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/cookieward/cookieward/common"
)

// createListener creates a unix socket listener with TCP fallback.
// Transport priority: unix socket > TCP on loopback.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	socketPath := socketPath()
	_ = os.Remove(socketPath)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: socketPath,
		Net:  "unix",
	})
	if err != nil {
		s.log.Println("Error occurred while using unix socket:", err.Error())
		s.log.Println("Trying to use tcp socket")
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tcpListener, nil
	}
	// the socket carries permission decisions, keep it owner-only
	_ = os.Chmod(socketPath, 0700)
	return l, nil
}

// cleanupSocket removes the unix socket file.
func cleanupSocket() error {
	socketPath := socketPath()
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
