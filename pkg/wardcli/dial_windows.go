//go:build windows

package wardcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/cookieward/cookieward/common"
)

// dialPipeFunc points to the pipe dialer so tests can intercept it.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

// dial connects to the daemon over the named pipe with TCP fallback.
// Transport priority: named pipe > TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("forced TCP, dialing %s", tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	pipePath := common.PipePath()
	debugLog("dialing named pipe at %s", pipePath)
	conn, pipeErr := dialPipeFunc(pipePath, common.DefaultDialTimeout)
	if pipeErr != nil {
		debugLog("named pipe failed: %v, falling back to TCP", pipeErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		return conn, nil
	}
	return conn, nil
}
