package common

import "time"

// DefaultDialTimeout bounds client connection attempts to the daemon.
const DefaultDialTimeout = 5 * time.Second

// Network constants for the daemon transports.
const (
	// TCPHost is the host used for TCP fallback listeners. The daemon
	// only ever binds loopback.
	TCPHost = "127.0.0.1"

	// DefaultTCPPort is the TCP fallback port when the unix socket or
	// named pipe cannot be created.
	DefaultTCPPort = 4617

	// DefaultWebPort is the HTTP port for the JSON-RPC bridge and the
	// browser extension WebSocket endpoint.
	DefaultWebPort = 4618
)
