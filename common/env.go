// Package common provides shared types and constants used across the
// cookieward client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "COOKIEWARD_SOCKET_PATH"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "COOKIEWARD_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "COOKIEWARD_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "COOKIEWARD_DEBUG"

	// PipeNameEnv is the environment variable for a custom Windows
	// named pipe name.
	PipeNameEnv = "COOKIEWARD_PIPE_NAME"
)
