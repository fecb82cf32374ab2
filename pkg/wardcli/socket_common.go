package wardcli

import (
	"net"
	"os"
	"strconv"

	"github.com/cookieward/cookieward/common"
)

// dialFunc points to net.Dial so tests can intercept connections.
var dialFunc = net.Dial

func tcpAddress() string {
	port := common.DefaultTCPPort
	if v := os.Getenv(common.TCPPortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			port = p
		}
	}
	return net.JoinHostPort(common.TCPHost, strconv.Itoa(port))
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}
