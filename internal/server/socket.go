package server

import (
	"os"
	"path/filepath"

	"github.com/cookieward/cookieward/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "cookieward.sock")
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}
