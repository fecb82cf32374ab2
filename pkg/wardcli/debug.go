package wardcli

import (
	"log"
	"os"

	"github.com/cookieward/cookieward/common"
)

func debugLog(format string, args ...any) {
	if os.Getenv(common.DebugEnv) == "" {
		return
	}
	log.Printf("wardcli: "+format, args...)
}
