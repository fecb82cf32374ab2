// Package wardcli is the client library for the cookieward daemon's
// socket protocol. It dials the daemon, invokes methods synchronously
// and dispatches push updates to registered handlers.
package wardcli

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
)

type Request struct {
	Method  common.UpdateType `json:"method"`
	Message any               `json:"message,omitempty"`
}

type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message"`
}
