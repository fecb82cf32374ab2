package server

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
)

// HandlerFunc is the signature of a socket request handler. It receives
// the synchronized connection the request arrived on, the pool of
// attached connections, and the raw JSON message body. It returns the
// update type for the response, the response payload, and any error.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
