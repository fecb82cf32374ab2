package wardcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cookieward/cookieward/common"
)

type Dispatcher struct {
	Handlers map[common.UpdateType]Handler
}

// ErrDisconnect tells Listen to stop cleanly. Handlers return it when
// they are done listening.
var ErrDisconnect = errors.New("disconnect")

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	if h, ok := d.Handlers[res.Update.Type]; ok {
		return h.Handle(res.Update.Message)
	}
	return nil
}
