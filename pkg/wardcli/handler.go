package wardcli

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Handler processes daemon push updates. Implementations receive the
// raw JSON message and are responsible for unmarshaling it.
type Handler interface {
	Handle(json.RawMessage) error
}

// StatsHandler invokes a callback for every stats broadcast.
type StatsHandler struct {
	Callback func(*common.StatsChangedUpdate) error
}

// NewStatsHandler creates a handler for stats change updates.
func NewStatsHandler(callback func(*common.StatsChangedUpdate) error) *StatsHandler {
	return &StatsHandler{Callback: callback}
}

func (h *StatsHandler) Handle(m json.RawMessage) error {
	var v common.StatsChangedUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	return h.Callback(&v)
}

// SuspiciousCookieHandler invokes a callback for every suspicious
// cookie broadcast. MinLevel filters out updates below the given risk
// level; leave it empty to receive all.
type SuspiciousCookieHandler struct {
	MinLevel wardlib.RiskLevel
	Callback func(*common.SuspiciousCookieUpdate) error
}

// NewSuspiciousCookieHandler creates a handler for suspicious cookie
// updates. Pass an empty level to receive all.
func NewSuspiciousCookieHandler(minLevel wardlib.RiskLevel, callback func(*common.SuspiciousCookieUpdate) error) *SuspiciousCookieHandler {
	return &SuspiciousCookieHandler{
		MinLevel: minLevel,
		Callback: callback,
	}
}

func levelRank(l wardlib.RiskLevel) int {
	switch l {
	case wardlib.RiskHigh:
		return 2
	case wardlib.RiskMedium:
		return 1
	default:
		return 0
	}
}

func (h *SuspiciousCookieHandler) Handle(m json.RawMessage) error {
	var v common.SuspiciousCookieUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	if h.MinLevel != "" && levelRank(v.RiskLevel) < levelRank(h.MinLevel) {
		return nil
	}
	return h.Callback(&v)
}
