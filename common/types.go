package common

import "github.com/cookieward/cookieward/pkg/wardlib"

type ScriptLoadedParams struct {
	Url    string `json:"url"`
	Secure bool   `json:"secure,omitempty"`
}

type ScriptLoadedResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

type ActiveTabResponse struct {
	Tab *wardlib.Tab `json:"tab"`
}

type PermissionParams struct {
	Cookie           wardlib.Cookie     `json:"cookie"`
	Action           wardlib.Action     `json:"action"`
	AllowedDataTypes []wardlib.Category `json:"allowed_data_types,omitempty"`
}

type PermissionResponse struct {
	Success    bool                `json:"success"`
	Permission *wardlib.Permission `json:"permission,omitempty"`
}

type RemovePermissionParams struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type CookieStatsParams struct {
	// Website to compute stats for; empty means the active tab.
	Website string `json:"website,omitempty"`
}

type CookieStatsResponse struct {
	Website string        `json:"website"`
	Stats   wardlib.Stats `json:"stats"`
}

type CookieDataParams struct {
	Website string `json:"website,omitempty"`
}

type CookieDataResponse struct {
	Data *wardlib.ExportDocument `json:"data"`
}

type ExplanationParams struct {
	Cookie wardlib.Cookie `json:"cookie"`
}

type ExplanationResponse struct {
	Explanation string `json:"explanation"`
	Cached      bool   `json:"cached,omitempty"`
}

type ScanParams struct {
	Website string `json:"website,omitempty"`
}

type ScanResponse struct {
	Scanned int           `json:"scanned"`
	Stats   wardlib.Stats `json:"stats"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}

type AttachResponse struct {
	Attached bool `json:"attached"`
}

// StatsChangedUpdate is pushed to attached clients whenever a scan
// changes the aggregate stats of a website.
type StatsChangedUpdate struct {
	Website string        `json:"website"`
	Stats   wardlib.Stats `json:"stats"`
}

// SuspiciousCookieUpdate is pushed to attached clients when a scan
// sights a cookie at or above the medium risk threshold.
type SuspiciousCookieUpdate struct {
	Website    string             `json:"website"`
	Cookie     wardlib.Cookie     `json:"cookie"`
	Categories []wardlib.Category `json:"categories,omitempty"`
	RiskScore  int                `json:"risk_score"`
	RiskLevel  wardlib.RiskLevel  `json:"risk_level"`
}
