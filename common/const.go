package common

type UpdateType string

const (
	UPDATE_SCRIPT_LOADED     UpdateType = "content_script_loaded"
	UPDATE_ACTIVE_TAB        UpdateType = "get_active_tab"
	UPDATE_PERMISSIONS       UpdateType = "update_cookie_permissions"
	UPDATE_REMOVE_PERMISSION UpdateType = "remove_cookie_permission"
	UPDATE_COOKIE_STATS      UpdateType = "get_cookie_stats"
	UPDATE_COOKIE_DATA       UpdateType = "get_all_cookie_data"
	UPDATE_EXPLANATION       UpdateType = "get_ai_explanation"
	UPDATE_ATTACH            UpdateType = "attach"
	UPDATE_SCAN              UpdateType = "scan"
	UPDATE_VERSION           UpdateType = "version"

	// push updates broadcast to attached clients
	UPDATE_STATS_CHANGED     UpdateType = "stats_updated"
	UPDATE_SUSPICIOUS_COOKIE UpdateType = "suspicious_cookie"
)
