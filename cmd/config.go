package cmd

const DESCRIPTION = `
Cookieward is a browser cookie privacy assistant. It watches the
cookies websites set, classifies the personal data they may encode,
scores their risk, and enforces your per-cookie allow and block
decisions against the live browser store.
`

const (
	StatsDescription = `The stats command shows the aggregate cookie counters for a
website: total distinct cookies seen, how many look suspicious,
and how many are blocked or explicitly allowed.

Example:
        cookieward stats shop.example.com

`
	ListDescription = `The list command displays every cookie known for a website,
merging live browser cookies with history and permissions. Each
entry shows its lifecycle state, risk level and detected data
categories.

Example:
        cookieward list shop.example.com

`
	ScanDescription = `The scan command runs one monitoring pass: it reads the live
browser store, folds sightings and removals into the history
ledger, and re-applies blocking permissions.

Example:
        cookieward scan
        cookieward scan shop.example.com

`
	BlockDescription = `The block command stores a blocking permission for a cookie and
removes it from the live browser store. The cookie is removed
again automatically whenever it reappears.

Example:
        cookieward block _fbp tracker.example.net

`
	AllowDescription = `The allow command stores an explicit allow permission for a
cookie.

Example:
        cookieward allow session_id shop.example.com

`
	CustomDescription = `The custom command stores a permission allowing only specific
data categories for a cookie. With no categories it behaves like
block.

Example:
        cookieward custom _prefs shop.example.com -c preference -c language

`
	UnblockDescription = `The unblock command removes a stored permission, reverting the
cookie to no-opinion. It stays allowed by default unless the risk
policy blocks it again.

Example:
        cookieward unblock _fbp tracker.example.net

`
	ExplainDescription = `The explain command produces a plain-language explanation of what
a cookie likely does, served from the daemon's explanation cache
when available.

Example:
        cookieward explain _ga shop.example.com

`
	ExportDescription = `The export command writes the full cookie report of a website as
a JSON document. The destination may be a local path or an
ftp://, ftps:// or sftp:// URL.

Example:
        cookieward export shop.example.com -o report.json
        cookieward export shop.example.com -o sftp://user@host/reports/shop.json

`
	WatchDescription = `The watch command attaches to the daemon and prints stats changes
and suspicious cookie alerts as they happen.

Example:
        cookieward watch

`
)
