package browser

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows
// NT epoch (1601-01-01 00:00:00 UTC) and the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// chromeToUnix converts a Chrome timestamp (microseconds since
// 1601-01-01) to a Unix timestamp in seconds. Zero stays zero, which
// marks a session cookie.
func chromeToUnix(chromeUSec int64) int64 {
	if chromeUSec == 0 {
		return 0
	}
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

func chromeSameSite(v int64) wardlib.SameSite {
	switch v {
	case 0:
		return wardlib.SameSiteNone
	case 1:
		return wardlib.SameSiteLax
	case 2:
		return wardlib.SameSiteStrict
	default:
		return wardlib.SameSiteUnspecified
	}
}

// parseChrome reads cookies from a Chromium Cookies SQLite file. When
// site is empty all cookies are returned, otherwise only cookies whose
// host matches the site or a parent wildcard. Encrypted values come
// back empty; the cookie is still listed so it can be classified by
// name and acted on. The dbPath should point at a copied, not in-use,
// database.
func parseChrome(dbPath, site string) ([]*wardlib.Cookie, error) {
	dsn := fmt.Sprintf("file:%s?immutable=1", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	nowChrome := (time.Now().Unix() + chromeEpochOffsetSeconds) * 1_000_000

	query := `
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly, samesite
        FROM cookies
        WHERE (expires_utc = 0 OR expires_utc > ?)
    `
	args := []any{nowChrome}
	if site != "" {
		query += ` AND (host_key = ? OR host_key = ? OR host_key LIKE ?)`
		args = append(args, site, "."+site, "%."+site)
	}
	query += ` ORDER BY host_key ASC, name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Chrome cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*wardlib.Cookie
	for rows.Next() {
		var (
			name, value, hostKey, path string
			expiresUTC, sameSite       int64
			isSecure, isHttpOnly       int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHttpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("error: failed to scan Chrome cookie row: %w", err)
		}
		cookies = append(cookies, &wardlib.Cookie{
			Name:     name,
			Value:    value,
			Domain:   hostKey,
			Path:     path,
			Expires:  chromeToUnix(expiresUTC),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
			SameSite: chromeSameSite(sameSite),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Chrome cookie rows: %w", err)
	}
	return cookies, nil
}

// deleteChrome removes a cookie by name and domain from a Chromium
// Cookies database. The database must not be in use by the browser.
func deleteChrome(dbPath, name, domain string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return fmt.Errorf("error: cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	res, err := db.Exec(
		`DELETE FROM cookies WHERE name = ? AND (host_key = ? OR host_key = ?)`,
		name, domain, "."+domain,
	)
	if err != nil {
		return fmt.Errorf("error: failed to delete Chrome cookie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cookie %s not found for domain %s", name, domain)
	}
	return nil
}
