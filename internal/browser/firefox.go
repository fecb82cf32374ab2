package browser

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

func firefoxSameSite(v int64) wardlib.SameSite {
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

// parseFirefox reads cookies from a Firefox cookies.sqlite file. When
// site is empty all cookies are returned. Expired cookies are skipped;
// expiry 0 marks a session cookie and is kept. The dbPath should point
// at a copied, not in-use, database.
func parseFirefox(dbPath, site string) ([]*wardlib.Cookie, error) {
	dsn := fmt.Sprintf("file:%s?immutable=1", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Firefox cookie database: %w", err)
	}
	defer db.Close()

	now := time.Now().Unix()

	query := `
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly, sameSite
        FROM moz_cookies
        WHERE (expiry = 0 OR expiry > ?)
    `
	args := []any{now}
	if site != "" {
		query += ` AND (host = ? OR host = ? OR host LIKE ?)`
		args = append(args, site, "."+site, "%."+site)
	}
	query += ` ORDER BY host ASC, name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Firefox cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*wardlib.Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry, sameSite        int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("error: failed to scan Firefox cookie row: %w", err)
		}
		cookies = append(cookies, &wardlib.Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Expires:  expiry,
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
			SameSite: firefoxSameSite(sameSite),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Firefox cookie rows: %w", err)
	}
	return cookies, nil
}

// deleteFirefox removes a cookie by name and domain from a Firefox
// cookies.sqlite database. The database must not be in use.
func deleteFirefox(dbPath, name, domain string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return fmt.Errorf("error: cannot open Firefox cookie database: %w", err)
	}
	defer db.Close()

	res, err := db.Exec(
		`DELETE FROM moz_cookies WHERE name = ? AND (host = ? OR host = ?)`,
		name, domain, "."+domain,
	)
	if err != nil {
		return fmt.Errorf("error: failed to delete Firefox cookie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cookie %s not found for domain %s", name, domain)
	}
	return nil
}
