package browser

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat determines the cookie store schema of the file at path.
func DetectFormat(path string) (StoreFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cookie store not found: %s", path)
	}
	if info.IsDir() {
		return FormatUnknown, fmt.Errorf("error: %s is a directory, expected a cookie database path", path)
	}
	if info.Size() == 0 {
		return FormatUnknown, fmt.Errorf("error: cookie store at %s is empty or corrupted", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open cookie store: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot read cookie store: %w", err)
	}
	if n < 16 || string(header[:16]) != string(sqliteMagic) {
		return FormatUnknown, fmt.Errorf("error: unsupported cookie store format at %s", path)
	}
	return detectSQLiteFormat(path)
}

// detectSQLiteFormat opens the SQLite file and checks which cookie
// table exists.
func detectSQLiteFormat(path string) (StoreFormat, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	defer db.Close()

	var tableName string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&tableName)
	if err == nil {
		return FormatFirefox, nil
	}

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&tableName)
	if err == nil {
		return FormatChrome, nil
	}

	return FormatUnknown, fmt.Errorf("error: unsupported cookie database schema at %s", path)
}
