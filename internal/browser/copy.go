package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// safeCopy copies a SQLite cookie database (and its -wal and -shm
// companions if present) to a temporary directory, so reads never fight
// the browser over the live file.
//
// Returns the copied database path, a cleanup function that removes the
// temp directory, and an error. The caller must call cleanup when done.
func safeCopy(srcPath string) (dbPath string, cleanup func(), err error) {
	info, err := os.Stat(srcPath)
	if err != nil {
		return "", nil, fmt.Errorf("error: cookie store not found: %s", srcPath)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("error: %s is a directory, expected a cookie database path", srcPath)
	}
	if info.Size() == 0 {
		return "", nil, fmt.Errorf("error: cookie store at %s is empty or corrupted", srcPath)
	}

	tempDir, err := os.MkdirTemp("", "cookieward-store-*")
	if err != nil {
		return "", nil, fmt.Errorf("error: cannot create temp directory: %w", err)
	}
	cleanup = func() {
		os.RemoveAll(tempDir)
	}

	baseName := filepath.Base(srcPath)
	dbPath = filepath.Join(tempDir, baseName)
	if err := copyFile(srcPath, dbPath); err != nil {
		cleanup()
		return "", nil, err
	}

	// Copy WAL and SHM if they exist (best-effort)
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if _, err := os.Stat(companion); err == nil {
			_ = copyFile(companion, dbPath+suffix)
		}
	}

	return dbPath, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error: cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error: cannot create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error: cannot copy file: %w", err)
	}
	return nil
}
