package wardlib

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirEnv is the environment variable name used to override the default
// configuration directory.
const ConfigDirEnv = "COOKIEWARD_CONFIG_DIR"

// DefaultFileMode is the file mode used for store files.
const DefaultFileMode os.FileMode = 0644

var (
	// ConfigDir is the absolute path to the cookieward configuration directory.
	ConfigDir string

	// __SYNCDATA_FILE_NAME holds permissions and user settings.
	__SYNCDATA_FILE_NAME string
	// __LOCALDATA_FILE_NAME holds the cookie history ledger.
	__LOCALDATA_FILE_NAME string
)

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cdr, "cookieward")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	__SYNCDATA_FILE_NAME = filepath.Join(abs, "syncdata.ward")
	__LOCALDATA_FILE_NAME = filepath.Join(abs, "localdata.ward")
	KnownHostsPath = filepath.Join(abs, "known_hosts")
	return nil
}

// SetConfigDir sets the configuration directory to the specified path.
// It creates the directory if it does not exist and repoints the store
// file locations beneath it.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}
