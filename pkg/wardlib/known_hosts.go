package wardlib

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// KnownHostsPath is the path to cookieward's TOFU known_hosts file, kept
// apart from the system ~/.ssh/known_hosts. Updated when SetConfigDir is
// called.
var KnownHostsPath = filepath.Join(ConfigDir, "known_hosts")

// knownHostsMu serializes appends to the known_hosts file.
var knownHostsMu sync.Mutex

// newTOFUHostKeyCallback creates an ssh.HostKeyCallback implementing
// trust-on-first-use:
//   - known host with matching key: accept
//   - known host with changed key: reject with a MITM warning
//   - unknown host: accept and append to the known_hosts file
//
// The known_hosts file is re-read on every call so keys appended by a
// concurrent upload are visible immediately.
func newTOFUHostKeyCallback(knownHostsFile string) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		if err := os.MkdirAll(filepath.Dir(knownHostsFile), 0700); err != nil {
			return fmt.Errorf("sftp: failed to create known_hosts directory: %w", err)
		}

		if _, err := os.Stat(knownHostsFile); err == nil {
			cb, loadErr := knownhosts.New(knownHostsFile)
			if loadErr != nil {
				return fmt.Errorf("sftp: failed to load known_hosts: %w", loadErr)
			}
			err := cb(hostname, remote, key)
			if err == nil {
				return nil
			}
			var keyErr *knownhosts.KeyError
			if errors.As(err, &keyErr) {
				if len(keyErr.Want) > 0 {
					fp := ssh.FingerprintSHA256(key)
					return fmt.Errorf(
						"sftp: WARNING: host key changed for %s (got %s)\n"+
							"If this is expected, remove the old entry from %s",
						hostname, fp, knownHostsFile,
					)
				}
				// unknown host, fall through to TOFU accept
			} else {
				return err
			}
		}

		return appendKnownHost(knownHostsFile, hostname, key)
	}
}

// appendKnownHost writes a new host key entry to the known_hosts file.
// Uses knownhosts.Normalize for correct port handling.
func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	knownHostsMu.Lock()
	defer knownHostsMu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("sftp: failed to write known_hosts: %w", err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}
