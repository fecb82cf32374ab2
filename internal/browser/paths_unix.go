//go:build unix

package browser

import (
	"os"
	"path/filepath"
	"runtime"
)

// getBrowserCookiePathsForHome returns browser specs rooted at homeDir.
// This is the testable variant; getBrowserCookiePaths calls it with the
// real home.
func getBrowserCookiePathsForHome(homeDir string) []browserSpec {
	isDarwin := runtime.GOOS == "darwin"

	var specs []browserSpec

	// Firefox
	var ffIniPaths []string
	if isDarwin {
		ffIniPaths = []string{
			filepath.Join(homeDir, "Library", "Application Support", "Firefox", "profiles.ini"),
		}
	} else {
		ffIniPaths = []string{
			filepath.Join(homeDir, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(homeDir, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}
	}
	specs = append(specs, browserSpec{Name: "Firefox", ProfilesIniPaths: ffIniPaths})

	// LibreWolf
	var lwIniPaths []string
	if isDarwin {
		lwIniPaths = []string{
			filepath.Join(homeDir, "Library", "Application Support", "librewolf", "profiles.ini"),
		}
	} else {
		lwIniPaths = []string{
			filepath.Join(homeDir, ".librewolf", "profiles.ini"),
		}
	}
	specs = append(specs, browserSpec{Name: "LibreWolf", ProfilesIniPaths: lwIniPaths})

	chromiumFamily := []struct {
		name   string
		darwin []string
		linux  []string
	}{
		{"Chrome", []string{"Google", "Chrome"}, []string{"google-chrome"}},
		{"Chromium", []string{"Chromium"}, []string{"chromium"}},
		{"Edge", []string{"Microsoft Edge"}, []string{"microsoft-edge"}},
		{"Brave", []string{"BraveSoftware", "Brave-Browser"}, []string{"BraveSoftware", "Brave-Browser"}},
	}
	for _, b := range chromiumFamily {
		var base string
		if isDarwin {
			parts := append([]string{homeDir, "Library", "Application Support"}, b.darwin...)
			base = filepath.Join(append(parts, "Default")...)
		} else {
			parts := append([]string{homeDir, ".config"}, b.linux...)
			base = filepath.Join(append(parts, "Default")...)
		}
		specs = append(specs, browserSpec{
			Name: b.name,
			CookiePaths: []string{
				filepath.Join(base, "Network", "Cookies"),
				filepath.Join(base, "Cookies"),
			},
		})
	}

	return specs
}

// getBrowserCookiePaths returns browser specs rooted at the real user
// home directory.
func getBrowserCookiePaths() []browserSpec {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return getBrowserCookiePathsForHome(homeDir)
}
