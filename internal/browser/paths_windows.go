//go:build windows

package browser

import (
	"os"
	"path/filepath"
)

// getBrowserCookiePathsForEnv returns browser specs using the given
// environment variable values. This is the testable variant;
// getBrowserCookiePaths calls it with real values from os.Getenv.
func getBrowserCookiePathsForEnv(localAppData, appData string) []browserSpec {
	var specs []browserSpec

	// Firefox and LibreWolf live under APPDATA (Roaming)
	specs = append(specs, browserSpec{
		Name: "Firefox",
		ProfilesIniPaths: []string{
			filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini"),
		},
	})
	specs = append(specs, browserSpec{
		Name: "LibreWolf",
		ProfilesIniPaths: []string{
			filepath.Join(appData, "LibreWolf", "profiles.ini"),
		},
	})

	chromiumFamily := []struct {
		name string
		dirs []string
	}{
		{"Chrome", []string{"Google", "Chrome"}},
		{"Chromium", []string{"Chromium"}},
		{"Edge", []string{"Microsoft", "Edge"}},
		{"Brave", []string{"BraveSoftware", "Brave-Browser"}},
	}
	for _, b := range chromiumFamily {
		parts := append([]string{localAppData}, b.dirs...)
		base := filepath.Join(append(parts, "User Data", "Default")...)
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

// getBrowserCookiePaths returns browser specs using real Windows
// environment variables.
func getBrowserCookiePaths() []browserSpec {
	return getBrowserCookiePathsForEnv(
		os.Getenv("LOCALAPPDATA"),
		os.Getenv("APPDATA"),
	)
}
