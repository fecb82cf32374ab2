package cmd

import (
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

func TestBuildVersionString(t *testing.T) {
	s := buildVersionString("cookieward", "1.2.3-release", "2026-01-01", "abc123")
	if !strings.HasPrefix(s, "cookieward 1.2.3-release (") {
		t.Errorf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, "Build: 2026-01-01=abc123") {
		t.Errorf("missing build info: %q", s)
	}
}

func TestBeaut(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"ab", 4, " ab "},
		{"ab", 5, " ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abcdef"},
	}
	for _, tt := range tests {
		if got := beaut(tt.in, tt.n); got != tt.want {
			t.Errorf("beaut(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 20); got != "short" {
		t.Errorf("clip should keep short strings, got %q", got)
	}
	got := clip("averyveryverylongcookiename", 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("clip(_, 10) = %q", got)
	}
}

func TestJoinCategories(t *testing.T) {
	if got := joinCategories(nil); got != "-" {
		t.Errorf("empty categories should render as -, got %q", got)
	}
	got := joinCategories([]wardlib.Category{wardlib.CategorySession, wardlib.CategoryEmail})
	if got != "session_data,email" {
		t.Errorf("unexpected join: %q", got)
	}
}

func TestIsUploadURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ftp://host/report.json", true},
		{"ftps://host/report.json", true},
		{"sftp://user@host/report.json", true},
		{"/tmp/report.json", false},
		{"report.json", false},
		{"http://host/report.json", false},
	}
	for _, tt := range tests {
		if got := isUploadURL(tt.in); got != tt.want {
			t.Errorf("isUploadURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	return cli.NewContext(app, set, nil)
}

func TestCookieArgs(t *testing.T) {
	ctx := newTestContext(t, "_ga", "tracker.example.net")
	c, err := cookieArgs(ctx)
	if err != nil {
		t.Fatalf("cookieArgs: %v", err)
	}
	if c.Name != "_ga" || c.Domain != "tracker.example.net" {
		t.Errorf("unexpected cookie: %+v", c)
	}
}

func TestCookieArgsMissing(t *testing.T) {
	for _, args := range [][]string{{}, {"_ga"}} {
		ctx := newTestContext(t, args...)
		if _, err := cookieArgs(ctx); err != errMissingCookieArgs {
			t.Errorf("args %v: expected errMissingCookieArgs, got %v", args, err)
		}
	}
}

func TestExecuteVersion(t *testing.T) {
	err := Execute([]string{"cookieward", "version"}, BuildArgs{
		Version:   "1.2.3",
		BuildType: "test",
		Date:      "2026-01-01",
		Commit:    "abc123",
	})
	if err != nil {
		t.Fatalf("Execute version: %v", err)
	}
	if !strings.Contains(versionCmdStr, "cookieward 1.2.3-test") {
		t.Errorf("version string not initialized: %q", versionCmdStr)
	}
}

func TestExecuteCommandHelp(t *testing.T) {
	if err := Execute([]string{"cookieward", "help", "scan"}, BuildArgs{Version: "0.0.0"}); err != nil {
		t.Fatalf("Execute help scan: %v", err)
	}
}
