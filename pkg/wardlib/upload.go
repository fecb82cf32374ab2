package wardlib

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// StripURLCredentials removes userinfo (username:password) from a URL
// string. Destination URLs are persisted and logged only in this cleaned
// form; credentials live exactly as long as the upload.
func StripURLCredentials(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

// uploadTarget is a parsed export destination.
type uploadTarget struct {
	scheme   string
	host     string // host:port
	path     string
	user     string // from URL userinfo, never persisted
	password string // from URL userinfo, never persisted
}

func parseUploadURL(rawURL string) (*uploadTarget, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse destination: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	var defaultPort string
	switch scheme {
	case "ftp", "ftps":
		defaultPort = "21"
	case "sftp":
		defaultPort = "22"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	if parsed.Path == "" || parsed.Path == "/" || path.Base(parsed.Path) == "." {
		return nil, fmt.Errorf("destination %s has no file path", StripURLCredentials(rawURL))
	}

	t := &uploadTarget{
		scheme:   scheme,
		host:     parsed.Host,
		path:     parsed.Path,
		user:     "anonymous",
		password: "anonymous",
	}
	if !strings.Contains(t.host, ":") {
		t.host += ":" + defaultPort
	}
	if parsed.User != nil {
		t.user = parsed.User.Username()
		if pw, ok := parsed.User.Password(); ok {
			t.password = pw
		}
	}
	return t, nil
}

// UploadExport uploads export document bytes to an ftp://, ftps:// or
// sftp:// destination URL. Credentials are taken from the URL userinfo and
// default to anonymous for FTP.
func UploadExport(ctx context.Context, rawURL string, data []byte) error {
	t, err := parseUploadURL(rawURL)
	if err != nil {
		return err
	}
	switch t.scheme {
	case "ftp", "ftps":
		return t.uploadFTP(ctx, data)
	default:
		return t.uploadSFTP(data)
	}
}

func (t *uploadTarget) uploadFTP(ctx context.Context, data []byte) error {
	dialOpts := []ftp.DialOption{
		ftp.DialWithTimeout(30 * time.Second),
		ftp.DialWithContext(ctx),
	}
	if t.scheme == "ftps" {
		hostname := t.host
		if h, _, err := net.SplitHostPort(t.host); err == nil {
			hostname = h
		}
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: hostname,
			MinVersion: tls.VersionTLS12,
		}))
	}
	conn, err := ftp.Dial(t.host, dialOpts...)
	if err != nil {
		return fmt.Errorf("ftp dial %s: %w", t.host, err)
	}
	defer conn.Quit()
	if err := conn.Login(t.user, t.password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}
	if err := conn.Stor(t.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("ftp store %s: %w", t.path, err)
	}
	return nil
}

func (t *uploadTarget) uploadSFTP(data []byte) error {
	cfg := &ssh.ClientConfig{
		User:            t.user,
		Auth:            []ssh.AuthMethod{ssh.Password(t.password)},
		HostKeyCallback: newTOFUHostKeyCallback(KnownHostsPath),
		Timeout:         30 * time.Second,
	}
	sshConn, err := ssh.Dial("tcp", t.host, cfg)
	if err != nil {
		return fmt.Errorf("sftp dial %s: %w", t.host, err)
	}
	defer sshConn.Close()

	client, err := sftp.NewClient(sshConn)
	if err != nil {
		return fmt.Errorf("sftp session: %w", err)
	}
	defer client.Close()

	f, err := client.Create(t.path)
	if err != nil {
		return fmt.Errorf("sftp create %s: %w", t.path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("sftp write: %w", err)
	}
	return nil
}
