//go:build !windows

package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cookieward/cookieward/common"
)

// startTestServer starts a Server on a unix socket inside a temp dir
// and returns a dialed client connection.
func startTestServer(t *testing.T, register func(*Server)) net.Conn {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "cookieward-test.sock")
	t.Setenv(common.SocketPathEnv, sock)

	s := NewServer(log.New(io.Discard, "", 0), nil, 0)
	if register != nil {
		register(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = s.Start(ctx) }()

	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("unix", sock)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn net.Conn, method common.UpdateType, msg any) *Response {
	t.Helper()
	var wmu, rmu sync.Mutex

	body, _ := json.Marshal(msg)
	req, _ := json.Marshal(Request{Method: method, Message: body})
	if err := write(&wmu, conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}
	buf, err := read(&rmu, conn)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(buf, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return &resp
}

func TestServerDispatchesHandler(t *testing.T) {
	conn := startTestServer(t, func(s *Server) {
		s.RegisterHandler(common.UPDATE_VERSION, func(_ *SyncConn, _ *Pool, _ json.RawMessage) (common.UpdateType, any, error) {
			return common.UPDATE_VERSION, &common.VersionResponse{Version: "test"}, nil
		})
	})

	resp := roundTrip(t, conn, common.UPDATE_VERSION, nil)
	if !resp.Ok {
		t.Fatalf("response not ok: %s", resp.Error)
	}
	if resp.Update == nil || resp.Update.Type != common.UPDATE_VERSION {
		t.Fatalf("update = %+v", resp.Update)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	conn := startTestServer(t, nil)

	resp := roundTrip(t, conn, common.UpdateType("no_such_method"), nil)
	if resp.Ok {
		t.Fatal("expected error response for unknown method")
	}
	if resp.Error == "" {
		t.Fatal("error message missing")
	}
}

func TestServerHandlerError(t *testing.T) {
	conn := startTestServer(t, func(s *Server) {
		s.RegisterHandler(common.UPDATE_SCAN, func(_ *SyncConn, _ *Pool, _ json.RawMessage) (common.UpdateType, any, error) {
			return "", nil, io.ErrUnexpectedEOF
		})
	})

	resp := roundTrip(t, conn, common.UPDATE_SCAN, &common.ScanParams{Website: "example.com"})
	if resp.Ok {
		t.Fatal("expected error response")
	}
	if resp.Error != io.ErrUnexpectedEOF.Error() {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestServerAttachReceivesBroadcast(t *testing.T) {
	var srvRef *Server
	conn := startTestServer(t, func(s *Server) {
		srvRef = s
		s.RegisterHandler(common.UPDATE_ATTACH, func(sconn *SyncConn, pool *Pool, _ json.RawMessage) (common.UpdateType, any, error) {
			pool.Attach(sconn.Conn)
			return common.UPDATE_ATTACH, nil, nil
		})
	})

	resp := roundTrip(t, conn, common.UPDATE_ATTACH, nil)
	if !resp.Ok {
		t.Fatalf("attach failed: %s", resp.Error)
	}

	srvRef.Pool().BroadcastUpdate(common.UPDATE_STATS_CHANGED, &common.StatsChangedUpdate{Website: "example.com"})

	var rmu sync.Mutex
	buf, err := read(&rmu, conn)
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var push Response
	if err := json.Unmarshal(buf, &push); err != nil {
		t.Fatalf("unmarshal broadcast: %v", err)
	}
	if push.Update == nil || push.Update.Type != common.UPDATE_STATS_CHANGED {
		t.Fatalf("push = %+v", push.Update)
	}
}
