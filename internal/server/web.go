package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/cookieward/cookieward/common"
)

// WebServer exposes the JSON-RPC bridge over HTTP and the push channel
// over WebSocket for the browser extension.
type WebServer struct {
	port     int
	l        *log.Logger
	rpc      *RPCServer
	notifier *RPCNotifier
	server   *http.Server
	mu       sync.Mutex
}

// NewWebServer creates the HTTP front end. rpc carries the method table
// and the auth secret. If the secret is empty, both endpoints reject
// every request.
func NewWebServer(l *log.Logger, port int, rpc *RPCServer) *WebServer {
	return &WebServer{
		port:     port,
		l:        l,
		rpc:      rpc,
		notifier: NewRPCNotifier(l),
	}
}

// Notifier returns the push notifier tied to this server's WebSocket
// clients.
func (s *WebServer) Notifier() *RPCNotifier {
	return s.notifier
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.HandleFunc("/jsonrpc/ws", s.handleWS)
	return mux
}

// handleWS upgrades the connection and runs a dedicated jrpc2 server
// over it so the daemon can push notifications to the extension.
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	if !validToken(s.rpc.secret, r.Header.Get("Authorization")) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		s.l.Printf("WebSocket accept failed: %v", err)
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)

	s.notifier.Register(srv)
	defer s.notifier.Unregister(srv)

	// Block until the client disconnects or the request context ends.
	_ = srv.Wait()
}

func (s *WebServer) addr() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
