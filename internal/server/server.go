package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/cookieward/cookieward/common"
)

// Server manages framed JSON connections from CLI clients over a unix
// socket (or named pipe). It dispatches incoming requests to registered
// handlers and keeps the pool of attached clients for push updates.
type Server struct {
	log      *log.Logger
	pool     *Pool
	ws       *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server. The web server is optional; when non-nil
// it is started and stopped together with the socket listener.
func NewServer(l *log.Logger, ws *WebServer, port int) *Server {
	return &Server{
		log:     l,
		pool:    NewPool(),
		ws:      ws,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
	}
}

// Pool returns the attached-connection pool so the scan loop can push
// updates to listening clients.
func (s *Server) Pool() *Pool {
	return s.pool
}

// RegisterHandler associates a handler with an update type method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Start begins listening for incoming connections and blocks until the
// context is canceled. Each connection is handled in its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.ws != nil {
		go func() {
			if err := s.ws.Start(); err != nil {
				s.log.Println("Web server error:", err.Error())
			}
		}()
	}

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil // clean shutdown
			default:
			}
			s.log.Println("Error accepting:", err.Error())
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops the listener, the web server, and removes the socket
// file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Printf("Error closing listener: %v", err)
		}
		s.listener = nil
	}

	if s.ws != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.ws.Shutdown(shutdownCtx); err != nil {
			s.log.Printf("Error shutting down web server: %v", err)
		}
	}

	if err := cleanupSocket(); err != nil {
		s.log.Printf("Error removing socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Detach(conn)
		_ = conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			s.log.Println("Error reading:", err.Error())
			break
		}
		err = s.handlerWrapper(sconn, buf)
		if err != nil {
			s.log.Println("Error handling:", err.Error())
			break
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %s", err.Error())
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		err = sconn.Write(CreateError("unknown method: " + string(req.Method)))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		err = sconn.Write(InitError(err))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	err = sconn.Write(MakeResult(utype, msg))
	if err != nil {
		return fmt.Errorf("error writing response: %s", err.Error())
	}
	return nil
}
