package server

import (
	"net"
	"sync"

	"github.com/cookieward/cookieward/common"
)

// Pool holds the connections of clients that attached for push updates.
// Broadcasts evict connections that fail to receive.
type Pool struct {
	mu    *sync.RWMutex
	conns []net.Conn
}

func NewPool() *Pool {
	return &Pool{
		mu: &sync.RWMutex{},
	}
}

// Attach registers a connection for push updates. Attaching twice is a
// no-op.
func (p *Pool) Attach(conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		if c == conn {
			return
		}
	}
	p.conns = append(p.conns, conn)
}

// Detach removes a connection from the pool without closing it. Used
// when the serving loop ends and owns the close itself.
func (p *Pool) Detach(conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range p.conns {
		if c == conn {
			p.conns[i] = p.conns[len(p.conns)-1]
			p.conns = p.conns[:len(p.conns)-1]
			return
		}
	}
}

// Count returns the number of attached connections.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// Broadcast frames and writes data to every attached connection. Failed
// connections are closed and evicted so one dead client cannot wedge
// the pool.
func (p *Pool) Broadcast(data []byte) {
	head := intToBytes(uint32(len(data)))
	p.mu.RLock()
	conns := make([]net.Conn, len(p.conns))
	copy(conns, p.conns)
	p.mu.RUnlock()

	var failed []net.Conn
	for _, conn := range conns {
		if _, err := conn.Write(head); err != nil {
			failed = append(failed, conn)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		_ = conn.Close()
		p.Detach(conn)
	}
}

// BroadcastUpdate marshals a push update and broadcasts it.
func (p *Pool) BroadcastUpdate(utype common.UpdateType, msg any) {
	p.Broadcast(MakeResult(utype, msg))
}
