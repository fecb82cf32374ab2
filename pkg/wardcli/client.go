package wardcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/cookieward/cookieward/common"
)

type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient dials the daemon and returns a connected client.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{},
	}, nil
}

// AddHandler registers a handler for a push update type, replacing any
// previous handler for that type.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	if c.d.Handlers == nil {
		c.d.Handlers = make(map[common.UpdateType]Handler)
	}
	c.d.Handlers[utype] = h
}

// Listen reads push updates until the connection drops or a handler
// returns ErrDisconnect. Attach must have been called first so the
// daemon knows to broadcast to this connection.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			return fmt.Errorf("error reading: %w", err)
		}
		err = c.d.process(buf)
		c.mu.RUnlock()
		if err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %w", err)
		}
	}
}

// Close closes the daemon connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// Block the update listener while invoking so the reply is read
	// here instead.
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if err = write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	var res Response
	if err = json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", method, err)
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	return res.Update.Message, nil
}
