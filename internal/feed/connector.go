// Package feed maintains the live market-data pipeline: one persistent
// WebSocket connection per exchange, normalized into PriceTicks and written
// to the shared price cache under a supervisor that restarts failed
// connections forever.
package feed

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

const (
	// ReconnectDelay is the fixed sleep between connection attempts. A
	// market-data feed is best effort, so the policy is a flat delay and
	// unlimited retries rather than exponential backoff.
	ReconnectDelay = 5 * time.Second

	pingInterval = 20 * time.Second
	readTimeout  = 60 * time.Second
	maxFrameSize = 1 << 20
)

// Connector is one exchange's feed. RunSession owns a single connection:
// dial, subscribe, and pump messages into the cache until the connection
// fails or ctx is cancelled. Reconnecting is the supervisor's job.
type Connector interface {
	Exchange() market.Exchange
	DefaultSymbols() []string
	RunSession(ctx context.Context, symbols []string) error
}

// sessionConfig wires an exchange-specific dialect into the shared
// connection loop.
type sessionConfig struct {
	url string
	// onConnect sends the exchange's subscribe message, if any.
	onConnect func(conn *websocket.Conn) error
	// handle parses one inbound frame. Parse failures are contained by the
	// handler itself; only transport errors end the session.
	handle func(payload []byte)
}

// runSession drives one connection to completion. It returns the transport
// error that ended the session, or ctx.Err() on cancellation.
func runSession(ctx context.Context, cfg sessionConfig) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, cfg.url, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", cfg.url)
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	if cfg.onConnect != nil {
		if err := cfg.onConnect(conn); err != nil {
			return errors.Wrap(err, "subscribe")
		}
	}

	// unblock the read loop when the supervisor cancels
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-sessionCtx.Done()
		_ = conn.Close()
	}()

	pinger := time.NewTicker(pingInterval)
	defer pinger.Stop()
	go func() {
		for {
			select {
			case <-sessionCtx.Done():
				return
			case <-pinger.C:
				deadline := time.Now().Add(pingInterval)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "read")
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		cfg.handle(payload)
	}
}
