// Package netcheck answers "is the backend reachable right now". The answer
// is evaluated fresh on every call and is deliberately conservative: an
// unknown state counts as offline, so the sync layer never starts a remote
// call it is unsure can complete.
package netcheck

import (
	"context"
	"net"
	"time"
)

// Checker reports current reachability of the remote backend.
type Checker interface {
	IsConnected(ctx context.Context) bool
}

// Dialer probes a TCP address with a short timeout. The result is never
// cached across calls.
type Dialer struct {
	Addr    string
	Timeout time.Duration
}

func NewDialer(addr string) *Dialer {
	return &Dialer{Addr: addr, Timeout: 2 * time.Second}
}

func (d *Dialer) IsConnected(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static always reports a fixed state. Used in tests.
type Static bool

func (s Static) IsConnected(ctx context.Context) bool {
	return bool(s)
}
