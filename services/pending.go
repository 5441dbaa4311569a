package services

import (
	"context"
	"log"
)

// Pending write kinds.
const (
	PendingProgress = "progress"
	PendingAttempt  = "attempt"
)

// PendingWrite is a mutation that could not reach the backend.
type PendingWrite struct {
	Kind      string
	UserID    string
	EntityID  string
	Completed bool
	Score     int
}

// PendingWriteQueue receives offline writes. The current implementation
// discards them; the interface exists so a durable queue can be dropped in
// without changing the services.
type PendingWriteQueue interface {
	Enqueue(ctx context.Context, w PendingWrite) error
}

// DiscardQueue drops offline writes, matching the client's historical
// behavior: an offline progress update is a silent no-op and an offline
// attempt is acknowledged without being saved.
type DiscardQueue struct{}

func (DiscardQueue) Enqueue(ctx context.Context, w PendingWrite) error {
	log.Printf("sync: offline, discarding %s write for user %s (entity %s)", w.Kind, w.UserID, w.EntityID)
	return nil
}
