package lockservice

import "context"

// EventSink observes lockbox grant, revoke, and release outcomes. It is
// invoked after the journal write that makes the outcome durable, and is
// best-effort: a sink should not return to the caller until it has queued
// or dropped the notification, never block the critical section on a
// downstream broker.
type EventSink interface {
	OnGranted(ctx context.Context, lease Lease, taskID string)
	OnRevoked(ctx context.Context, lease Lease)
	OnReleased(ctx context.Context, lease Lease, taskID string)
}

// SetEventSink attaches sink so future grant/revoke/release outcomes are
// reported to it. Passing nil disables notification.
func (lb *Lockbox) SetEventSink(sink EventSink) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.events = sink
}
