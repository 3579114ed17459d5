// Package resilient wraps a lockservice.Journal with a circuit breaker so a
// wedged durable store fails fast instead of hanging every grant behind it.
package resilient

import (
	"context"
	"time"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/resilience"
)

// Journal wraps another lockservice.Journal, tripping a circuit breaker
// after repeated write failures so Lockbox callers fail fast rather than
// queue up behind a stuck backend.
type Journal struct {
	inner   lockservice.Journal
	breaker *resilience.CircuitBreaker
}

// New wraps inner with a circuit breaker that opens after maxFailures
// consecutive write failures and probes again after timeout.
func New(inner lockservice.Journal, maxFailures int, timeout time.Duration) *Journal {
	return &Journal{inner: inner, breaker: resilience.NewCircuitBreaker(maxFailures, timeout)}
}

func (j *Journal) Append(ctx context.Context, record lockservice.TaskLockRecord) error {
	return j.breaker.Execute(func() error { return j.inner.Append(ctx, record) })
}

func (j *Journal) AddTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	return j.breaker.Execute(func() error { return j.inner.AddTask(ctx, lease, taskID) })
}

func (j *Journal) RemoveTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	return j.breaker.Execute(func() error { return j.inner.RemoveTask(ctx, lease, taskID) })
}

func (j *Journal) MarkRevoked(ctx context.Context, lease lockservice.Lease) error {
	return j.breaker.Execute(func() error { return j.inner.MarkRevoked(ctx, lease) })
}

func (j *Journal) Replace(ctx context.Context, lease lockservice.Lease) error {
	return j.breaker.Execute(func() error { return j.inner.Replace(ctx, lease) })
}

// LoadAll bypasses the breaker: it runs once at startup before any grant
// traffic exists, so there is nothing to protect it from cascading into.
func (j *Journal) LoadAll(ctx context.Context) ([]lockservice.TaskLockRecord, error) {
	return j.inner.LoadAll(ctx)
}

// State reports the breaker's current state for health/metrics surfaces.
func (j *Journal) State() resilience.State {
	return j.breaker.GetState()
}
