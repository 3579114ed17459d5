package lockservice

import "context"

// Journal is the durable append/read/delete log of granted leases. The
// Lockbox treats it as the source of truth on startup (Sync) and as a
// write-through log on every mutation, mirroring how TaskLockbox persists
// TaskLock rows via the Druid metadata storage connector. Concrete adapters
// live in the sibling journal package (in-memory, postgres, redis).
type Journal interface {
	// Append durably records a newly granted lease alongside the task that
	// requested it.
	Append(ctx context.Context, record TaskLockRecord) error

	// AddTask records that an additional task has joined an existing
	// posse's lease, identified by dataSource+interval+version+groupID.
	AddTask(ctx context.Context, lease Lease, taskID string) error

	// RemoveTask removes a task from a posse; if it was the last task, the
	// journal drops the lease entirely.
	RemoveTask(ctx context.Context, lease Lease, taskID string) error

	// MarkRevoked flags a lease as revoked without deleting it, so racing
	// holders observe the revocation on their next check.
	MarkRevoked(ctx context.Context, lease Lease) error

	// Replace atomically overwrites the stored lease fields (used by
	// Upgrade/Downgrade to persist the upgraded flag) without touching the
	// posse's holder set, identified the same way Append keys a record:
	// dataSource+groupID+interval+version.
	Replace(ctx context.Context, lease Lease) error

	// LoadAll returns every record currently persisted, used to rebuild
	// the in-memory lockbox state on startup or failover.
	LoadAll(ctx context.Context) ([]TaskLockRecord, error)
}
