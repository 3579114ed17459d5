package lockservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Lockbox grants, revokes, upgrades and downgrades leases over data source
// intervals under a single critical section, the way TaskLockbox arbitrates
// TaskLock acquisition in Druid's overlord. All mutating operations hold one
// mutex; blocking waiters are woken via a broadcast channel that is closed
// and replaced on every state change, so a wait can be interrupted by
// context cancellation as well as by a state change (a plain sync.Cond
// cannot honor a context deadline).
type Lockbox struct {
	cfg      Config
	clock    Clock
	versions *versionClock
	journal  Journal
	catalog  TaskCatalog
	events   EventSink
	log      logger.Logger
	metrics  *metrics

	mu      sync.Mutex
	posses  map[string][]*lockPosse // keyed by dataSource
	active  map[string]TaskInfo     // keyed by taskID
	waiters chan struct{}
}

func NewLockbox(cfg Config, journal Journal, catalog TaskCatalog, clock Clock, log logger.Logger) (*Lockbox, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, lockserviceError(ErrLockNotFound, "journal must not be nil")
	}
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = logger.NewNoop()
	}
	return &Lockbox{
		cfg:      cfg,
		clock:    clock,
		versions: newVersionClock(clock, cfg.VersionClockSkewGuard),
		journal:  journal,
		catalog:  catalog,
		log:      log,
		metrics:  newMetrics(),
		posses:   make(map[string][]*lockPosse),
		active:   make(map[string]TaskInfo),
		waiters:  make(chan struct{}),
	}, nil
}

// Add registers taskID as active, the precondition §4.1 imposes on every
// grant attempt: createOrFindLockPosseLocked refuses any task it hasn't
// seen here. Re-adding a task already marked active is a no-op.
func (lb *Lockbox) Add(ctx context.Context, task TaskInfo) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	task.Active = true
	lb.active[task.TaskID] = task
	return nil
}

// Remove retires taskID: it releases every lease the task holds, then
// clears its active flag so any lease request made under its name from
// this point on is refused with ErrInactiveTask.
func (lb *Lockbox) Remove(ctx context.Context, taskID string) error {
	lb.mu.Lock()
	var held []*lockPosse
	for _, posses := range lb.posses {
		for _, p := range posses {
			if p.hasTask(taskID) {
				held = append(held, p)
			}
		}
	}
	delete(lb.active, taskID)
	lb.mu.Unlock()

	for _, p := range held {
		if err := lb.Unlock(ctx, taskID, p.lease); err != nil {
			lb.log.Warn("failed to release lease while removing task", "taskId", taskID, "dataSource", p.lease.DataSource, "interval", p.lease.Interval.String(), "error", err)
		}
	}
	return nil
}

// Sync rebuilds in-memory posse state from the journal, called on startup
// or after a failover to a new lockbox instance. Every task named by a
// replayed record is marked active, reenriched from the catalog when one
// is wired, since the journal alone does not preserve a task's own
// lifecycle state.
func (lb *Lockbox) Sync(ctx context.Context) error {
	records, err := lb.journal.LoadAll(ctx)
	if err != nil {
		return err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.posses = make(map[string][]*lockPosse)
	for _, rec := range records {
		posse := &lockPosse{lease: rec.Lease, grantedAt: rec.GrantedAt, taskIDs: make(map[string]struct{})}
		for _, id := range rec.TaskIDs {
			posse.taskIDs[id] = struct{}{}
			if _, ok := lb.active[id]; !ok {
				info := TaskInfo{TaskID: id, GroupID: rec.Lease.GroupID, Priority: rec.Lease.Priority, Active: true}
				if lb.catalog != nil {
					if enriched, err := lb.catalog.Get(ctx, id); err == nil {
						info = enriched
						info.Active = true
					}
				}
				lb.active[id] = info
			}
		}
		ds := rec.Lease.DataSource
		lb.posses[ds] = append(lb.posses[ds], posse)
	}
	lb.log.Info("lockbox synced from journal", "records", len(records))
	return nil
}

// TryLock attempts to grant lease to taskID without blocking. If a
// conflicting, equal-or-higher priority lease already holds the interval,
// it returns ok=false and no error: the caller decides whether to wait, via
// Lock, or give up.
func (lb *Lockbox) TryLock(ctx context.Context, taskID string, lease Lease) (Lease, bool, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.createOrFindLockPosseLocked(ctx, taskID, lease)
}

// Lock grants lease to taskID, blocking up to cfg.GrantWaitTimeout for a
// conflicting lower-priority lease to be revoked or a conflicting lease to
// be released, or until ctx is cancelled. Only ErrContention is retried;
// every other tagged failure (ErrInactiveTask, ErrEmptyInterval, ErrRevoked,
// ...) is terminal and returned immediately, since waiting cannot change
// those outcomes.
func (lb *Lockbox) Lock(ctx context.Context, taskID string, lease Lease) (Lease, error) {
	deadline := lb.clock.Now().Add(lb.cfg.GrantWaitTimeout)
	for {
		lb.mu.Lock()
		granted, ok, err := lb.createOrFindLockPosseLocked(ctx, taskID, lease)
		wait := lb.waiters
		lb.mu.Unlock()
		if err != nil && !errors.Is(err, ErrContention) {
			return Lease{}, err
		}
		if ok {
			return granted, nil
		}
		remaining := deadline.Sub(lb.clock.Now())
		if remaining <= 0 {
			return Lease{}, lockserviceErrorf(ErrContention, "timed out waiting for %s/%s", lease.DataSource, lease.Interval)
		}
		timer := time.NewTimer(remaining)
		select {
		case <-wait:
			timer.Stop()
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Lease{}, ctx.Err()
		}
	}
}

// createOrFindLockPosseLocked implements the core grant algorithm from
// Druid's TaskLockbox.createOrFindLockPosse: reject inactive tasks and
// zero-duration intervals outright, report a preempted holder's retry as
// Revoked rather than silently minting a fresh lease, find a coexisting
// posse to join, else check for conflicts and revoke lower-priority
// holders, else deny with Contention.
func (lb *Lockbox) createOrFindLockPosseLocked(ctx context.Context, taskID string, lease Lease) (Lease, bool, error) {
	if _, ok := lb.active[taskID]; !ok {
		return Lease{}, false, lockserviceErrorf(ErrInactiveTask, "task %s is not active", taskID)
	}
	if lease.Interval.Empty() {
		return Lease{}, false, lockserviceErrorf(ErrEmptyInterval, "interval %s has zero or negative duration", lease.Interval)
	}

	if lb.catalog != nil {
		if info, err := lb.catalog.Get(ctx, taskID); err == nil {
			// Priority is task metadata, not something a caller can
			// inflate through the lock request itself.
			lease.Priority = info.Priority
			if lease.GroupID == "" {
				lease.GroupID = info.GroupID
			}
		}
	}

	ds := lease.DataSource
	existing := lb.posses[ds]

	// A posse this task already belonged to, over the same group and
	// interval, that has since been revoked: report it plainly rather than
	// letting the task slide into step 1 or 2 below and walk away with a
	// brand new lease as if nothing happened.
	for _, p := range existing {
		if p.lease.Revoked && p.lease.Interval.Equal(lease.Interval) && p.lease.GroupID == lease.GroupID && p.hasTask(taskID) {
			return Lease{}, false, lockserviceErrorf(ErrRevoked, "lease for task %s over %s/%s was revoked", taskID, ds, lease.Interval)
		}
	}

	// A task already holding a posse over the same group+interval whose
	// lease kind differs from what it's now asking for is a consistency
	// fault: a type change must go through Upgrade/Downgrade, not a silent
	// re-grant through the normal lock path.
	for _, p := range existing {
		if !p.lease.Revoked && p.lease.GroupID == lease.GroupID && p.lease.Interval.Equal(lease.Interval) && p.hasTask(taskID) && p.lease.Type != lease.Type {
			return Lease{}, false, lockserviceErrorf(ErrConsistencyFault, "task %s already holds a %s lease over %s/%s, requested %s", taskID, p.lease.Type, ds, lease.Interval, lease.Type)
		}
	}

	// Step 1: a coexisting posse (same group, an interval containing this
	// one, same SHARED type) just gains a new task. More than one such
	// posse existing at once is a consistency fault: the join condition is
	// supposed to identify at most one candidate.
	var joinable []*lockPosse
	for _, p := range existing {
		if p.canCoexistWith(lease) {
			joinable = append(joinable, p)
		}
	}
	if len(joinable) > 1 {
		return Lease{}, false, lockserviceErrorf(ErrConsistencyFault, "%d coexisting posses found for %s/%s group %s", len(joinable), ds, lease.Interval, lease.GroupID)
	}
	if len(joinable) == 1 {
		p := joinable[0]
		p.addTask(taskID)
		if err := lb.journal.AddTask(ctx, p.lease, taskID); err != nil {
			p.removeTask(taskID)
			return Lease{}, false, lockserviceErrorf(ErrJournalFailure, "add task %s to posse: %v", taskID, err)
		}
		lb.metrics.recordGrant(ds, string(lease.Type), "joined")
		if lb.events != nil {
			lb.events.OnGranted(ctx, p.lease, taskID)
		}
		return p.lease, true, nil
	}

	// Step 2: find every posse that overlaps and would conflict.
	var conflicting []*lockPosse
	for _, p := range existing {
		if p.lease.Revoked {
			continue
		}
		if p.lease.Conflicts(lease) {
			conflicting = append(conflicting, p)
		}
	}

	if len(conflicting) > 0 {
		if !allLowerPriority(conflicting, lease.Priority) {
			lb.metrics.recordGrant(ds, string(lease.Type), "denied")
			return Lease{}, false, lockserviceErrorf(ErrContention, "interval %s of %s is held by an equal-or-higher priority lease", lease.Interval, ds)
		}
		// All conflicts are strictly lower priority: revoke them and
		// proceed to grant the new lease.
		for _, p := range conflicting {
			p.lease.Revoked = true
			if err := lb.journal.MarkRevoked(ctx, p.lease); err != nil {
				p.lease.Revoked = false
				return Lease{}, false, lockserviceErrorf(ErrJournalFailure, "mark revoked: %v", err)
			}
			lb.log.Warn("revoking lower priority lease", "dataSource", ds, "interval", p.lease.Interval.String(), "groupId", p.lease.GroupID)
			if lb.events != nil {
				lb.events.OnRevoked(ctx, p.lease)
			}
		}
	}

	// Step 3: mint a version if the caller didn't already pin one, then
	// grant a brand new posse.
	if lease.Version == "" {
		lease.Version = lb.versions.mint(ds + "/" + lease.Interval.String())
	}
	lease.Revoked = false
	posse := newLockPosse(lease, taskID, lb.clock.Now())
	lb.posses[ds] = append(lb.posses[ds], posse)
	if err := lb.journal.Append(ctx, posse.record()); err != nil {
		lb.posses[ds] = lb.posses[ds][:len(lb.posses[ds])-1]
		return Lease{}, false, lockserviceErrorf(ErrJournalFailure, "append new posse: %v", err)
	}
	lb.metrics.recordGrant(ds, string(lease.Type), "granted")
	lb.broadcastLocked()
	if lb.events != nil {
		lb.events.OnGranted(ctx, lease, taskID)
	}
	return lease, true, nil
}

// AllocateIdentity is the coupling §4.3 describes between the segment
// allocator and the lockbox: it acquires or joins the lease covering
// lease.Interval, then completes partial against prev under the same
// critical section, so the minted identity's version always comes from the
// lease that was actually granted rather than a value raced against
// concurrent grants.
func (lb *Lockbox) AllocateIdentity(ctx context.Context, taskID string, lease Lease, partial PartialShardSpec, prev *ShardSpec) (SegmentIdWithShardSpec, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	granted, ok, err := lb.createOrFindLockPosseLocked(ctx, taskID, lease)
	if err != nil {
		return SegmentIdWithShardSpec{}, err
	}
	if !ok {
		return SegmentIdWithShardSpec{}, lockserviceErrorf(ErrContention, "cannot allocate over %s/%s: lease unavailable", lease.DataSource, lease.Interval)
	}

	shardSpec, err := partial.Complete(prev)
	if err != nil {
		return SegmentIdWithShardSpec{}, err
	}
	return SegmentIdWithShardSpec{
		DataSource: lease.DataSource,
		Interval:   granted.Interval,
		Version:    granted.Version,
		ShardSpec:  shardSpec,
	}, nil
}

// allLowerPriority reports whether every posse in the conflicting set is
// strictly lower priority than the requester and not upgraded: an upgraded
// lease is non-revocable outright, independent of its priority.
func allLowerPriority(posses []*lockPosse, priority int) bool {
	for _, p := range posses {
		if p.lease.Upgraded {
			return false
		}
		if p.lease.Priority >= priority {
			return false
		}
	}
	return true
}

// Unlock releases taskID's membership in lease's posse, dropping the posse
// entirely once its last task leaves.
func (lb *Lockbox) Unlock(ctx context.Context, taskID string, lease Lease) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	ds := lease.DataSource
	posses := lb.posses[ds]
	for i, p := range posses {
		if !p.lease.Interval.Equal(lease.Interval) || p.lease.GroupID != lease.GroupID || p.lease.Version != lease.Version {
			continue
		}
		if !p.hasTask(taskID) {
			continue
		}
		p.removeTask(taskID)
		if err := lb.journal.RemoveTask(ctx, p.lease, taskID); err != nil {
			p.addTask(taskID)
			return err
		}
		if p.isEmpty() {
			lb.posses[ds] = append(posses[:i:i], posses[i+1:]...)
		}
		lb.broadcastLocked()
		if lb.events != nil {
			lb.events.OnReleased(ctx, p.lease, taskID)
		}
		return nil
	}
	return lockserviceErrorf(ErrLockNotFound, "no lease for task %s over %s/%s", taskID, ds, lease.Interval)
}

// Revoke forcibly invalidates lease regardless of holder count, used for
// operator-initiated preemption outside the normal grant path.
func (lb *Lockbox) Revoke(ctx context.Context, lease Lease) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	for _, p := range lb.posses[lease.DataSource] {
		if p.lease.Interval.Equal(lease.Interval) && p.lease.GroupID == lease.GroupID && p.lease.Version == lease.Version {
			p.lease.Revoked = true
			lb.broadcastLocked()
			if err := lb.journal.MarkRevoked(ctx, p.lease); err != nil {
				return err
			}
			if lb.events != nil {
				lb.events.OnRevoked(ctx, p.lease)
			}
			return nil
		}
	}
	return lockserviceErrorf(ErrLockNotFound, "no lease to revoke for %s/%s", lease.DataSource, lease.Interval)
}

// Upgrade marks an EXCLUSIVE lease held by taskID as non-revocable: shared
// locks cannot be upgraded, mirroring TaskLockbox.upgrade. The flag is
// written through to the journal before it's observable by other callers.
func (lb *Lockbox) Upgrade(ctx context.Context, taskID string, lease Lease) (Lease, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	for _, p := range lb.posses[lease.DataSource] {
		if !p.lease.Interval.Equal(lease.Interval) || p.lease.GroupID != lease.GroupID || !p.hasTask(taskID) {
			continue
		}
		if p.lease.Type != LockTypeExclusive {
			return Lease{}, lockserviceError(ErrContention, "shared lock cannot be upgraded")
		}
		p.lease.Upgraded = true
		if err := lb.journal.Replace(ctx, p.lease); err != nil {
			p.lease.Upgraded = false
			return Lease{}, lockserviceErrorf(ErrJournalFailure, "replace upgraded lease: %v", err)
		}
		lb.broadcastLocked()
		return p.lease, nil
	}
	return Lease{}, lockserviceErrorf(ErrLockNotFound, "no exclusive lease for task %s over %s/%s", taskID, lease.DataSource, lease.Interval)
}

// Downgrade clears the upgraded flag on an EXCLUSIVE lease, rendering it
// revocable again under the ordinary priority comparison.
func (lb *Lockbox) Downgrade(ctx context.Context, taskID string, lease Lease) (Lease, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	for _, p := range lb.posses[lease.DataSource] {
		if !p.lease.Interval.Equal(lease.Interval) || p.lease.GroupID != lease.GroupID || !p.hasTask(taskID) {
			continue
		}
		if p.lease.Type != LockTypeExclusive {
			return Lease{}, lockserviceError(ErrContention, "shared lock cannot be downgraded")
		}
		p.lease.Upgraded = false
		if err := lb.journal.Replace(ctx, p.lease); err != nil {
			p.lease.Upgraded = true
			return Lease{}, lockserviceErrorf(ErrJournalFailure, "replace downgraded lease: %v", err)
		}
		lb.broadcastLocked()
		return p.lease, nil
	}
	return Lease{}, lockserviceErrorf(ErrLockNotFound, "no exclusive lease for task %s over %s/%s", taskID, lease.DataSource, lease.Interval)
}

// FindLocksForTask returns every lease taskID currently holds.
func (lb *Lockbox) FindLocksForTask(taskID string) []Lease {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	var out []Lease
	for _, posses := range lb.posses {
		for _, p := range posses {
			if p.hasTask(taskID) && !p.lease.Revoked {
				out = append(out, p.lease)
			}
		}
	}
	return out
}

// AllLocks returns a snapshot of every active lease grouped by data source.
func (lb *Lockbox) AllLocks() map[string][]Lease {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	out := make(map[string][]Lease, len(lb.posses))
	for ds, posses := range lb.posses {
		leases := make([]Lease, 0, len(posses))
		for _, p := range posses {
			if p.lease.Revoked {
				continue
			}
			leases = append(leases, p.lease)
		}
		out[ds] = leases
	}
	return out
}

func (lb *Lockbox) broadcastLocked() {
	close(lb.waiters)
	lb.waiters = make(chan struct{})
}
