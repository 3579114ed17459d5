package lockservice

import "time"

// lockPosse is the in-memory unit the lockbox arbitrates over: a single
// Lease plus every task currently riding on it. Multiple tasks in the same
// group ID can share one posse when the lease type is SHARED; an EXCLUSIVE
// lease's posse always has exactly one task.
type lockPosse struct {
	lease     Lease
	taskIDs   map[string]struct{}
	grantedAt time.Time
}

func newLockPosse(lease Lease, taskID string, now time.Time) *lockPosse {
	return &lockPosse{
		lease:     lease,
		taskIDs:   map[string]struct{}{taskID: {}},
		grantedAt: now,
	}
}

func (p *lockPosse) addTask(taskID string) {
	p.taskIDs[taskID] = struct{}{}
}

func (p *lockPosse) removeTask(taskID string) {
	delete(p.taskIDs, taskID)
}

func (p *lockPosse) isEmpty() bool {
	return len(p.taskIDs) == 0
}

func (p *lockPosse) hasTask(taskID string) bool {
	_, ok := p.taskIDs[taskID]
	return ok
}

func (p *lockPosse) taskIDList() []string {
	out := make([]string, 0, len(p.taskIDs))
	for id := range p.taskIDs {
		out = append(out, id)
	}
	return out
}

func (p *lockPosse) record() TaskLockRecord {
	return TaskLockRecord{Lease: p.lease, TaskIDs: p.taskIDList(), GrantedAt: p.grantedAt}
}

// canCoexistWith mirrors Druid's isAllSharedLocks check: a posse only
// admits another task into the same group without displacing anyone when
// every existing holder is also a SHARED lease. The posse's interval need
// only contain the requested one, not match it exactly, so a fresh request
// scoped to a sub-interval of an already-granted group lease joins it
// instead of minting a redundant posse.
func (p *lockPosse) canCoexistWith(other Lease) bool {
	if p.lease.Revoked {
		return false
	}
	if p.lease.Type != LockTypeShared || other.Type != LockTypeShared {
		return false
	}
	if p.lease.GroupID != other.GroupID || p.lease.DataSource != other.DataSource {
		return false
	}
	return p.lease.Interval.Contains(other.Interval)
}
