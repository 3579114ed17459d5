package lockservice

import "time"

// LockType distinguishes an exclusive write lease (REPLACE-style, forbids
// any overlapping writer) from a shared lease (APPEND-style, permits
// multiple concurrent holders as long as all of them also hold shared
// locks).
type LockType string

const (
	LockTypeExclusive LockType = "EXCLUSIVE"
	LockTypeShared    LockType = "SHARED"
)

// LockGranularity distinguishes a lease held over a whole time chunk from
// one scoped to a single segment within it. It is independent of the
// ingestion Granularity enum (YEAR/MONTH/.../MINUTE): the same HOUR time
// chunk can be locked at TIME_CHUNK granularity (one lease covers every
// segment minted in that hour) or at SEGMENT granularity (each segment
// within the hour negotiates its own lease).
type LockGranularity string

const (
	LockGranularityTimeChunk LockGranularity = "TIME_CHUNK"
	LockGranularitySegment   LockGranularity = "SEGMENT"
)

// Lease is a granted or pending lock over a data source interval, addressed
// by the wire-level name TaskLock in spec scenarios and external interfaces.
// Upgraded marks an EXCLUSIVE lease as non-revocable: set by Upgrade and
// cleared by Downgrade, it is the only field those two operations touch.
type Lease struct {
	GroupID     string          `json:"groupId"`
	DataSource  string          `json:"dataSource"`
	Interval    Interval        `json:"interval"`
	Version     string          `json:"version"`
	Type        LockType        `json:"type"`
	Granularity LockGranularity `json:"granularity,omitempty"`
	Priority    int             `json:"priority"`
	Revoked     bool            `json:"revoked"`
	Upgraded    bool            `json:"upgraded"`
}

// Conflicts reports whether two leases cannot coexist: an overlap, within
// one data source, between leases of different groups where at least one
// of them is exclusive. Leases of the same group never conflict.
func (l Lease) Conflicts(other Lease) bool {
	if l.DataSource != other.DataSource {
		return false
	}
	if !l.Interval.Overlaps(other.Interval) {
		return false
	}
	if l.GroupID == other.GroupID {
		return false
	}
	if l.Type == LockTypeShared && other.Type == LockTypeShared {
		return false
	}
	return true
}

// TaskLockRecord is the durable representation of a Lease plus the holder
// bookkeeping (the "posse") the lockbox keeps in memory, as written to and
// read back from the lock journal.
type TaskLockRecord struct {
	Lease     Lease     `json:"lease"`
	TaskIDs   []string  `json:"taskIds"`
	GrantedAt time.Time `json:"grantedAt"`
}
