// Package inmemory provides a non-durable lockservice.Journal backed by a
// guarded map, used for tests and single-process deployments that accept
// losing lease state on restart.
package inmemory

import (
	"context"
	"sync"

	"github.com/druidlock/lockservice/pkg/lockservice"
)

type recordKey struct {
	dataSource string
	interval   string
	groupID    string
	version    string
}

func keyFor(lease lockservice.Lease) recordKey {
	return recordKey{dataSource: lease.DataSource, interval: lease.Interval.String(), groupID: lease.GroupID, version: lease.Version}
}

// Journal is an in-memory lockservice.Journal implementation.
type Journal struct {
	mu      sync.Mutex
	records map[recordKey]lockservice.TaskLockRecord
}

func New() *Journal {
	return &Journal{records: make(map[recordKey]lockservice.TaskLockRecord)}
}

func (j *Journal) Append(_ context.Context, record lockservice.TaskLockRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records[keyFor(record.Lease)] = record
	return nil
}

func (j *Journal) AddTask(_ context.Context, lease lockservice.Lease, taskID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyFor(lease)
	rec, ok := j.records[k]
	if !ok {
		rec = lockservice.TaskLockRecord{Lease: lease}
	}
	for _, id := range rec.TaskIDs {
		if id == taskID {
			return nil
		}
	}
	rec.TaskIDs = append(rec.TaskIDs, taskID)
	j.records[k] = rec
	return nil
}

func (j *Journal) RemoveTask(_ context.Context, lease lockservice.Lease, taskID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyFor(lease)
	rec, ok := j.records[k]
	if !ok {
		return nil
	}
	remaining := rec.TaskIDs[:0]
	for _, id := range rec.TaskIDs {
		if id != taskID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		delete(j.records, k)
		return nil
	}
	rec.TaskIDs = remaining
	j.records[k] = rec
	return nil
}

func (j *Journal) MarkRevoked(_ context.Context, lease lockservice.Lease) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyFor(lease)
	rec, ok := j.records[k]
	if !ok {
		return nil
	}
	rec.Lease.Revoked = true
	j.records[k] = rec
	return nil
}

func (j *Journal) Replace(_ context.Context, lease lockservice.Lease) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyFor(lease)
	rec, ok := j.records[k]
	if !ok {
		rec = lockservice.TaskLockRecord{}
	}
	rec.Lease = lease
	j.records[k] = rec
	return nil
}

func (j *Journal) LoadAll(_ context.Context) ([]lockservice.TaskLockRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]lockservice.TaskLockRecord, 0, len(j.records))
	for _, rec := range j.records {
		out = append(out, rec)
	}
	return out, nil
}

// HealthCheck always succeeds; an in-memory journal has no external
// dependency to fail against.
func (j *Journal) HealthCheck(_ context.Context) error {
	return nil
}
