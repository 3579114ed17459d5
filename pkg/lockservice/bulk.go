package lockservice

import (
	"context"
	"sync"
)

// BulkAllocateRequest asks for every partition in PartialShardSpecs to be
// minted for one interval under a single lease acquisition, the way a batch
// ingestion task claims a whole day's worth of partitions at once instead of
// allocating row group by row group.
type BulkAllocateRequest struct {
	DataSource       string
	Interval         Interval
	TaskID           string
	GroupID          string
	Priority         int
	LockType         LockType
	PartialShardSpecs []PartialShardSpec
}

// BulkAllocator grants one lease and mints a whole batch of ShardSpecs
// against it inside a single critical section, so no other allocator can
// observe a partially-minted batch.
type BulkAllocator struct {
	lockbox *Lockbox
	index   SegmentIndex

	mu sync.Mutex
}

func NewBulkAllocator(lockbox *Lockbox, index SegmentIndex) *BulkAllocator {
	return &BulkAllocator{lockbox: lockbox, index: index}
}

// TryLockForNewSegments acquires an interval-wide lease and mints one
// SegmentIdWithShardSpec per entry in req.PartialShardSpecs, chaining each
// completion against the previous one so the batch is internally
// consistent (partition numbers are the batch ordinals 0, 1, 2, ...,
// regardless of what was already published for the interval).
func (b *BulkAllocator) TryLockForNewSegments(ctx context.Context, req BulkAllocateRequest) ([]SegmentIdWithShardSpec, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	lease := Lease{
		GroupID:    req.GroupID,
		DataSource: req.DataSource,
		Interval:   req.Interval,
		Type:       req.LockType,
		Priority:   req.Priority,
	}
	granted, ok, err := b.lockbox.TryLock(ctx, req.TaskID, lease)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lockserviceErrorf(ErrContention, "cannot bulk allocate over %s/%s: lease unavailable", req.DataSource, req.Interval)
	}

	var prev *ShardSpec
	if existing, found, err := b.index.MaxShardSpec(ctx, req.DataSource, req.Interval); err != nil {
		return nil, err
	} else if found {
		prev = &existing
	}

	// Each entry's partitionNum is its ordinal position within this batch
	// (0, 1, 2, ...), not a continuation of whatever was already published
	// for the interval: the whole point of a bulk grant is that every
	// partition in it is minted together, under one lease, as a single
	// self-consistent set. Complete is still called against prev first so
	// the existing type/shape compatibility checks run (e.g. refusing to
	// mix a hashed batch into an interval that already has numbered
	// partitions), then the ordinal overwrites whatever number Complete
	// picked.
	out := make([]SegmentIdWithShardSpec, 0, len(req.PartialShardSpecs))
	for i, partial := range req.PartialShardSpecs {
		spec, err := partial.Complete(prev)
		if err != nil {
			return nil, err
		}
		spec.PartitionNum = i
		identity := SegmentIdWithShardSpec{DataSource: req.DataSource, Interval: req.Interval, Version: granted.Version, ShardSpec: spec}
		out = append(out, identity)
	}
	if len(out) != len(req.PartialShardSpecs) {
		return nil, lockserviceErrorf(ErrPartitionMismatch, "allocated %d partitions for %d requested in bulk grant over %s/%s", len(out), len(req.PartialShardSpecs), req.DataSource, req.Interval)
	}
	return out, nil
}
