package lockservice

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SegmentIdWithShardSpec is the full identity minted for a single row-group
// of ingested data: which interval and version it belongs to, plus the
// ShardSpec that determines its partition number and routing.
type SegmentIdWithShardSpec struct {
	DataSource string    `json:"dataSource"`
	Interval   Interval  `json:"interval"`
	Version    string    `json:"version"`
	ShardSpec  ShardSpec `json:"shardSpec"`
}

// ID returns a stable string identity for the segment, suitable for a
// producer to persist as its checkpoint and pass back as
// AllocateRequest.PreviousSegmentID on its next call.
func (s SegmentIdWithShardSpec) ID() string {
	return s.DataSource + "_" + s.Interval.String() + "_" + s.Version + "_" + s.ShardSpec.String()
}

// AllocateRequest describes one row-group's ask for a partition identity.
// Sequence names the producer's append-only stream of previous segment ids,
// used to detect a forked lineage (the same producer restarting from an
// older checkpoint after a later one was already committed). Dimensions
// carries the row's own partition key values, consulted when
// PartialShardSpec is Hashed or SingleDim so the allocator (not the caller)
// decides the bucket or range the row lands in. LockGranularity selects
// whether the lease acquired to cover this allocation spans the whole time
// chunk or just this one segment; Hashed and SingleDim partitioning are
// only well-defined under a single shared numbering scheme for the whole
// time chunk, so requesting either of them together with segment-level
// locking is refused with ErrUnsupportedCombination.
type AllocateRequest struct {
	DataSource                  string
	Timestamp                   time.Time
	QueryGranularity            Granularity
	PreferredSegmentGranularity Granularity
	Sequence                    string
	PreviousSegmentID           string
	PartialShardSpec            PartialShardSpec
	Dimensions                  map[string]string
	LockType                    LockType
	LockGranularity             LockGranularity
	TaskID                      string
	GroupID                     string
	Priority                    int
}

// sequenceState tracks one producer sequence's lineage so Allocate can tell
// a legitimate new branch (the sequence advancing into a never-before-seen
// interval) from a fork (a resumed producer re-declaring an interval that
// was already served under a newer checkpoint).
type sequenceState struct {
	tail          string
	seenIntervals map[string]SegmentIdWithShardSpec
}

// SegmentAllocator mints SegmentIdWithShardSpec identities for streaming or
// batch row-groups, snapping the requested granularity to whatever an
// interval was already published at and refusing allocations whose query
// granularity is coarser than that.
type SegmentAllocator struct {
	index   SegmentIndex
	lockbox *Lockbox
	metrics *metrics

	mu        sync.Mutex
	sequences map[string]*sequenceState
}

func NewSegmentAllocator(index SegmentIndex, lockbox *Lockbox) *SegmentAllocator {
	return &SegmentAllocator{
		index:     index,
		lockbox:   lockbox,
		metrics:   newMetrics(),
		sequences: make(map[string]*sequenceState),
	}
}

// Allocate mints (or replays) a partition identity for req. It returns a nil
// identity with ErrSequenceForked when the producer's checkpoint has fallen
// behind a lineage fork, ErrGranularityMismatch when the requested query
// granularity cannot resolve the actual, already-published segment
// granularity for the interval, and ErrUnsupportedCombination when req asks
// for hash or range partitioning under segment-level locking. The identity
// is minted by acquiring (or joining) the covering lease through the
// lockbox, under its single critical section, so the version it carries is
// the version of the lease actually granted. The minted identity itself is
// not written to the journal; only the lease grant is.
func (a *SegmentAllocator) Allocate(ctx context.Context, req AllocateRequest) (*SegmentIdWithShardSpec, error) {
	if a.lockbox == nil {
		return nil, fmt.Errorf("lockservice: segment allocator has no lockbox configured")
	}

	actual, err := a.resolveActualInterval(ctx, req)
	if err != nil {
		a.metrics.recordAllocation(req.DataSource, "refused")
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.sequences[req.Sequence]
	if state == nil {
		state = &sequenceState{seenIntervals: make(map[string]SegmentIdWithShardSpec)}
		a.sequences[req.Sequence] = state
	} else if req.PreviousSegmentID != "" && req.PreviousSegmentID != state.tail {
		if prior, seen := state.seenIntervals[actual.String()]; seen {
			_ = prior
			a.metrics.recordAllocation(req.DataSource, "forked")
			return nil, lockserviceErrorf(ErrSequenceForked, "sequence %q resumed from stale checkpoint %q for already-served interval %s", req.Sequence, req.PreviousSegmentID, actual)
		}
		// Brand new interval for this sequence: a legitimate branch even
		// though the checkpoint doesn't match our recorded tail.
	}

	prevSpec, err := a.previousShardSpec(ctx, req.DataSource, actual, state)
	if err != nil {
		a.metrics.recordAllocation(req.DataSource, "error")
		return nil, err
	}

	partial, err := a.resolvePartialShardSpec(ctx, req, actual, prevSpec)
	if err != nil {
		a.metrics.recordAllocation(req.DataSource, "refused")
		return nil, err
	}

	lockType := req.LockType
	if lockType == "" {
		lockType = LockTypeExclusive
	}
	lease := Lease{GroupID: req.GroupID, DataSource: req.DataSource, Interval: actual, Type: lockType, Granularity: req.LockGranularity, Priority: req.Priority}

	identity, err := a.lockbox.AllocateIdentity(ctx, req.TaskID, lease, partial, prevSpec)
	if err != nil {
		a.metrics.recordAllocation(req.DataSource, "incompatible")
		return nil, err
	}

	state.tail = identity.ID()
	state.seenIntervals[actual.String()] = identity
	a.metrics.recordAllocation(req.DataSource, "granted")
	return &identity, nil
}

// resolvePartialShardSpec implements §4.3 step 2's dispatch: Hashed
// partitions get their bucketId computed from the row's own dimension
// values rather than trusting whatever the caller put there, SingleDim
// partitions get their Start/End resolved from whatever single_dim
// partitions already exist for the interval, and both are refused under
// segment-level locking since their numbering only makes sense shared
// across the whole time chunk.
func (a *SegmentAllocator) resolvePartialShardSpec(ctx context.Context, req AllocateRequest, actual Interval, prev *ShardSpec) (PartialShardSpec, error) {
	partial := req.PartialShardSpec
	switch partial.Type {
	case ShardSpecHashed:
		if req.LockGranularity == LockGranularitySegment {
			return PartialShardSpec{}, lockserviceErrorf(ErrUnsupportedCombination, "hashed partitioning is not permitted under segment-level locking")
		}
		if partial.NumBuckets <= 0 {
			return PartialShardSpec{}, lockserviceErrorf(ErrUnsupportedCombination, "numBuckets must be positive, got %d", partial.NumBuckets)
		}
		row := Row{Timestamp: req.Timestamp.UnixMilli(), Dimensions: req.Dimensions}
		partial.BucketID = hashBucket(partial.PartitionDims, row, partial.NumBuckets)
		return partial, nil
	case ShardSpecSingleDim:
		if req.LockGranularity == LockGranularitySegment {
			return PartialShardSpec{}, lockserviceErrorf(ErrUnsupportedCombination, "range partitioning is not permitted under segment-level locking")
		}
		if a.index == nil {
			return partial, nil
		}
		summaries, err := a.index.ForInterval(ctx, req.DataSource, actual)
		if err != nil {
			return PartialShardSpec{}, err
		}
		var specs []ShardSpec
		for _, s := range summaries {
			if s.ShardSpec.Type == ShardSpecSingleDim && s.ShardSpec.Dimension == partial.Dimension {
				specs = append(specs, s.ShardSpec)
			}
		}
		if len(specs) == 0 {
			// First partition for this dimension: fully open range.
			return partial, nil
		}
		analysis, err := NewPartitionAnalysis(actual, specs)
		if err != nil {
			return PartialShardSpec{}, err
		}
		owner, err := analysis.Route(Row{Timestamp: req.Timestamp.UnixMilli(), Dimensions: req.Dimensions})
		if err != nil {
			return PartialShardSpec{}, err
		}
		partial.Start = owner.Start
		partial.End = owner.End
		return partial, nil
	default:
		return partial, nil
	}
}

func (a *SegmentAllocator) previousShardSpec(ctx context.Context, dataSource string, interval Interval, state *sequenceState) (*ShardSpec, error) {
	if prior, ok := state.seenIntervals[interval.String()]; ok {
		spec := prior.ShardSpec
		return &spec, nil
	}
	spec, ok, err := a.index.MaxShardSpec(ctx, dataSource, interval)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &spec, nil
}

// resolveActualInterval implements the granularity-snap rule: the interval
// actually allocated into is whatever an existing published segment already
// occupies at the requested timestamp, if one overlaps, falling back to the
// preferred granularity's own bucket otherwise. The allocation is refused
// when the query granularity is coarser than the resulting actual interval.
func (a *SegmentAllocator) resolveActualInterval(ctx context.Context, req AllocateRequest) (Interval, error) {
	preferredBucket := req.PreferredSegmentGranularity.Bucket(req.Timestamp)

	actual := preferredBucket
	if a.index != nil {
		existing, err := a.index.OverlappingIntervals(ctx, req.DataSource, preferredBucket)
		if err != nil {
			return Interval{}, err
		}
		for _, iv := range existing {
			if iv.Contains(Interval{Start: req.Timestamp, End: req.Timestamp.Add(time.Nanosecond)}) {
				actual = iv
				break
			}
		}
	}

	actualGranularity := inferGranularity(actual)
	if req.QueryGranularity != "" && req.QueryGranularity != GranularityNone && actualGranularity != GranularityNone {
		if req.QueryGranularity.CoarserThan(actualGranularity) {
			return Interval{}, lockserviceErrorf(ErrGranularityMismatch, "query granularity %s is coarser than actual segment granularity %s for %s", req.QueryGranularity, actualGranularity, actual)
		}
	}
	return actual, nil
}

// inferGranularity reverse-maps an interval's duration back to the named
// Granularity that would have produced a bucket of that width, used when we
// only have a previously published Interval and not the granularity that
// minted it.
func inferGranularity(iv Interval) Granularity {
	d := iv.End.Sub(iv.Start)
	switch {
	case d == time.Minute:
		return GranularityMinute
	case d == time.Hour:
		return GranularityHour
	case d == 24*time.Hour:
		return GranularityDay
	case d == 7*24*time.Hour:
		return GranularityWeek
	case d >= 28*24*time.Hour && d <= 31*24*time.Hour:
		return GranularityMonth
	case d >= 365*24*time.Hour && d <= 366*24*time.Hour:
		return GranularityYear
	default:
		return GranularityNone
	}
}
