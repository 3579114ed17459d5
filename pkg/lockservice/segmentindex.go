package lockservice

import "context"

// SegmentSummary is the minimal published-segment view the allocator needs:
// its interval, version, and completed shard spec, so it can find the
// previous maximum partition id to complete a PartialShardSpec against.
type SegmentSummary struct {
	DataSource string
	Interval   Interval
	Version    string
	ShardSpec  ShardSpec
}

// SegmentIndex looks up already-published segments so the allocator can
// derive the next ShardSpec in a lineage. Concrete adapters live in the sibling segmentindex package
// (in-memory, mysql, opensearch).
type SegmentIndex interface {
	// MaxShardSpec returns the highest-numbered ShardSpec published for
	// dataSource+interval, or ok=false if none exists yet.
	MaxShardSpec(ctx context.Context, dataSource string, interval Interval) (ShardSpec, bool, error)

	// ForInterval returns every published segment for dataSource+interval,
	// used to build a PartitionAnalysis for routing.
	ForInterval(ctx context.Context, dataSource string, interval Interval) ([]SegmentSummary, error)

	// OverlappingIntervals returns every distinct published interval for
	// dataSource that overlaps query, used by the granularity-snap logic
	// in the segment allocator.
	OverlappingIntervals(ctx context.Context, dataSource string, query Interval) ([]Interval, error)
}
