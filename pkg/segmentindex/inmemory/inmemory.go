// Package inmemory provides a lockservice.SegmentIndex backed by a guarded
// slice, suitable for tests and single-node deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/druidlock/lockservice/pkg/lockservice"
)

// Index is an in-memory lockservice.SegmentIndex.
type Index struct {
	mu       sync.RWMutex
	segments []lockservice.SegmentSummary
}

func New() *Index {
	return &Index{}
}

// Publish records a segment as published, as if a task had just committed
// it to deep storage and announced it to the historical tier.
func (idx *Index) Publish(summary lockservice.SegmentSummary) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.segments = append(idx.segments, summary)
}

func (idx *Index) MaxShardSpec(_ context.Context, dataSource string, interval lockservice.Interval) (lockservice.ShardSpec, bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var (
		best  lockservice.ShardSpec
		found bool
	)
	for _, s := range idx.segments {
		if s.DataSource != dataSource || !s.Interval.Equal(interval) {
			continue
		}
		if !found || s.ShardSpec.PartitionID() > best.PartitionID() {
			best = s.ShardSpec
			found = true
		}
	}
	return best, found, nil
}

func (idx *Index) ForInterval(_ context.Context, dataSource string, interval lockservice.Interval) ([]lockservice.SegmentSummary, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []lockservice.SegmentSummary
	for _, s := range idx.segments {
		if s.DataSource == dataSource && s.Interval.Equal(interval) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (idx *Index) OverlappingIntervals(_ context.Context, dataSource string, query lockservice.Interval) ([]lockservice.Interval, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	seen := make(map[string]lockservice.Interval)
	for _, s := range idx.segments {
		if s.DataSource != dataSource || !s.Interval.Overlaps(query) {
			continue
		}
		seen[s.Interval.String()] = s.Interval
	}
	out := make([]lockservice.Interval, 0, len(seen))
	for _, iv := range seen {
		out = append(out, iv)
	}
	return out, nil
}

// HealthCheck always succeeds; an in-memory segment index has no external
// dependency to fail against.
func (idx *Index) HealthCheck(_ context.Context) error {
	return nil
}
