// Package resilient wraps a lockservice.SegmentIndex lookup with a timeout,
// used around the historical index query that PartialShardSpec.Complete
// depends on during segment allocation.
package resilient

import (
	"context"
	"time"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/resilience"
)

// Index wraps another lockservice.SegmentIndex, bounding every call with a
// fixed timeout so a slow historical store cannot stall allocation forever.
type Index struct {
	inner   lockservice.SegmentIndex
	timeout time.Duration
}

func New(inner lockservice.SegmentIndex, timeout time.Duration) *Index {
	return &Index{inner: inner, timeout: timeout}
}

func (i *Index) MaxShardSpec(ctx context.Context, dataSource string, interval lockservice.Interval) (lockservice.ShardSpec, bool, error) {
	var (
		spec  lockservice.ShardSpec
		found bool
	)
	err := resilience.WithTimeout(ctx, i.timeout, func(opCtx context.Context) error {
		var innerErr error
		spec, found, innerErr = i.inner.MaxShardSpec(opCtx, dataSource, interval)
		return innerErr
	})
	return spec, found, err
}

func (i *Index) ForInterval(ctx context.Context, dataSource string, interval lockservice.Interval) ([]lockservice.SegmentSummary, error) {
	var out []lockservice.SegmentSummary
	err := resilience.WithTimeout(ctx, i.timeout, func(opCtx context.Context) error {
		var innerErr error
		out, innerErr = i.inner.ForInterval(opCtx, dataSource, interval)
		return innerErr
	})
	return out, err
}

func (i *Index) OverlappingIntervals(ctx context.Context, dataSource string, query lockservice.Interval) ([]lockservice.Interval, error) {
	var out []lockservice.Interval
	err := resilience.WithTimeout(ctx, i.timeout, func(opCtx context.Context) error {
		var innerErr error
		out, innerErr = i.inner.OverlappingIntervals(opCtx, dataSource, query)
		return innerErr
	})
	return out, err
}
