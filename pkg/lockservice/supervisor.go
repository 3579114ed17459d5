package lockservice

import (
	"context"

	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// SupervisorWrap annotates allocation and lock calls with a supervising
// task's identity for audit and routing purposes. It never changes the
// underlying outcome; it only logs and tags who asked.
type SupervisorWrap struct {
	SupervisorID string
	allocator    *SegmentAllocator
	lockbox      *Lockbox
	log          logger.Logger
}

func NewSupervisorWrap(supervisorID string, allocator *SegmentAllocator, lockbox *Lockbox, log logger.Logger) *SupervisorWrap {
	if log == nil {
		log = logger.NewNoop()
	}
	return &SupervisorWrap{SupervisorID: supervisorID, allocator: allocator, lockbox: lockbox, log: log.With("supervisorId", supervisorID)}
}

// Allocate delegates to the wrapped SegmentAllocator, logging the call under
// this supervisor's identity for later audit.
func (s *SupervisorWrap) Allocate(ctx context.Context, req AllocateRequest) (*SegmentIdWithShardSpec, error) {
	s.log.Debug("allocation requested", "dataSource", req.DataSource, "sequence", req.Sequence, "taskId", req.TaskID)
	identity, err := s.allocator.Allocate(ctx, req)
	if err != nil {
		s.log.Warn("allocation failed", "dataSource", req.DataSource, "sequence", req.Sequence, "error", err)
		return nil, err
	}
	s.log.Debug("allocation granted", "dataSource", req.DataSource, "interval", identity.Interval.String(), "version", identity.Version)
	return identity, nil
}

// Lock delegates to the wrapped Lockbox's blocking Lock, tagging the
// request with this supervisor's identity in logs only.
func (s *SupervisorWrap) Lock(ctx context.Context, taskID string, lease Lease) (Lease, error) {
	s.log.Debug("lock requested", "dataSource", lease.DataSource, "interval", lease.Interval.String(), "taskId", taskID)
	granted, err := s.lockbox.Lock(ctx, taskID, lease)
	if err != nil {
		s.log.Warn("lock failed", "dataSource", lease.DataSource, "interval", lease.Interval.String(), "error", err)
		return Lease{}, err
	}
	return granted, nil
}
