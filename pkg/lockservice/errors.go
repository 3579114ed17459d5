package lockservice

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers should use errors.Is against these, never
// string-match on Error().
//
// InactiveTask, EmptyInterval, Revoked, Contention, JournalFailure,
// PartitionMismatch, UnsupportedCombination and UnparseableRow are the
// tagged results every core operation is expected to fail with; everything
// else below covers a condition none of those eight tags name. Only
// JournalFailure triggers local rollback of in-memory state; every other
// kind is surfaced to the caller as-is, with task id and interval context
// folded into the message. The core never retries autonomously.
var (
	ErrInactiveTask           = errors.New("inactive task")
	ErrEmptyInterval          = errors.New("empty interval")
	ErrRevoked                = errors.New("revoked")
	ErrContention             = errors.New("contention")
	ErrJournalFailure         = errors.New("journal failure")
	ErrPartitionMismatch      = errors.New("partition mismatch")
	ErrUnsupportedCombination = errors.New("unsupported combination")
	ErrUnparseableRow         = errors.New("unparseable row")

	// ErrConsistencyFault covers a state that should be structurally
	// impossible under the grant algorithm: more than one coexisting posse
	// found for the same group and interval, or a task that already holds a
	// posse there asking for a different lease kind without going through
	// Upgrade/Downgrade. Sync does not compare in-memory posse state with
	// the journal and never returns it.
	ErrConsistencyFault = errors.New("consistency fault")

	ErrLockNotFound          = errors.New("lock not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrGranularityMismatch   = errors.New("granularity mismatch")
	ErrShardSpecIncompatible = errors.New("shard spec incompatible")
	ErrVersionRegressed      = errors.New("version regressed")
	ErrSequenceForked        = errors.New("sequence forked")
)

// lockserviceError wraps a sentinel kind with a contextual message, mirroring
// the scheduler package's schedulerError helper.
func lockserviceError(kind error, message string) error {
	return fmt.Errorf("%w: %s", kind, message)
}

func lockserviceErrorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
