package lockservice

import "context"

// TaskInfo is the subset of task metadata the lockbox needs to enforce
// group-id/priority invariants and to answer findLocksForTask-style
// queries without owning task lifecycle itself.
type TaskInfo struct {
	TaskID   string
	GroupID  string
	Priority int
	Active   bool
}

// TaskCatalog resolves task identities and priorities. It is a read mostly
// port: the lockbox never mutates task state, only looks it up, mirroring
// how TaskLockbox consults the TaskStorage interface in Druid.
type TaskCatalog interface {
	Get(ctx context.Context, taskID string) (TaskInfo, error)
	ActiveTasksInGroup(ctx context.Context, groupID string) ([]TaskInfo, error)
}
