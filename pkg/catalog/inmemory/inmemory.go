// Package inmemory provides a lockservice.TaskCatalog backed by a guarded
// map, suitable for tests and single-node deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/druidlock/lockservice/pkg/lockservice"
)

// Catalog is an in-memory lockservice.TaskCatalog.
type Catalog struct {
	mu    sync.RWMutex
	tasks map[string]lockservice.TaskInfo
}

func New() *Catalog {
	return &Catalog{tasks: make(map[string]lockservice.TaskInfo)}
}

// Put registers or updates a task's catalog entry.
func (c *Catalog) Put(info lockservice.TaskInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[info.TaskID] = info
}

func (c *Catalog) Get(_ context.Context, taskID string) (lockservice.TaskInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.tasks[taskID]
	if !ok {
		return lockservice.TaskInfo{}, lockservice.ErrTaskNotFound
	}
	return info, nil
}

func (c *Catalog) ActiveTasksInGroup(_ context.Context, groupID string) ([]lockservice.TaskInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []lockservice.TaskInfo
	for _, info := range c.tasks {
		if info.GroupID == groupID && info.Active {
			out = append(out, info)
		}
	}
	return out, nil
}

// HealthCheck always succeeds; an in-memory catalog has no external
// dependency to fail against.
func (c *Catalog) HealthCheck(_ context.Context) error {
	return nil
}
