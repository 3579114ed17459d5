// Package redis implements lockservice.Journal on top of Redis, storing
// each lease as a hash plus a companion set of holder task ids, following
// the same SET/Lua-script discipline as the scheduler package's distributed
// lock provider.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

const (
	defaultPrefix           = "lockservice:journal"
	defaultOperationTimeout = 3 * time.Second
)

// removeTaskScript atomically removes a task from a posse's holder set and,
// when the set is left empty, deletes the lease hash in the same round trip.
// It returns the number of holders remaining.
var removeTaskScript = redis.NewScript(`
redis.call("SREM", KEYS[1], ARGV[1])
local remaining = redis.call("SCARD", KEYS[1])
if remaining == 0 then
  redis.call("DEL", KEYS[1])
  redis.call("DEL", KEYS[2])
end
return remaining
`)

// Config configures the Redis-backed journal.
type Config struct {
	URL              string
	Prefix           string
	OperationTimeout time.Duration
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = defaultPrefix
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = defaultOperationTimeout
	}
}

// Journal is a lockservice.Journal backed by Redis.
type Journal struct {
	client *redis.Client
	log    logger.Logger
	config Config
}

func New(cfg Config, log logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("journal/redis: url is required")
	}
	cfg.normalize()

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("journal/redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("journal/redis: ping: %w", err)
	}

	return &Journal{client: client, log: log, config: cfg}, nil
}

func (j *Journal) Close() error {
	return j.client.Close()
}

// HealthCheck pings the backing Redis connection, satisfying
// health.Checkable.
func (j *Journal) HealthCheck(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

func recordKey(lease lockservice.Lease) string {
	return lease.DataSource + "|" + lease.GroupID + "|" + lease.Interval.String() + "|" + lease.Version
}

func (j *Journal) leaseHashKey(lease lockservice.Lease) string {
	return j.config.Prefix + ":lease:" + recordKey(lease)
}

func (j *Journal) tasksSetKey(lease lockservice.Lease) string {
	return j.config.Prefix + ":tasks:" + recordKey(lease)
}

func (j *Journal) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, j.config.OperationTimeout)
}

func (j *Journal) Append(ctx context.Context, record lockservice.TaskLockRecord) error {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()

	leaseKey := j.leaseHashKey(record.Lease)
	fields := leaseHashFields(record.Lease, record.GrantedAt)
	if err := j.client.HSet(opCtx, leaseKey, fields).Err(); err != nil {
		return fmt.Errorf("journal/redis: append lease: %w", err)
	}
	if len(record.TaskIDs) > 0 {
		ids := make([]any, len(record.TaskIDs))
		for i, id := range record.TaskIDs {
			ids[i] = id
		}
		if err := j.client.SAdd(opCtx, j.tasksSetKey(record.Lease), ids...).Err(); err != nil {
			return fmt.Errorf("journal/redis: append tasks: %w", err)
		}
	}
	return nil
}

func (j *Journal) AddTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()
	if err := j.client.SAdd(opCtx, j.tasksSetKey(lease), taskID).Err(); err != nil {
		return fmt.Errorf("journal/redis: add task: %w", err)
	}
	return nil
}

func (j *Journal) RemoveTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()
	_, err := removeTaskScript.Run(opCtx, j.client, []string{j.tasksSetKey(lease), j.leaseHashKey(lease)}, taskID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("journal/redis: remove task: %w", err)
	}
	return nil
}

func (j *Journal) MarkRevoked(ctx context.Context, lease lockservice.Lease) error {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()
	if err := j.client.HSet(opCtx, j.leaseHashKey(lease), "revoked", "1").Err(); err != nil {
		return fmt.Errorf("journal/redis: mark revoked: %w", err)
	}
	return nil
}

// Replace overwrites the lease's own fields (type, granularity, priority,
// revoked, upgraded) in place, leaving its holder set and grantedAt
// untouched; used by Upgrade/Downgrade to persist the upgraded flag.
func (j *Journal) Replace(ctx context.Context, lease lockservice.Lease) error {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()
	revoked := "0"
	if lease.Revoked {
		revoked = "1"
	}
	upgraded := "0"
	if lease.Upgraded {
		upgraded = "1"
	}
	fields := map[string]any{
		"type":        string(lease.Type),
		"granularity": string(lease.Granularity),
		"priority":    strconv.Itoa(lease.Priority),
		"revoked":     revoked,
		"upgraded":    upgraded,
	}
	if err := j.client.HSet(opCtx, j.leaseHashKey(lease), fields).Err(); err != nil {
		return fmt.Errorf("journal/redis: replace: %w", err)
	}
	return nil
}

func (j *Journal) LoadAll(ctx context.Context) ([]lockservice.TaskLockRecord, error) {
	opCtx, cancel := j.opCtx(ctx)
	defer cancel()

	var records []lockservice.TaskLockRecord
	iter := j.client.Scan(opCtx, 0, j.config.Prefix+":lease:*", 100).Iterator()
	for iter.Next(opCtx) {
		leaseKey := iter.Val()
		fields, err := j.client.HGetAll(opCtx, leaseKey).Result()
		if err != nil {
			return nil, fmt.Errorf("journal/redis: load lease %s: %w", leaseKey, err)
		}
		if len(fields) == 0 {
			continue
		}
		lease, grantedAt, err := leaseFromHash(fields)
		if err != nil {
			return nil, err
		}
		taskIDs, err := j.client.SMembers(opCtx, j.tasksSetKey(lease)).Result()
		if err != nil {
			return nil, fmt.Errorf("journal/redis: load tasks for %s: %w", leaseKey, err)
		}
		records = append(records, lockservice.TaskLockRecord{Lease: lease, TaskIDs: taskIDs, GrantedAt: grantedAt})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("journal/redis: scan: %w", err)
	}
	return records, nil
}

func leaseHashFields(lease lockservice.Lease, grantedAt time.Time) map[string]any {
	revoked := "0"
	if lease.Revoked {
		revoked = "1"
	}
	upgraded := "0"
	if lease.Upgraded {
		upgraded = "1"
	}
	return map[string]any{
		"dataSource":  lease.DataSource,
		"groupId":     lease.GroupID,
		"start":       lease.Interval.Start.Format(time.RFC3339Nano),
		"end":         lease.Interval.End.Format(time.RFC3339Nano),
		"version":     lease.Version,
		"type":        string(lease.Type),
		"granularity": string(lease.Granularity),
		"priority":    strconv.Itoa(lease.Priority),
		"revoked":     revoked,
		"upgraded":    upgraded,
		"grantedAt":   grantedAt.Format(time.RFC3339Nano),
	}
}

func leaseFromHash(fields map[string]string) (lockservice.Lease, time.Time, error) {
	start, err := time.Parse(time.RFC3339Nano, fields["start"])
	if err != nil {
		return lockservice.Lease{}, time.Time{}, fmt.Errorf("journal/redis: parse start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, fields["end"])
	if err != nil {
		return lockservice.Lease{}, time.Time{}, fmt.Errorf("journal/redis: parse end: %w", err)
	}
	interval, err := lockservice.NewInterval(start, end)
	if err != nil {
		return lockservice.Lease{}, time.Time{}, err
	}
	priority, _ := strconv.Atoi(fields["priority"])
	grantedAt, _ := time.Parse(time.RFC3339Nano, fields["grantedAt"])

	lease := lockservice.Lease{
		GroupID:     fields["groupId"],
		DataSource:  fields["dataSource"],
		Interval:    interval,
		Version:     fields["version"],
		Type:        lockservice.LockType(fields["type"]),
		Granularity: lockservice.LockGranularity(fields["granularity"]),
		Priority:    priority,
		Revoked:     fields["revoked"] == "1",
		Upgraded:    fields["upgraded"] == "1",
	}
	return lease, grantedAt, nil
}
