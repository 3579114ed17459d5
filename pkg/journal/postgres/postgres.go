// Package postgres implements lockservice.Journal against a Postgres table,
// using a pooled sql.DB connection.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Config holds Postgres connection settings for the journal table.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	TableName       string
}

func (c *Config) normalize() {
	if c.TableName == "" {
		c.TableName = "lockservice_leases"
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 5 * time.Second
	}
}

// Journal is a lockservice.Journal backed by Postgres.
type Journal struct {
	db     *sql.DB
	log    logger.Logger
	config Config
}

func New(cfg Config, log logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("journal/postgres: database url is required")
	}
	cfg.normalize()

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("journal/postgres: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal/postgres: ping: %w", err)
	}

	log.Info("postgres journal connection established", "table", cfg.TableName)
	return &Journal{db: db, log: log, config: cfg}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// HealthCheck pings the backing database connection, satisfying
// health.Checkable.
func (j *Journal) HealthCheck(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *Journal) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, j.config.QueryTimeout)
}

func (j *Journal) Append(ctx context.Context, record lockservice.TaskLockRecord) error {
	qCtx, cancel := j.withTimeout(ctx)
	defer cancel()

	taskIDs, err := json.Marshal(record.TaskIDs)
	if err != nil {
		return fmt.Errorf("journal/postgres: marshal task ids: %w", err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (data_source, group_id, interval_start, interval_end, version, lock_type, granularity, priority, revoked, upgraded, task_ids, granted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (data_source, group_id, interval_start, interval_end, version)
DO UPDATE SET lock_type = EXCLUDED.lock_type, granularity = EXCLUDED.granularity, priority = EXCLUDED.priority, revoked = EXCLUDED.revoked, upgraded = EXCLUDED.upgraded, task_ids = EXCLUDED.task_ids
`, j.config.TableName)

	_, err = j.db.ExecContext(qCtx, query,
		record.Lease.DataSource, record.Lease.GroupID, record.Lease.Interval.Start, record.Lease.Interval.End,
		record.Lease.Version, string(record.Lease.Type), string(record.Lease.Granularity), record.Lease.Priority,
		record.Lease.Revoked, record.Lease.Upgraded, string(taskIDs), record.GrantedAt)
	if err != nil {
		return fmt.Errorf("journal/postgres: append: %w", err)
	}
	return nil
}

func (j *Journal) AddTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	return j.mutateTaskIDs(ctx, lease, func(ids []string) []string {
		for _, id := range ids {
			if id == taskID {
				return ids
			}
		}
		return append(ids, taskID)
	})
}

func (j *Journal) RemoveTask(ctx context.Context, lease lockservice.Lease, taskID string) error {
	return j.mutateTaskIDs(ctx, lease, func(ids []string) []string {
		out := ids[:0]
		for _, id := range ids {
			if id != taskID {
				out = append(out, id)
			}
		}
		return out
	})
}

func (j *Journal) mutateTaskIDs(ctx context.Context, lease lockservice.Lease, mutate func([]string) []string) error {
	qCtx, cancel := j.withTimeout(ctx)
	defer cancel()

	tx, err := j.db.BeginTx(qCtx, nil)
	if err != nil {
		return fmt.Errorf("journal/postgres: begin tx: %w", err)
	}
	defer tx.Rollback()

	selectQuery := fmt.Sprintf(`SELECT task_ids FROM %s WHERE data_source=$1 AND group_id=$2 AND interval_start=$3 AND interval_end=$4 AND version=$5 FOR UPDATE`, j.config.TableName)
	var raw string
	err = tx.QueryRowContext(qCtx, selectQuery, lease.DataSource, lease.GroupID, lease.Interval.Start, lease.Interval.End, lease.Version).Scan(&raw)
	if err != nil {
		return fmt.Errorf("journal/postgres: select task ids: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return fmt.Errorf("journal/postgres: unmarshal task ids: %w", err)
	}
	ids = mutate(ids)

	if len(ids) == 0 {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE data_source=$1 AND group_id=$2 AND interval_start=$3 AND interval_end=$4 AND version=$5`, j.config.TableName)
		if _, err := tx.ExecContext(qCtx, deleteQuery, lease.DataSource, lease.GroupID, lease.Interval.Start, lease.Interval.End, lease.Version); err != nil {
			return fmt.Errorf("journal/postgres: delete empty posse: %w", err)
		}
		return tx.Commit()
	}

	updated, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("journal/postgres: marshal task ids: %w", err)
	}
	updateQuery := fmt.Sprintf(`UPDATE %s SET task_ids=$1 WHERE data_source=$2 AND group_id=$3 AND interval_start=$4 AND interval_end=$5 AND version=$6`, j.config.TableName)
	if _, err := tx.ExecContext(qCtx, updateQuery, string(updated), lease.DataSource, lease.GroupID, lease.Interval.Start, lease.Interval.End, lease.Version); err != nil {
		return fmt.Errorf("journal/postgres: update task ids: %w", err)
	}
	return tx.Commit()
}

func (j *Journal) MarkRevoked(ctx context.Context, lease lockservice.Lease) error {
	qCtx, cancel := j.withTimeout(ctx)
	defer cancel()
	query := fmt.Sprintf(`UPDATE %s SET revoked=true WHERE data_source=$1 AND group_id=$2 AND interval_start=$3 AND interval_end=$4 AND version=$5`, j.config.TableName)
	_, err := j.db.ExecContext(qCtx, query, lease.DataSource, lease.GroupID, lease.Interval.Start, lease.Interval.End, lease.Version)
	if err != nil {
		return fmt.Errorf("journal/postgres: mark revoked: %w", err)
	}
	return nil
}

func (j *Journal) LoadAll(ctx context.Context) ([]lockservice.TaskLockRecord, error) {
	qCtx, cancel := j.withTimeout(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT data_source, group_id, interval_start, interval_end, version, lock_type, granularity, priority, revoked, upgraded, task_ids, granted_at FROM %s`, j.config.TableName)
	rows, err := j.db.QueryContext(qCtx, query)
	if err != nil {
		return nil, fmt.Errorf("journal/postgres: load all: %w", err)
	}
	defer rows.Close()

	var records []lockservice.TaskLockRecord
	for rows.Next() {
		var (
			lease       lockservice.Lease
			lockType    string
			granularity string
			taskIDsJSON string
			grantedAt   time.Time
		)
		if err := rows.Scan(&lease.DataSource, &lease.GroupID, &lease.Interval.Start, &lease.Interval.End, &lease.Version, &lockType, &granularity, &lease.Priority, &lease.Revoked, &lease.Upgraded, &taskIDsJSON, &grantedAt); err != nil {
			return nil, fmt.Errorf("journal/postgres: scan row: %w", err)
		}
		lease.Type = lockservice.LockType(lockType)
		lease.Granularity = lockservice.LockGranularity(granularity)
		var taskIDs []string
		if err := json.Unmarshal([]byte(taskIDsJSON), &taskIDs); err != nil {
			return nil, fmt.Errorf("journal/postgres: unmarshal task ids: %w", err)
		}
		records = append(records, lockservice.TaskLockRecord{Lease: lease, TaskIDs: taskIDs, GrantedAt: grantedAt})
	}
	return records, rows.Err()
}

// Replace overwrites the lease's own mutable fields (lock_type, granularity,
// priority, revoked, upgraded) in place, leaving task_ids and granted_at
// untouched; used by Upgrade/Downgrade to persist the upgraded flag.
func (j *Journal) Replace(ctx context.Context, lease lockservice.Lease) error {
	qCtx, cancel := j.withTimeout(ctx)
	defer cancel()
	query := fmt.Sprintf(`UPDATE %s SET lock_type=$1, granularity=$2, priority=$3, revoked=$4, upgraded=$5 WHERE data_source=$6 AND group_id=$7 AND interval_start=$8 AND interval_end=$9 AND version=$10`, j.config.TableName)
	_, err := j.db.ExecContext(qCtx, query,
		string(lease.Type), string(lease.Granularity), lease.Priority, lease.Revoked, lease.Upgraded,
		lease.DataSource, lease.GroupID, lease.Interval.Start, lease.Interval.End, lease.Version)
	if err != nil {
		return fmt.Errorf("journal/postgres: replace: %w", err)
	}
	return nil
}
