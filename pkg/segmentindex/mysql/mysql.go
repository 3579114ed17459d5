// Package mysql implements lockservice.SegmentIndex against a MySQL table
// of published segments, using a pooled sql.DB connection.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Config holds MySQL connection settings for the segment index table.
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
		c.TableName = "published_segments"
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 5 * time.Second
	}
}

// Index is a lockservice.SegmentIndex backed by MySQL.
type Index struct {
	db     *sql.DB
	log    logger.Logger
	config Config
}

func New(cfg Config, log logger.Logger) (*Index, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("segmentindex/mysql: database url is required")
	}
	cfg.normalize()

	db, err := sql.Open("mysql", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/mysql: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("segmentindex/mysql: ping: %w", err)
	}

	log.Info("mysql segment index connection established", "table", cfg.TableName)
	return &Index{db: db, log: log, config: cfg}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

// HealthCheck pings the backing database connection, satisfying
// health.Checkable.
func (idx *Index) HealthCheck(ctx context.Context) error {
	return idx.db.PingContext(ctx)
}

func (idx *Index) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, idx.config.QueryTimeout)
}

// Publish records a newly committed segment, called by the task that just
// wrote it to deep storage.
func (idx *Index) Publish(ctx context.Context, summary lockservice.SegmentSummary) error {
	qCtx, cancel := idx.withTimeout(ctx)
	defer cancel()
	shardSpecJSON, err := json.Marshal(summary.ShardSpec)
	if err != nil {
		return fmt.Errorf("segmentindex/mysql: marshal shard spec: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (data_source, interval_start, interval_end, version, partition_id, shard_spec)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE shard_spec = VALUES(shard_spec)
`, idx.config.TableName)
	_, err = idx.db.ExecContext(qCtx, query, summary.DataSource, summary.Interval.Start, summary.Interval.End, summary.Version, summary.ShardSpec.PartitionID(), string(shardSpecJSON))
	if err != nil {
		return fmt.Errorf("segmentindex/mysql: publish: %w", err)
	}
	return nil
}

func (idx *Index) MaxShardSpec(ctx context.Context, dataSource string, interval lockservice.Interval) (lockservice.ShardSpec, bool, error) {
	qCtx, cancel := idx.withTimeout(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT shard_spec FROM %s WHERE data_source=? AND interval_start=? AND interval_end=? ORDER BY partition_id DESC LIMIT 1`, idx.config.TableName)
	var raw string
	err := idx.db.QueryRowContext(qCtx, query, dataSource, interval.Start, interval.End).Scan(&raw)
	if err == sql.ErrNoRows {
		return lockservice.ShardSpec{}, false, nil
	}
	if err != nil {
		return lockservice.ShardSpec{}, false, fmt.Errorf("segmentindex/mysql: max shard spec: %w", err)
	}
	var spec lockservice.ShardSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return lockservice.ShardSpec{}, false, fmt.Errorf("segmentindex/mysql: unmarshal shard spec: %w", err)
	}
	return spec, true, nil
}

func (idx *Index) ForInterval(ctx context.Context, dataSource string, interval lockservice.Interval) ([]lockservice.SegmentSummary, error) {
	qCtx, cancel := idx.withTimeout(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT version, shard_spec FROM %s WHERE data_source=? AND interval_start=? AND interval_end=?`, idx.config.TableName)
	rows, err := idx.db.QueryContext(qCtx, query, dataSource, interval.Start, interval.End)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/mysql: for interval: %w", err)
	}
	defer rows.Close()

	var out []lockservice.SegmentSummary
	for rows.Next() {
		var version, raw string
		if err := rows.Scan(&version, &raw); err != nil {
			return nil, fmt.Errorf("segmentindex/mysql: scan row: %w", err)
		}
		var spec lockservice.ShardSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, fmt.Errorf("segmentindex/mysql: unmarshal shard spec: %w", err)
		}
		out = append(out, lockservice.SegmentSummary{DataSource: dataSource, Interval: interval, Version: version, ShardSpec: spec})
	}
	return out, rows.Err()
}

func (idx *Index) OverlappingIntervals(ctx context.Context, dataSource string, query lockservice.Interval) ([]lockservice.Interval, error) {
	qCtx, cancel := idx.withTimeout(ctx)
	defer cancel()
	sqlQuery := fmt.Sprintf(`SELECT DISTINCT interval_start, interval_end FROM %s WHERE data_source=? AND interval_start < ? AND interval_end > ?`, idx.config.TableName)
	rows, err := idx.db.QueryContext(qCtx, sqlQuery, dataSource, query.End, query.Start)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/mysql: overlapping intervals: %w", err)
	}
	defer rows.Close()

	var out []lockservice.Interval
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("segmentindex/mysql: scan interval: %w", err)
		}
		iv, err := lockservice.NewInterval(start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
