// Command lockctl is an operator CLI for the lock and allocation service:
// it can force a journal resync, list the active leases for a data source
// or task, dry-run a partitioning scheme against sample rows before any
// real task ever calls the allocator, and serve the read-only lock/task
// HTTP surface.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/druidlock/lockservice/pkg/api"
	"github.com/druidlock/lockservice/pkg/catalog/dynamodb"
	catalogmem "github.com/druidlock/lockservice/pkg/catalog/inmemory"
	"github.com/druidlock/lockservice/pkg/config"
	"github.com/druidlock/lockservice/pkg/eventbus/factory"
	"github.com/druidlock/lockservice/pkg/health"
	"github.com/druidlock/lockservice/pkg/journal/postgres"
	journalmem "github.com/druidlock/lockservice/pkg/journal/inmemory"
	"github.com/druidlock/lockservice/pkg/journal/redis"
	"github.com/druidlock/lockservice/pkg/journal/resilient"
	"github.com/druidlock/lockservice/pkg/lockevents"
	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/middleware/openapivalidation"
	"github.com/druidlock/lockservice/pkg/observability/logger"
	"github.com/druidlock/lockservice/pkg/segmentindex/inmemory"
	"github.com/druidlock/lockservice/pkg/segmentindex/mysql"
	"github.com/druidlock/lockservice/pkg/segmentindex/opensearch"
	segmentresilient "github.com/druidlock/lockservice/pkg/segmentindex/resilient"
	routerfactory "github.com/druidlock/lockservice/pkg/server/router/factory"
	"github.com/druidlock/lockservice/pkg/version"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "lockctl",
		Short: "Operate the lock and allocation service",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (optional, env vars override it)")
	root.AddCommand(newSyncCommand(), newLocksCommand(), newSampleCommand(), newHealthCommand(), newVersionCommand(), newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the lockbox from its journal before serving traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()
			env.log.Info("sync complete")
			return nil
		},
	}
}

func newLocksCommand() *cobra.Command {
	var forTask bool
	cmd := &cobra.Command{
		Use:   "locks <dataSource-or-taskId>",
		Short: "List active leases for a data source, or with --task for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			var leases []lockservice.Lease
			if forTask {
				leases = env.lockbox.FindLocksForTask(args[0])
			} else {
				leases = env.lockbox.AllLocks()[args[0]]
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leases)
		},
	}
	cmd.Flags().BoolVar(&forTask, "task", false, "look up leases held by a task id instead of a data source")
	return cmd
}

// sampleFile is the on-disk shape a sample command reads: a candidate
// partial shard spec plus the rows to preview it against.
type sampleFile struct {
	PartialShardSpec     lockservice.PartialShardSpec `json:"partialShardSpec"`
	TargetRowsPerSegment int                          `json:"targetRowsPerSegment"`
	Rows                 []sampleRow                  `json:"rows"`
}

type sampleRow struct {
	Timestamp  int64             `json:"timestamp"`
	Dimensions map[string]string `json:"dimensions"`
}

func newSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <file>",
		Short: "Preview how sample rows would partition under a candidate shard spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read sample file: %w", err)
			}
			return runSample(os.Stdout, raw)
		},
	}
}

// runSample parses a sample file's bytes and writes the partition preview
// to w, split out from newSampleCommand so it can be exercised directly.
func runSample(w io.Writer, raw []byte) error {
	var sf sampleFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse sample file: %w", err)
	}

	rows := make([]lockservice.Row, 0, len(sf.Rows))
	for _, r := range sf.Rows {
		rows = append(rows, lockservice.Row{Timestamp: r.Timestamp, Dimensions: r.Dimensions})
	}

	previewer := lockservice.NewPartitionPreviewer()
	results, err := previewer.Preview(lockservice.PreviewRequest{
		PartialShardSpec:     sf.PartialShardSpec,
		Rows:                 rows,
		TargetRowsPerSegment: sf.TargetRowsPerSegment,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the configured journal, catalog, and segment index backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			registry := health.NewRegistry()
			for name, checkable := range env.checkables {
				registry.Register(health.NewAdapterChecker(name, checkable, 5*time.Second))
			}
			result := registry.Check(cmd.Context())

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if result.Status != health.StatusHealthy {
				return fmt.Errorf("one or more backends are unhealthy")
			}
			return nil
		},
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only lock/task HTTP surface until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			r, err := routerfactory.NewRouter(env.cfg.RouterType)
			if err != nil {
				return fmt.Errorf("build router: %w", err)
			}
			handler := api.NewHandler(env.lockbox, env.log)
			if env.cfg.Swagger.Enabled {
				if err := handler.RegisterValidated(r, env.cfg.Swagger.SpecPath, openapivalidation.ValidationModeWarnOnly); err != nil {
					return fmt.Errorf("register validated routes: %w", err)
				}
			} else {
				handler.Register(r)
			}

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", env.cfg.HTTP.Port),
				Handler:      r,
				ReadTimeout:  env.cfg.HTTP.ReadTimeout,
				WriteTimeout: env.cfg.HTTP.WriteTimeout,
				IdleTimeout:  env.cfg.HTTP.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				env.log.Info("serving lock surface", "addr", srv.Addr)
				serveErr <- srv.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				env.log.Info("shutting down lock surface")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Current("lockctl"))
		},
	}
}

// environment bundles the wiring a command needs, built fresh per
// invocation from configuration rather than kept as long-lived globals.
type environment struct {
	lockbox    *lockservice.Lockbox
	allocator  *lockservice.SegmentAllocator
	log        logger.Logger
	closers    []func() error
	checkables map[string]health.Checkable
	cfg        *config.Config
}

func (e *environment) close() {
	for _, c := range e.closers {
		_ = c()
	}
}

func buildEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.NewViperLoader(configPath, "LOCKCTL").Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewZapLogger(logger.Config{
		Level:  logger.LogLevel(cfg.Observability.LogLevel),
		Format: logger.LogFormat(cfg.Observability.LogFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	lsCfg := cfg.LockService
	env := &environment{log: log, checkables: make(map[string]health.Checkable), cfg: cfg}

	journal, journalCheck, err := buildJournal(lsCfg, log)
	if err != nil {
		return nil, err
	}
	catalog, catalogCheck, err := buildCatalog(ctx, lsCfg, log)
	if err != nil {
		return nil, err
	}
	index, indexCheck, err := buildSegmentIndex(lsCfg, log)
	if err != nil {
		return nil, err
	}
	env.checkables["journal"] = journalCheck
	env.checkables["catalog"] = catalogCheck
	env.checkables["segmentIndex"] = indexCheck

	lockbox, err := lockservice.NewLockbox(lockservice.Config{
		GrantWaitTimeout:            lsCfg.GrantWaitTimeout,
		MaxActiveLocksPerDataSource: lsCfg.MaxActiveLocksPerSource,
		VersionClockSkewGuard:       lsCfg.VersionClockSkewGuard,
	}, journal, catalog, nil, log)
	if err != nil {
		return nil, fmt.Errorf("build lockbox: %w", err)
	}

	if lsCfg.EventsEnabled {
		bus, err := factory.NewEventBusAdapter(cfg.EventBus, log)
		if err != nil {
			return nil, fmt.Errorf("build event bus: %w", err)
		}
		lockbox.SetEventSink(lockevents.NewPublisher(bus, lsCfg.EventsTopic, log))
		env.closers = append(env.closers, func() error { return bus.Close() })
	}

	syncCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := lockbox.Sync(syncCtx); err != nil {
		return nil, fmt.Errorf("sync lockbox: %w", err)
	}

	env.lockbox = lockbox
	env.allocator = lockservice.NewSegmentAllocator(index, lockbox)
	return env, nil
}

// buildJournal returns the journal wrapped for use by the lockbox (with
// the circuit breaker applied for remote backends) alongside the
// unwrapped adapter for health checking, since the breaker itself carries
// no notion of backend connectivity.
func buildJournal(cfg config.LockServiceConfig, log logger.Logger) (lockservice.Journal, health.Checkable, error) {
	switch cfg.JournalBackend {
	case config.JournalBackendRedis:
		j, err := redis.New(redis.Config{
			URL:              cfg.Redis.URL,
			Prefix:           cfg.Redis.Prefix,
			OperationTimeout: cfg.Redis.OperationTimeout,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("build redis journal: %w", err)
		}
		return resilient.New(j, 5, cfg.Redis.OperationTimeout), j, nil
	case config.JournalBackendPostgres:
		j, err := postgres.New(postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			QueryTimeout:    cfg.Postgres.QueryTimeout,
			TableName:       cfg.Postgres.TableName,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("build postgres journal: %w", err)
		}
		return resilient.New(j, 5, cfg.Postgres.QueryTimeout), j, nil
	default:
		j := journalmem.New()
		return j, j, nil
	}
}

func buildCatalog(ctx context.Context, cfg config.LockServiceConfig, log logger.Logger) (lockservice.TaskCatalog, health.Checkable, error) {
	switch cfg.CatalogBackend {
	case config.CatalogBackendDynamoDB:
		c, err := dynamodb.New(ctx, dynamodb.Config{
			Region:           cfg.DynamoDB.Region,
			Endpoint:         cfg.DynamoDB.Endpoint,
			AccessKeyID:      cfg.DynamoDB.AccessKeyID,
			SecretAccessKey:  cfg.DynamoDB.SecretAccessKey,
			SessionToken:     cfg.DynamoDB.SessionToken,
			TableName:        cfg.DynamoDB.TableName,
			OperationTimeout: cfg.DynamoDB.OperationTimeout,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("build dynamodb catalog: %w", err)
		}
		return c, c, nil
	default:
		c := catalogmem.New()
		return c, c, nil
	}
}

func buildSegmentIndex(cfg config.LockServiceConfig, log logger.Logger) (lockservice.SegmentIndex, health.Checkable, error) {
	switch cfg.SegmentIndexBackend {
	case config.SegmentIndexBackendMySQL:
		idx, err := mysql.New(mysql.Config{
			URL:             cfg.MySQL.URL,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			QueryTimeout:    cfg.MySQL.QueryTimeout,
			TableName:       cfg.MySQL.TableName,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("build mysql segment index: %w", err)
		}
		return segmentresilient.New(idx, cfg.MySQL.QueryTimeout), idx, nil
	case config.SegmentIndexBackendOpenSearch:
		idx, err := opensearch.New(opensearch.Config{
			Addresses:        cfg.OpenSearch.Addresses,
			Username:         cfg.OpenSearch.Username,
			Password:         cfg.OpenSearch.Password,
			IndexName:        cfg.OpenSearch.IndexName,
			MaxConns:         cfg.OpenSearch.MaxConns,
			OperationTimeout: cfg.OpenSearch.OperationTimeout,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("build opensearch segment index: %w", err)
		}
		return segmentresilient.New(idx, cfg.OpenSearch.OperationTimeout), idx, nil
	default:
		idx := inmemory.New()
		return idx, idx, nil
	}
}
