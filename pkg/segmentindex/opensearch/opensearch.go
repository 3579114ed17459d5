// Package opensearch implements lockservice.SegmentIndex against an
// OpenSearch index of published segments, used when a deployment already
// indexes segment metadata for historical-tier discovery queries there.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	opensearchsdk "github.com/opensearch-project/opensearch-go/v2"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Config holds OpenSearch connection settings for the segment index.
type Config struct {
	Addresses        []string
	Username         string
	Password         string
	IndexName        string
	MaxConns         int
	OperationTimeout time.Duration
}

func (c *Config) normalize() {
	if c.IndexName == "" {
		c.IndexName = "lockservice-segments"
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 5 * time.Second
	}
}

// Index is a lockservice.SegmentIndex backed by OpenSearch.
type Index struct {
	client *opensearchsdk.Client
	log    logger.Logger
	config Config
}

func New(cfg Config, log logger.Logger) (*Index, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("segmentindex/opensearch: at least one address is required")
	}
	cfg.normalize()

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxConns,
		MaxIdleConnsPerHost: cfg.MaxConns,
		MaxConnsPerHost:     cfg.MaxConns,
		IdleConnTimeout:     90 * time.Second,
	}
	client, err := opensearchsdk.NewClient(opensearchsdk.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: new client: %w", err)
	}

	idx := &Index{client: client, log: log, config: cfg}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout)
	defer cancel()
	if err := idx.ping(ctx); err != nil {
		return nil, err
	}
	log.Info("opensearch segment index initialized", "index", cfg.IndexName)
	return idx, nil
}

// HealthCheck pings the backing OpenSearch cluster, satisfying
// health.Checkable.
func (idx *Index) HealthCheck(ctx context.Context) error {
	return idx.ping(ctx)
}

func (idx *Index) ping(ctx context.Context) error {
	res, err := idx.client.Ping(idx.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("segmentindex/opensearch: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("segmentindex/opensearch: ping returned status %s", res.Status())
	}
	return nil
}

type segmentDoc struct {
	DataSource    string                `json:"dataSource"`
	IntervalStart time.Time             `json:"intervalStart"`
	IntervalEnd   time.Time             `json:"intervalEnd"`
	Version       string                `json:"version"`
	ShardSpec     lockservice.ShardSpec `json:"shardSpec"`
}

// Publish indexes a newly committed segment document.
func (idx *Index) Publish(ctx context.Context, summary lockservice.SegmentSummary) error {
	doc := segmentDoc{
		DataSource:    summary.DataSource,
		IntervalStart: summary.Interval.Start,
		IntervalEnd:   summary.Interval.End,
		Version:       summary.Version,
		ShardSpec:     summary.ShardSpec,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("segmentindex/opensearch: marshal document: %w", err)
	}
	docID := fmt.Sprintf("%s_%s_%s_%d", summary.DataSource, summary.Interval.String(), summary.Version, summary.ShardSpec.PartitionID())
	res, err := idx.client.Index(
		idx.config.IndexName,
		bytes.NewReader(body),
		idx.client.Index.WithDocumentID(docID),
		idx.client.Index.WithContext(ctx),
		idx.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("segmentindex/opensearch: index document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("segmentindex/opensearch: index returned status %s", res.Status())
	}
	return nil
}

func (idx *Index) search(ctx context.Context, dataSource string, interval lockservice.Interval) ([]segmentDoc, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"dataSource": dataSource}},
					{"term": map[string]any{"intervalStart": interval.Start.Format(time.RFC3339Nano)}},
					{"term": map[string]any{"intervalEnd": interval.End.Format(time.RFC3339Nano)}},
				},
			},
		},
		"size": 1000,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: marshal query: %w", err)
	}

	res, err := idx.client.Search(
		idx.client.Search.WithContext(ctx),
		idx.client.Search.WithIndex(idx.config.IndexName),
		idx.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("segmentindex/opensearch: search returned status %s", res.Status())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: read response: %w", err)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source segmentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: unmarshal response: %w", err)
	}

	docs := make([]segmentDoc, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

func (idx *Index) MaxShardSpec(ctx context.Context, dataSource string, interval lockservice.Interval) (lockservice.ShardSpec, bool, error) {
	docs, err := idx.search(ctx, dataSource, interval)
	if err != nil {
		return lockservice.ShardSpec{}, false, err
	}
	var (
		best  lockservice.ShardSpec
		found bool
	)
	for _, d := range docs {
		if !found || d.ShardSpec.PartitionID() > best.PartitionID() {
			best = d.ShardSpec
			found = true
		}
	}
	return best, found, nil
}

func (idx *Index) ForInterval(ctx context.Context, dataSource string, interval lockservice.Interval) ([]lockservice.SegmentSummary, error) {
	docs, err := idx.search(ctx, dataSource, interval)
	if err != nil {
		return nil, err
	}
	out := make([]lockservice.SegmentSummary, 0, len(docs))
	for _, d := range docs {
		iv, err := lockservice.NewInterval(d.IntervalStart, d.IntervalEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, lockservice.SegmentSummary{DataSource: d.DataSource, Interval: iv, Version: d.Version, ShardSpec: d.ShardSpec})
	}
	return out, nil
}

func (idx *Index) OverlappingIntervals(ctx context.Context, dataSource string, query lockservice.Interval) ([]lockservice.Interval, error) {
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"dataSource": dataSource}},
					{"range": map[string]any{"intervalStart": map[string]any{"lt": query.End.Format(time.RFC3339Nano)}}},
					{"range": map[string]any{"intervalEnd": map[string]any{"gt": query.Start.Format(time.RFC3339Nano)}}},
				},
			},
		},
		"size": 1000,
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: marshal query: %w", err)
	}
	res, err := idx.client.Search(
		idx.client.Search.WithContext(ctx),
		idx.client.Search.WithIndex(idx.config.IndexName),
		idx.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("segmentindex/opensearch: search returned status %s", res.Status())
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source segmentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("segmentindex/opensearch: unmarshal response: %w", err)
	}
	seen := make(map[string]lockservice.Interval)
	for _, hit := range parsed.Hits.Hits {
		iv, err := lockservice.NewInterval(hit.Source.IntervalStart, hit.Source.IntervalEnd)
		if err != nil {
			continue
		}
		seen[iv.String()] = iv
	}
	out := make([]lockservice.Interval, 0, len(seen))
	for _, iv := range seen {
		out = append(out, iv)
	}
	return out, nil
}
