package lockservice

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// InputSource yields the raw, unparsed rows a Sampler reads from, mirroring
// Druid's pluggable sampler input sources (inline, local file, and so on)
// without committing to any one of them.
type InputSource interface {
	Rows(ctx context.Context) ([]string, error)
}

// InlineInputSource is an InputSource over rows supplied directly in the
// request, the shape the lockctl CLI and tests use to preview a schema
// against a handful of representative rows.
type InlineInputSource struct {
	Lines []string
}

func (s InlineInputSource) Rows(ctx context.Context) ([]string, error) {
	return s.Lines, nil
}

// InputFormat parses one raw row into its field values.
type InputFormat interface {
	Parse(raw string) (map[string]any, error)
}

// JSONInputFormat parses each raw row as a single JSON object.
type JSONInputFormat struct{}

func (JSONInputFormat) Parse(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// TimestampSpec names which parsed field carries the row's timestamp and
// how to read it. An empty Format means the column already holds epoch
// millis; "iso" parses it as RFC3339.
type TimestampSpec struct {
	Column string
	Format string
}

func (ts TimestampSpec) resolve(fields map[string]any) (int64, error) {
	raw, ok := fields[ts.Column]
	if !ok {
		return 0, lockserviceErrorf(ErrUnparseableRow, "missing timestamp column %q", ts.Column)
	}
	switch ts.Format {
	case "iso":
		s, ok := raw.(string)
		if !ok {
			return 0, lockserviceErrorf(ErrUnparseableRow, "timestamp column %q is not a string", ts.Column)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, lockserviceErrorf(ErrUnparseableRow, "parse iso timestamp %q: %v", s, err)
		}
		return t.UnixMilli(), nil
	default:
		switch v := raw.(type) {
		case float64:
			return int64(v), nil
		case string:
			millis, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, lockserviceErrorf(ErrUnparseableRow, "parse millis timestamp %q: %v", v, err)
			}
			return millis, nil
		default:
			return 0, lockserviceErrorf(ErrUnparseableRow, "timestamp column %q has unsupported type %T", ts.Column, raw)
		}
	}
}

// Transform derives a new field from an existing one, applied before
// dimension extraction so a dimension can reference a transform's output
// by name. Upper uppercases the source value; with Upper false the
// transform is a plain rename/copy.
type Transform struct {
	Name   string
	Field  string
	Upper  bool
}

func (t Transform) apply(fields map[string]any) {
	v, ok := fields[t.Field]
	if !ok {
		return
	}
	if t.Upper {
		if s, ok := v.(string); ok {
			fields[t.Name] = strings.ToUpper(s)
			return
		}
	}
	fields[t.Name] = v
}

// RowFilter excludes a row from indexing when its Dimension does not equal
// Value.
type RowFilter struct {
	Dimension string
	Value     string
}

func (f RowFilter) matches(fields map[string]any) bool {
	v, ok := fields[f.Dimension]
	if !ok {
		return false
	}
	return toString(v) == f.Value
}

// Aggregator combines FieldName across rows sharing a rollup key.
// Type "count" ignores FieldName and counts contributing rows; "doubleSum"
// sums FieldName's numeric value.
type Aggregator struct {
	Name      string
	FieldName string
	Type      string
}

// DataSchema mirrors the optional ingestion schema a sample call can supply:
// absent, the sampler reports each row's raw text with an
// unparseable-timestamp error and indexes nothing. Present, it drives timestamp resolution, the transform and
// filter passes, dimension selection, and rollup combination the same way
// a real ingestion task's schema would.
type DataSchema struct {
	TimestampSpec TimestampSpec
	Dimensions    []string // empty means every non-timestamp field is a dimension
	Transforms    []Transform
	Filter        *RowFilter
	Rollup        bool
	Aggregators   []Aggregator
}

func (ds *DataSchema) extractDimensions(fields map[string]any) map[string]string {
	out := make(map[string]string)
	if len(ds.Dimensions) == 0 {
		for k, v := range fields {
			if k == ds.TimestampSpec.Column {
				continue
			}
			out[k] = toString(v)
		}
		return out
	}
	for _, d := range ds.Dimensions {
		out[d] = toString(fields[d])
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// SamplerConfig bounds how much of an InputSource a Sample call reads.
type SamplerConfig struct {
	NumRows int
}

// SampledRow reports the outcome of reading and, if a DataSchema was
// supplied, indexing one raw row.
type SampledRow struct {
	Raw         string            `json:"raw"`
	Parsed      map[string]any    `json:"parsed,omitempty"`
	Dimensions  map[string]string `json:"dimensions,omitempty"`
	Error       string            `json:"error,omitempty"`
	Unparseable bool              `json:"unparseable"`
}

// SamplerResponse is sample's result: how many rows were read from the
// input source versus how many would actually be indexed, plus a
// per-row breakdown.
type SamplerResponse struct {
	NumRowsRead    int          `json:"numRowsRead"`
	NumRowsIndexed int          `json:"numRowsIndexed"`
	Data           []SampledRow `json:"data"`
}

// Sampler previews what ingesting an InputSource would actually produce:
// which rows fail to parse, which fail timestamp resolution, which are
// excluded by a filter, and what the rest would look like once transformed,
// dimensioned and (if the schema rolls up) combined. It never acquires a
// lease or mints a ShardSpec; it is a dry run over raw data, not over a
// partitioning scheme (that's PartitionPreviewer's job).
type Sampler struct{}

func NewSampler() *Sampler { return &Sampler{} }

// Sample reads up to config.NumRows rows (or all of them, if NumRows is
// zero) from source, parsing each with format. When schema is nil, every
// row is reported with its raw text only, flagged unparseable with an
// unparseable-timestamp error, and no row is counted as indexed.
func (s *Sampler) Sample(ctx context.Context, source InputSource, format InputFormat, schema *DataSchema, config *SamplerConfig) (*SamplerResponse, error) {
	raw, err := source.Rows(ctx)
	if err != nil {
		return nil, err
	}
	limit := len(raw)
	if config != nil && config.NumRows > 0 && config.NumRows < limit {
		limit = config.NumRows
	}

	resp := &SamplerResponse{}
	type rollupEntry struct {
		row   *SampledRow
		sums  map[string]float64
		count int
	}
	rolled := make(map[string]*rollupEntry)

	for _, line := range raw[:limit] {
		resp.NumRowsRead++

		fields, err := format.Parse(line)
		if err != nil {
			resp.Data = append(resp.Data, SampledRow{
				Raw:         line,
				Error:       lockserviceErrorf(ErrUnparseableRow, "parse row: %v", err).Error(),
				Unparseable: true,
			})
			continue
		}

		if schema == nil {
			resp.Data = append(resp.Data, SampledRow{
				Raw:         line,
				Error:       lockserviceError(ErrUnparseableRow, "unparseable timestamp: no dataSchema supplied").Error(),
				Unparseable: true,
			})
			continue
		}

		ts, err := schema.TimestampSpec.resolve(fields)
		if err != nil {
			resp.Data = append(resp.Data, SampledRow{Raw: line, Parsed: fields, Error: err.Error(), Unparseable: true})
			continue
		}

		for _, t := range schema.Transforms {
			t.apply(fields)
		}

		if schema.Filter != nil && !schema.Filter.matches(fields) {
			resp.Data = append(resp.Data, SampledRow{Raw: line, Parsed: fields})
			continue
		}

		dims := schema.extractDimensions(fields)
		sampled := SampledRow{Raw: line, Parsed: fields, Dimensions: dims}

		if !schema.Rollup {
			resp.Data = append(resp.Data, sampled)
			resp.NumRowsIndexed++
			continue
		}

		key := rollupKey(ts, dims)
		entry, seen := rolled[key]
		if !seen {
			entry = &rollupEntry{row: &sampled, sums: make(map[string]float64)}
			rolled[key] = entry
			resp.Data = append(resp.Data, sampled)
			resp.NumRowsIndexed++
		}
		entry.count++
		for _, agg := range schema.Aggregators {
			if agg.Type != "doubleSum" {
				continue
			}
			if v, ok := fields[agg.FieldName].(float64); ok {
				entry.sums[agg.Name] += v
			}
		}
	}

	for _, entry := range rolled {
		for _, agg := range schema.Aggregators {
			switch agg.Type {
			case "count":
				entry.row.Parsed[agg.Name] = entry.count
			case "doubleSum":
				entry.row.Parsed[agg.Name] = entry.sums[agg.Name]
			}
		}
	}

	return resp, nil
}

func rollupKey(timestampMillis int64, dims map[string]string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(timestampMillis, 10))
	for _, k := range sortedKeys(dims) {
		b.WriteByte('\x00')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(dims[k])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
