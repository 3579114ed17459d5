package lockservice

import "sort"

// PreviewRequest previews how a batch of sample rows would be partitioned
// under a candidate PartialShardSpec, without granting a lease or minting
// any real ShardSpec. It exists so an ingestion spec can be validated
// against representative data before a real task ever calls the allocator.
type PreviewRequest struct {
	PartialShardSpec    PartialShardSpec
	Rows                 []Row
	TargetRowsPerSegment int // used only for single_dim sampling
}

// PreviewPartitionResult reports how many sample rows would land in one
// candidate partition.
type PreviewPartitionResult struct {
	ShardSpec ShardSpec
	RowCount  int
}

// PartitionPreviewer previews partitioning decisions over sample data: a
// what-if tool distinct from Sampler, which answers "what would ingesting
// this data actually produce" rather than "how would these rows split
// across a candidate scheme".
type PartitionPreviewer struct{}

func NewPartitionPreviewer() *PartitionPreviewer { return &PartitionPreviewer{} }

// Preview buckets req.Rows the same way the allocator eventually would,
// returning per-partition row counts.
func (p *PartitionPreviewer) Preview(req PreviewRequest) ([]PreviewPartitionResult, error) {
	switch req.PartialShardSpec.Type {
	case ShardSpecHashed:
		return p.previewHashed(req)
	case ShardSpecSingleDim:
		return p.previewSingleDim(req)
	case ShardSpecNumbered, ShardSpecNumberedOverwrite:
		return []PreviewPartitionResult{{
			ShardSpec: ShardSpec{Type: req.PartialShardSpec.Type},
			RowCount:  len(req.Rows),
		}}, nil
	default:
		return nil, lockserviceErrorf(ErrShardSpecIncompatible, "preview does not support %q", req.PartialShardSpec.Type)
	}
}

func (p *PartitionPreviewer) previewHashed(req PreviewRequest) ([]PreviewPartitionResult, error) {
	numBuckets := req.PartialShardSpec.NumBuckets
	if numBuckets <= 0 {
		numBuckets = 1
	}
	analysis, err := NewPartitionAnalysis(Interval{}, bucketedHashSpecs(numBuckets, req.PartialShardSpec.PartitionDims))
	if err != nil {
		return nil, err
	}
	counts := make([]int, numBuckets)
	for _, row := range req.Rows {
		spec, err := analysis.Route(row)
		if err != nil {
			return nil, err
		}
		counts[spec.BucketID]++
	}
	out := make([]PreviewPartitionResult, numBuckets)
	for i := range counts {
		out[i] = PreviewPartitionResult{ShardSpec: ShardSpec{Type: ShardSpecHashed, PartitionNum: i, BucketID: i, NumBuckets: numBuckets, PartitionDims: req.PartialShardSpec.PartitionDims}, RowCount: counts[i]}
	}
	return out, nil
}

func bucketedHashSpecs(numBuckets int, dims []string) []ShardSpec {
	specs := make([]ShardSpec, numBuckets)
	for i := range specs {
		specs[i] = ShardSpec{Type: ShardSpecHashed, PartitionNum: i, BucketID: i, NumBuckets: numBuckets, PartitionDims: dims}
	}
	return specs
}

// previewSingleDim sorts the sample rows by the target dimension and cuts
// evenly sized groups of TargetRowsPerSegment, mirroring how Druid's
// single-dimension partitioning picks split points from sampled data.
func (p *PartitionPreviewer) previewSingleDim(req PreviewRequest) ([]PreviewPartitionResult, error) {
	dim := req.PartialShardSpec.Dimension
	target := req.TargetRowsPerSegment
	if target <= 0 {
		target = len(req.Rows)
		if target == 0 {
			target = 1
		}
	}
	values := make([]string, 0, len(req.Rows))
	for _, row := range req.Rows {
		values = append(values, row.Dimensions[dim])
	}
	sort.Strings(values)

	var results []PreviewPartitionResult
	for i := 0; i < len(values); i += target {
		end := i + target
		if end > len(values) {
			end = len(values)
		}
		chunk := values[i:end]
		spec := ShardSpec{Type: ShardSpecSingleDim, PartitionNum: len(results), Dimension: dim, Start: chunk[0]}
		if end < len(values) {
			spec.End = values[end]
		}
		results = append(results, PreviewPartitionResult{ShardSpec: spec, RowCount: len(chunk)})
	}
	if len(results) == 0 {
		results = append(results, PreviewPartitionResult{ShardSpec: ShardSpec{Type: ShardSpecSingleDim, Dimension: dim}, RowCount: 0})
	}
	// Open the first partition's Start and the last partition's End, the
	// same -infinity/+infinity convention PartitionBoundaries uses.
	results[0].ShardSpec.Start = ""
	results[len(results)-1].ShardSpec.End = ""
	return results, nil
}
