package lockservice

import (
	"hash/fnv"
)

// Row is the minimal view of an ingested record the partitioning layer
// needs: the dimension values a hashed or single_dim scheme partitions on.
// Timestamp selects which interval bucket (and hence which PartitionAnalysis)
// the row belongs to; Dimensions carries the partition key columns in the
// order the shard spec was built with.
type Row struct {
	Timestamp  int64 // epoch millis, matching the wire contract in segmentindex
	Dimensions map[string]string
}

// PartitionAnalysis is the resolved view of how a single interval's rows map
// onto partitions, built once per interval from the completed ShardSpecs
// seen so far and reused across many Route calls.
type PartitionAnalysis struct {
	Interval  Interval
	SpecType  ShardSpecType
	specs     []ShardSpec
	boundaries *PartitionBoundaries
}

// NewPartitionAnalysis builds a PartitionAnalysis for an interval from its
// full set of completed ShardSpecs. All specs must share a Type.
func NewPartitionAnalysis(interval Interval, specs []ShardSpec) (*PartitionAnalysis, error) {
	if len(specs) == 0 {
		return &PartitionAnalysis{Interval: interval}, nil
	}
	typ := specs[0].Type
	for _, s := range specs {
		if s.Type != typ {
			return nil, lockserviceErrorf(ErrShardSpecIncompatible, "mixed shard spec types %s and %s within one interval", typ, s.Type)
		}
	}
	pa := &PartitionAnalysis{Interval: interval, SpecType: typ, specs: specs}
	if typ == ShardSpecSingleDim {
		boundaries, err := NewPartitionBoundaries(specs[0].Dimension, specs)
		if err != nil {
			return nil, err
		}
		pa.boundaries = boundaries
	}
	return pa, nil
}

// Route resolves the ShardSpec that owns row, consistent with how the
// partitions were originally minted.
func (pa *PartitionAnalysis) Route(row Row) (ShardSpec, error) {
	if len(pa.specs) == 0 {
		return ShardSpec{}, lockserviceError(ErrShardSpecIncompatible, "no partitions minted for interval")
	}
	switch pa.SpecType {
	case ShardSpecHashed:
		return pa.routeHashed(row)
	case ShardSpecSingleDim:
		return pa.routeSingleDim(row)
	default:
		// Linear/numbered/numbered_overwrite partitions are not
		// content-routed; callers pick the partition explicitly, so the
		// only sane default is the sole or first-minted partition.
		return pa.specs[0], nil
	}
}

func (pa *PartitionAnalysis) routeHashed(row Row) (ShardSpec, error) {
	spec := pa.specs[0]
	bucket := hashBucket(spec.PartitionDims, row, spec.NumBuckets)
	for _, s := range pa.specs {
		if s.BucketID == bucket {
			return s, nil
		}
	}
	return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "no partition minted for hash bucket %d", bucket)
}

// hashBucket computes hash(dims, row) mod numBuckets, the single
// implementation both partition routing (above) and the segment allocator
// use, so a row always lands in the same bucket whether it's being routed
// against already-minted partitions or driving the allocation of a new one.
// When dims is empty every dimension value is hashed, in map iteration
// order; callers that need this path to be deterministic should always
// name PartitionDims explicitly.
func hashBucket(dims []string, row Row, numBuckets int) int {
	h := fnv.New64a()
	if len(dims) == 0 {
		for _, v := range row.Dimensions {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
	} else {
		for _, d := range dims {
			h.Write([]byte(row.Dimensions[d]))
			h.Write([]byte{0})
		}
	}
	return int(h.Sum64() % uint64(numBuckets))
}

func (pa *PartitionAnalysis) routeSingleDim(row Row) (ShardSpec, error) {
	value := row.Dimensions[pa.boundaries.Dimension]
	spec, ok := pa.boundaries.Locate(value)
	if !ok {
		return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "no partition covers dimension value %q", value)
	}
	return spec, nil
}
