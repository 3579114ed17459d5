package lockservice

// PartialShardSpec carries everything an ingestion task knows about its
// desired partitioning before it has seen the previous maximum partition id
// for the interval being allocated into. Complete() resolves it into a
// concrete ShardSpec once that previous-maximum is known.
type PartialShardSpec struct {
	Type ShardSpecType `json:"type"`

	// Hashed.
	NumBuckets    int      `json:"numBuckets,omitempty"`
	PartitionDims []string `json:"partitionDimensions,omitempty"`
	BucketID      int      `json:"bucketId,omitempty"`

	// SingleDim.
	Dimension string `json:"dimension,omitempty"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`

	// NumberedOverwrite.
	AtomicUpdateGroupSize int `json:"atomicUpdateGroupSize,omitempty"`
	StartRootPartitionID  int `json:"startRootPartitionId,omitempty"`
	EndRootPartitionID    int `json:"endRootPartitionId,omitempty"`
}

// Complete resolves p into a concrete ShardSpec. prev is the highest
// ShardSpec previously allocated for the same (dataSource, interval, version
// lineage), or nil if p is the first partition minted for it.
func (p PartialShardSpec) Complete(prev *ShardSpec) (ShardSpec, error) {
	switch p.Type {
	case ShardSpecNumbered:
		return p.completeNumbered(prev)
	case ShardSpecHashed:
		return p.completeHashed(prev)
	case ShardSpecSingleDim:
		return p.completeSingleDim(prev)
	case ShardSpecNumberedOverwrite:
		return p.completeNumberedOverwrite(prev)
	default:
		return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "unsupported partial shard spec type %q", p.Type)
	}
}

func (p PartialShardSpec) completeNumbered(prev *ShardSpec) (ShardSpec, error) {
	next := 0
	if prev != nil {
		if prev.Type != ShardSpecNumbered && prev.Type != ShardSpecLinear {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "cannot mint a numbered partition after existing %s partition", prev.Type)
		}
		next = prev.PartitionNum + 1
	}
	return ShardSpec{Type: ShardSpecNumbered, PartitionNum: next}, nil
}

// completeHashed assigns partitionNum = the smallest integer that is both
// >= prev.PartitionNum+1 and congruent to p.BucketID modulo numBuckets, so
// every minted partition's number still reveals its bucket on inspection
// (partitionNum mod numBuckets == bucketId) even after many partitions
// have accumulated for the interval.
func (p PartialShardSpec) completeHashed(prev *ShardSpec) (ShardSpec, error) {
	numBuckets := p.NumBuckets
	if numBuckets <= 0 {
		return ShardSpec{}, lockserviceErrorf(ErrUnsupportedCombination, "numBuckets must be positive, got %d", numBuckets)
	}
	bucketID := ((p.BucketID % numBuckets) + numBuckets) % numBuckets
	partitionNum := bucketID
	if prev != nil {
		if prev.Type != ShardSpecHashed {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "cannot mint a hashed partition after existing %s partition", prev.Type)
		}
		if prev.NumBuckets != 0 && prev.NumBuckets != numBuckets {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "numBuckets changed from %d to %d mid-interval", prev.NumBuckets, numBuckets)
		}
		floor := prev.PartitionNum + 1
		partitionNum = floor + (((bucketID-floor)%numBuckets)+numBuckets)%numBuckets
	}
	return ShardSpec{
		Type:          ShardSpecHashed,
		PartitionNum:  partitionNum,
		BucketID:      bucketID,
		NumBuckets:    numBuckets,
		PartitionDims: p.PartitionDims,
	}, nil
}

func (p PartialShardSpec) completeSingleDim(prev *ShardSpec) (ShardSpec, error) {
	next := 0
	if prev != nil {
		if prev.Type != ShardSpecSingleDim {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "cannot mint a single_dim partition after existing %s partition", prev.Type)
		}
		if prev.Dimension != p.Dimension {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "partition dimension changed from %q to %q mid-interval", prev.Dimension, p.Dimension)
		}
		next = prev.PartitionNum + 1
	}
	return ShardSpec{
		Type:         ShardSpecSingleDim,
		PartitionNum: next,
		Dimension:    p.Dimension,
		Start:        p.Start,
		End:          p.End,
	}, nil
}

func (p PartialShardSpec) completeNumberedOverwrite(prev *ShardSpec) (ShardSpec, error) {
	minor := 0
	if prev != nil {
		if prev.Type != ShardSpecNumberedOverwrite {
			return ShardSpec{}, lockserviceErrorf(ErrShardSpecIncompatible, "cannot mint a numbered_overwrite partition after existing %s partition", prev.Type)
		}
		if prev.StartRootPartitionID != p.StartRootPartitionID || prev.EndRootPartitionID != p.EndRootPartitionID {
			minor = 0
		} else {
			minor = prev.MinorVersion + 1
		}
	}
	return ShardSpec{
		Type:                  ShardSpecNumberedOverwrite,
		PartitionNum:          p.StartRootPartitionID,
		MinorVersion:          minor,
		AtomicUpdateGroupSize: p.AtomicUpdateGroupSize,
		StartRootPartitionID:  p.StartRootPartitionID,
		EndRootPartitionID:    p.EndRootPartitionID,
	}, nil
}
