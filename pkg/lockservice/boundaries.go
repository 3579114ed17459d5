package lockservice

import "sort"

// PartitionBoundaries is a sorted table of single-dimension partition edges
// used to route a row's dimension value to the ShardSpec that owns it.
// Edges[0] is implicitly preceded by -infinity and Edges[len-1] is
// implicitly followed by +infinity, matching SingleDimensionShardSpec's
// nullable start/end convention.
type PartitionBoundaries struct {
	Dimension string
	// Edges holds the interior boundary values in ascending order; there
	// are len(Edges)+1 partitions.
	Edges []string
	specs []ShardSpec
}

// NewPartitionBoundaries builds a boundary table from a set of completed
// single_dim ShardSpecs, ordering them by their Start value (empty Start
// sorts first, representing -infinity).
func NewPartitionBoundaries(dimension string, specs []ShardSpec) (*PartitionBoundaries, error) {
	ordered := make([]ShardSpec, len(specs))
	copy(ordered, specs)
	sort.Slice(ordered, func(i, j int) bool {
		return singleDimLess(ordered[i].Start, ordered[j].Start)
	})
	for i, s := range ordered {
		if s.Type != ShardSpecSingleDim {
			return nil, lockserviceErrorf(ErrShardSpecIncompatible, "boundary table requires single_dim specs, got %s at position %d", s.Type, i)
		}
		if s.Dimension != dimension {
			return nil, lockserviceErrorf(ErrShardSpecIncompatible, "boundary spec dimension %q does not match table dimension %q", s.Dimension, dimension)
		}
	}
	edges := make([]string, 0, len(ordered))
	for i := 1; i < len(ordered); i++ {
		edges = append(edges, ordered[i].Start)
	}
	return &PartitionBoundaries{Dimension: dimension, Edges: edges, specs: ordered}, nil
}

func singleDimLess(a, b string) bool {
	if a == "" {
		return b != ""
	}
	if b == "" {
		return false
	}
	return a < b
}

// Locate returns the ShardSpec whose [Start, End) range contains value,
// via binary search over the interior edges.
func (pb *PartitionBoundaries) Locate(value string) (ShardSpec, bool) {
	if len(pb.specs) == 0 {
		return ShardSpec{}, false
	}
	idx := sort.Search(len(pb.Edges), func(i int) bool { return value < pb.Edges[i] })
	return pb.specs[idx], true
}

// Count reports the number of partitions in the table.
func (pb *PartitionBoundaries) Count() int { return len(pb.specs) }
