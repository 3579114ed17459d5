// Package lockservice implements the in-memory lock-and-allocation core for a
// distributed batch-indexing service: time-bounded, priority-ordered leases
// over intervals of a data source's timeline, monotonic version minting, and
// partition identity allocation for segments about to be published.
//
// The package owns three tightly coupled concerns:
//
//   - Lockbox: grants, revokes, upgrades and downgrades leases under a single
//     giant mutex, mirroring the classic single-writer critical section.
//   - SegmentAllocator / BulkAllocator: derive partition identities for rows
//     or whole interval batches by completing a PartialShardSpec against the
//     previous-maximum ShardSpec known to the historical segment index.
//   - PartitionBoundaries / PartitionAnalysis: route rows into partitions
//     consistently with what was minted at allocation time.
//
// Durable storage (the lock journal), task lookups (the task catalog), and
// historical segment lookups are external collaborators expressed here only
// as interfaces; concrete adapters live in sibling packages (journal,
// catalog, segmentindex).
package lockservice
