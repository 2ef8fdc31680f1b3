package engine

// PawnEntry stores a cached pawn structure evaluation.
type PawnEntry struct {
	Key   uint64
	Score int16
	used  bool
}

// PawnTable is a hash table for caching pawn structure evaluations.
// It is not safe for concurrent use; each engine owns its own table.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64

	hits   uint64
	probes uint64
}

// NewPawnTable creates a new pawn hash table with the given size in MB.
func NewPawnTable(sizeMB int) *PawnTable {
	// Each entry is 16 bytes after padding, round to power of 2
	entrySize := 16
	numEntries := (sizeMB * 1024 * 1024) / entrySize

	// Round down to power of 2
	size := 1
	for size*2 <= numEntries {
		size *= 2
	}

	return &PawnTable{
		entries: make([]PawnEntry, size),
		mask:    uint64(size - 1),
	}
}

// Probe looks up a pawn structure evaluation in the hash table.
func (pt *PawnTable) Probe(key uint64) (score int, found bool) {
	pt.probes++
	entry := &pt.entries[key&pt.mask]
	if entry.used && entry.Key == key {
		pt.hits++
		return int(entry.Score), true
	}
	return 0, false
}

// Store saves a pawn structure evaluation in the hash table.
func (pt *PawnTable) Store(key uint64, score int) {
	entry := &pt.entries[key&pt.mask]
	entry.Key = key
	entry.Score = int16(score)
	entry.used = true
}

// Clear clears the pawn hash table.
func (pt *PawnTable) Clear() {
	for i := range pt.entries {
		pt.entries[i] = PawnEntry{}
	}
	pt.hits, pt.probes = 0, 0
}

// HitRate returns the cache hit rate as a percentage.
func (pt *PawnTable) HitRate() float64 {
	if pt.probes == 0 {
		return 0
	}
	return float64(pt.hits) / float64(pt.probes) * 100
}
