package engine

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key   uint64 // Full 64-bit Zobrist hash for verification
	Score int32  // White-relative score, bounded by Flag
	Depth int8   // Remaining depth the score was searched to
	Flag  TTFlag
	Age   uint8 // Decision the entry belongs to
}

// TranspositionTable is a hash table for storing search results.
// Entries from an earlier decision are invisible once NewSearch is called,
// so the table behaves as if cleared without touching memory.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	entrySize := uint64(16)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	if numEntries < 1024 {
		numEntries = 1024
	}

	// Round down to power of 2 for fast modulo
	numEntries = roundDownToPowerOf2(numEntries)

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
		age:     1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	entry := tt.entries[hash&tt.mask]
	if entry.Age == tt.age && entry.Key == hash {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Lookup returns a usable score for a node searched to depth with the
// window (alpha, beta). An entry is usable only if it was searched at least
// as deep; bound entries are used only when they already fall outside the
// window.
func (tt *TranspositionTable) Lookup(hash uint64, depth, alpha, beta int) (int, bool) {
	entry, ok := tt.Probe(hash)
	if !ok || int(entry.Depth) < depth {
		return 0, false
	}
	score := int(entry.Score)
	switch entry.Flag {
	case TTExact:
		return score, true
	case TTLowerBound:
		if score >= beta {
			return score, true
		}
	case TTUpperBound:
		if score <= alpha {
			return score, true
		}
	}
	return 0, false
}

// Store saves a position in the transposition table. A deeper entry from the
// current decision is never replaced by a shallower one.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Age == tt.age && int(entry.Depth) > depth {
		return
	}
	*entry = TTEntry{
		Key:   hash,
		Score: int32(score),
		Depth: int8(depth),
		Flag:  flag,
		Age:   tt.age,
	}
}

// NewSearch starts a new decision, hiding every stored entry.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
	if tt.age == 0 {
		// Counter wrapped, old entries would look current
		tt.Clear()
	}
	tt.hits, tt.probes = 0, 0
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 1
	tt.hits, tt.probes = 0, 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Age == tt.age {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}
