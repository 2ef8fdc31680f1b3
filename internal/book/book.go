// Package book implements the opening book: replies keyed by the exact
// sequence of moves played from the starting position.
package book

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam/chessplay/internal/board"
)

// MaxPlies bounds the opening phase in which the book is consulted.
const MaxPlies = 12

// Step is one played move reduced to its source and destination.
type Step struct {
	From board.Square
	To   board.Square
}

func (s Step) String() string {
	return s.From.String() + s.To.String()
}

// Line is the sequence of steps played from the starting position.
type Line []Step

// Equal reports whether two lines contain the same steps in order.
func (l Line) Equal(o Line) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// Key hashes the line. Lines with equal steps have equal keys.
func (l Line) Key() uint64 {
	buf := make([]byte, 0, 2*len(l))
	for _, s := range l {
		buf = append(buf, byte(s.From), byte(s.To))
	}
	return xxhash.Sum64(buf)
}

func (l Line) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// LineOf returns the line played so far in pos.
func LineOf(pos *board.Position) Line {
	history := pos.History()
	line := make(Line, len(history))
	for i, m := range history {
		line[i] = Step{From: m.From, To: m.To}
	}
	return line
}

// ParseLine parses space separated coordinate moves ("e2e4 e7e5").
// Promotion suffixes are accepted and ignored.
func ParseLine(s string) (Line, error) {
	fields := strings.Fields(s)
	line := make(Line, 0, len(fields))
	for _, f := range fields {
		m, err := board.ParseMove(f)
		if err != nil {
			return nil, fmt.Errorf("parse line %q: %w", s, err)
		}
		line = append(line, Step{From: m.From, To: m.To})
	}
	return line, nil
}

// BookEntry represents a single book reply.
type BookEntry struct {
	Move   Step
	Weight uint16
}

// bucket holds the replies of one line. Lines sharing a hash key live in
// the same slice and are told apart by value.
type bucket struct {
	line    Line
	replies []BookEntry
}

// Book represents an opening book.
type Book struct {
	entries map[uint64][]bucket
	lines   int
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]bucket),
	}
}

// Add appends a weighted reply to the given line.
func (b *Book) Add(line Line, reply Step, weight uint16) {
	key := line.Key()
	buckets := b.entries[key]
	for i := range buckets {
		if buckets[i].line.Equal(line) {
			buckets[i].replies = append(buckets[i].replies, BookEntry{Move: reply, Weight: weight})
			return
		}
	}
	b.entries[key] = append(buckets, bucket{
		line:    append(Line(nil), line...),
		replies: []BookEntry{{Move: reply, Weight: weight}},
	})
	b.lines++
}

// Replies returns the book replies stored for line.
func (b *Book) Replies(line Line) []BookEntry {
	if b == nil {
		return nil
	}
	for _, bk := range b.entries[line.Key()] {
		if bk.line.Equal(line) {
			return append([]BookEntry(nil), bk.replies...)
		}
	}
	return nil
}

// Probe looks up the line played in pos and returns a legal reply using
// weighted random selection. Replies that are not legal in pos are skipped.
func (b *Book) Probe(pos *board.Position, rng *rand.Rand) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	replies := b.Replies(LineOf(pos))
	if len(replies) == 0 {
		return board.NoMove, false
	}

	legal := pos.LegalMoves(pos.SideToMove)
	candidates := make([]board.Move, 0, len(replies))
	weights := make([]uint32, 0, len(replies))
	totalWeight := uint32(0)
	for _, e := range replies {
		if m, ok := verifyAndConvert(legal, e.Move); ok {
			candidates = append(candidates, m)
			weights = append(weights, uint32(e.Weight))
			totalWeight += uint32(e.Weight)
		}
	}
	if len(candidates) == 0 {
		return board.NoMove, false
	}

	if totalWeight == 0 {
		// All weights are 0, pick uniformly
		return candidates[rng.IntN(len(candidates))], true
	}

	r := rng.Uint32N(totalWeight)
	cumulative := uint32(0)
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return candidates[i], true
		}
	}

	// Fallback to first candidate
	return candidates[0], true
}

// verifyAndConvert finds the legal move matching a book step. A book step
// onto the last rank matches the queen promotion.
func verifyAndConvert(legal []board.Move, s Step) (board.Move, bool) {
	for _, lm := range legal {
		if lm.From == s.From && lm.To == s.To {
			if lm.IsPromotion() && lm.Promotion != board.Queen {
				continue
			}
			return lm, true
		}
	}
	return board.NoMove, false
}

// Size returns the number of lines in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return b.lines
}

// defaultLines is the built-in repertoire: each line maps to equally
// weighted replies.
var defaultLines = []struct {
	line    string
	replies string
}{
	{"", "e2e4 d2d4 g1f3 c2c4"},
	{"e2e4", "e7e5 c7c5 e7e6 c7c6"},
	{"d2d4", "d7d5 g8f6 e7e6"},
	{"e2e4 e7e5", "g1f3 b1c3 f1c4"},
	{"e2e4 e7e5 g1f3", "b8c6 g8f6"},
	{"d2d4 d7d5", "c2c4 g1f3 b1c3"},
	{"g1f3", "d7d5 g8f6 c7c5"},
	{"c2c4", "e7e5 g8f6 c7c5"},
}

// Default returns the built-in opening book.
func Default() *Book {
	b := New()
	for _, d := range defaultLines {
		line, err := ParseLine(d.line)
		if err != nil {
			panic(err)
		}
		replies, err := ParseLine(d.replies)
		if err != nil {
			panic(err)
		}
		for _, r := range replies {
			b.Add(line, r, 1)
		}
	}
	return b
}
