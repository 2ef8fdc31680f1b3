// Package engine implements position evaluation and the tiered search
// engine that picks a move for each difficulty level.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/book"
)

var (
	// ErrNoLegalMoves is returned when asked to move in a finished game.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrInvalidLevel is returned for a level outside 1..10.
	ErrInvalidLevel = errors.New("invalid level")
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Level    Level
	Depth    int
	Score    int // White-relative
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// OpeningBook supplies book replies for the line played so far.
type OpeningBook interface {
	Probe(pos *board.Position, rng *rand.Rand) (board.Move, bool)
}

// Engine is the chess AI engine. An Engine serves one caller at a time; the
// position passed to BestMove must not be touched until it returns.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable
	pawns    *PawnTable
	cache    *EvalCache
	book     OpeningBook
	rng      *rand.Rand
	tm       *TimeManager
	log      logr.Logger

	level      Level
	budget     time.Duration
	ttSizeMB   int
	cacheItems int64

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every random choice of the engine reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x5DEECE66D))
	}
}

// WithLogger sets the logger. Search progress is logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithBook replaces the built-in opening book. A nil book disables it.
func WithBook(b OpeningBook) Option {
	return func(e *Engine) {
		e.book = b
	}
}

// WithEvalCache enables a shared evaluation cache of about n entries.
func WithEvalCache(n int64) Option {
	return func(e *Engine) {
		e.cacheItems = n
	}
}

// WithLevel sets the level used by Search.
func WithLevel(l Level) Option {
	return func(e *Engine) {
		e.level = l
	}
}

// WithTimeBudget sets the iterative deepening budget used by Search.
func WithTimeBudget(d time.Duration) Option {
	return func(e *Engine) {
		e.budget = d
	}
}

// WithHashSize sets the transposition table size in MB.
func WithHashSize(mb int) Option {
	return func(e *Engine) {
		e.ttSizeMB = mb
	}
}

// NewEngine creates a new chess engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		book:     book.Default(),
		log:      logr.Discard(),
		level:    MaxLevel,
		budget:   DefaultTimeBudget,
		ttSizeMB: 16,
		tm:       NewTimeManager(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(e.level))
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.cacheItems > 0 {
		cache, err := NewEvalCache(e.cacheItems)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}

	e.tt = NewTranspositionTable(e.ttSizeMB)
	e.pawns = NewPawnTable(1)
	e.searcher = NewSearcher(e.tt, e.pawns, e.cache)
	return e, nil
}

// Level returns the level used by Search.
func (e *Engine) Level() Level {
	return e.level
}

// SetLevel sets the level used by Search.
func (e *Engine) SetLevel(l Level) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	e.level = l
	return nil
}

// Search finds the best move at the engine's level and time budget.
func (e *Engine) Search(pos *board.Position) (board.Move, error) {
	return e.BestMove(pos, e.level, e.budget)
}

// BestMove picks a move for the side to move in pos. In order it tries the
// opening book, the single-reply shortcut, the random-move shortcut and
// finally a search. budget only limits iterative deepening.
//
// pos is searched in place and is unchanged on return.
func (e *Engine) BestMove(pos *board.Position, level Level, budget time.Duration) (board.Move, error) {
	if !level.Valid() {
		return board.NoMove, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	cfg := level.Config()
	log := e.log.WithValues("level", int(level), "ply", pos.Ply())

	legal := pos.LegalMoves(pos.SideToMove)
	if len(legal) == 0 {
		return board.NoMove, ErrNoLegalMoves
	}

	if cfg.OpeningBook && e.book != nil && pos.Ply() < book.MaxPlies {
		if m, ok := e.book.Probe(pos, e.rng); ok {
			log.V(1).Info("book move", "move", m.String())
			return m, nil
		}
	}

	if len(legal) == 1 {
		return legal[0], nil
	}

	if cfg.RandomMovePercent > 0 && e.rng.IntN(100) < cfg.RandomMovePercent {
		m := legal[e.rng.IntN(len(legal))]
		log.V(1).Info("random move", "move", m.String())
		return m, nil
	}

	e.searcher.Reset(pos, cfg)
	e.tm.Init(budget)

	var m board.Move
	if cfg.IterativeDeepening {
		m = e.iterativeDeepening(pos, legal, level, cfg)
	} else {
		m = e.fixedDepth(pos, legal, level, cfg)
	}
	return m, nil
}

// fixedDepth searches every root move to the level's depth and picks
// uniformly among the moves sharing the best score.
func (e *Engine) fixedDepth(pos *board.Position, legal []board.Move, level Level, cfg Config) board.Move {
	moves := slices.Clone(legal)
	if cfg.MoveOrdering {
		orderMoves(pos, moves, board.NoMove)
	}

	scores, complete := e.searcher.searchRoot(moves, cfg.Depth, func(i int) bool {
		return i > 0 && e.searcher.IsStopped()
	})
	if !complete {
		e.log.V(1).Info("search stopped", "searched", len(scores), "of", len(moves))
	}

	best, score := e.pickBest(pos, moves[:len(scores)], scores, true)
	e.report(SearchInfo{
		Level: level,
		Depth: cfg.Depth,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  e.tm.Elapsed(),
		PV:    []board.Move{best},
	})
	return best
}

// iterativeDeepening searches depth 1, 2, ... up to Depth+2. The clock is
// polled between root moves from depth 2 on, so a depth-1 result always
// exists; an interrupted depth is discarded.
func (e *Engine) iterativeDeepening(pos *board.Position, legal []board.Move, level Level, cfg Config) board.Move {
	moves := slices.Clone(legal)
	best := board.NoMove

	for depth := 1; depth <= cfg.Depth+2; depth++ {
		if cfg.MoveOrdering {
			orderMoves(pos, moves, best)
		} else {
			moveToFront(moves, best)
		}

		scores, complete := e.searcher.searchRoot(moves, depth, func(int) bool {
			return depth > 1 && (e.tm.ShouldStop() || e.searcher.IsStopped())
		})
		if !complete {
			e.log.V(1).Info("depth aborted", "depth", depth, "elapsed", e.tm.Elapsed())
			break
		}

		var score int
		best, score = e.pickBest(pos, moves, scores, false)

		info := SearchInfo{
			Level:    level,
			Depth:    depth,
			Score:    score,
			Nodes:    e.searcher.Nodes(),
			Time:     e.tm.Elapsed(),
			PV:       []board.Move{best},
			HashFull: e.tt.HashFull(),
		}
		e.report(info)

		// Early termination: found mate
		if IsMateScore(score) {
			break
		}
	}

	return best
}

// pickBest returns the best scored move for the side to move. With
// randomTies a uniform choice is made among equal best scores; otherwise
// the first one wins.
func (e *Engine) pickBest(pos *board.Position, moves []board.Move, scores []int, randomTies bool) (board.Move, int) {
	maximizing := pos.SideToMove == board.White
	better := func(a, b int) bool {
		if maximizing {
			return a > b
		}
		return a < b
	}

	var ties []board.Move
	bestScore := 0
	for i, m := range moves {
		switch {
		case len(ties) == 0 || better(scores[i], bestScore):
			bestScore = scores[i]
			ties = append(ties[:0], m)
		case scores[i] == bestScore:
			ties = append(ties, m)
		}
	}
	if len(ties) == 0 {
		// Stopped before the first root move finished
		return moves[0], 0
	}
	if randomTies && len(ties) > 1 {
		return ties[e.rng.IntN(len(ties))], bestScore
	}
	return ties[0], bestScore
}

func (e *Engine) report(info SearchInfo) {
	e.log.V(1).Info("search complete",
		"depth", info.Depth,
		"score", ScoreToString(info.Score),
		"nodes", info.Nodes,
		"time", info.Time,
		"move", info.PV[0].String())
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

// Stop stops the current search at the next root move.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.pawns.Clear()
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Close releases the evaluation cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Nodes returns the number of nodes visited by the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves(pos.SideToMove)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		if _, err := pos.Apply(m); err != nil {
			panic(err)
		}
		nodes += e.Perft(pos, depth-1)
		pos.Undo()
	}

	return nodes
}

// Evaluate returns the static evaluation of a position at the given level.
func (e *Engine) Evaluate(pos *board.Position, level Level) (int, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	return EvaluateWithPawnTable(pos, LevelEvalTier(level), e.pawns), nil
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= MateScore {
		return "mate"
	}
	if score <= -MateScore {
		return "-mate"
	}
	return fmt.Sprintf("%.2f", float64(score)/100)
}
