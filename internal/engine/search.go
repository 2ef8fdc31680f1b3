package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// Search constants
const (
	Infinity  = 1000000
	MateScore = 99999 // Mate at remaining depth d scores MateScore+d
	MaxPly    = 128

	// quiescenceLimit bounds the capture-only extension in plies.
	quiescenceLimit = 4
)

// Searcher performs the recursive search on a shared position. Every
// move it applies is undone before the call that applied it returns.
type Searcher struct {
	pos   *board.Position
	cfg   Config
	tt    *TranspositionTable
	pawns *PawnTable
	cache *EvalCache

	nodes    uint64
	stopFlag atomic.Bool
}

// NewSearcher creates a new searcher. cache may be nil.
func NewSearcher(tt *TranspositionTable, pawns *PawnTable, cache *EvalCache) *Searcher {
	return &Searcher{
		tt:    tt,
		pawns: pawns,
		cache: cache,
	}
}

// Reset prepares the searcher for a new decision on pos.
func (s *Searcher) Reset(pos *board.Position, cfg Config) {
	s.pos = pos
	s.cfg = cfg
	s.nodes = 0
	s.stopFlag.Store(false)
	if cfg.TranspositionTable {
		s.tt.NewSearch()
	}
}

// Stop signals the search to stop at the next root move.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) evaluate() int {
	if s.cache != nil {
		return s.cache.Evaluate(s.pos, s.cfg.EvalTier, s.pawns)
	}
	return EvaluateWithPawnTable(s.pos, s.cfg.EvalTier, s.pawns)
}

func (s *Searcher) apply(m board.Move) {
	if _, err := s.pos.Apply(m); err != nil {
		panic(fmt.Sprintf("engine: generated move rejected: %v", err))
	}
}

// searchRoot scores each root move with a full window, so every score is
// exact. abort is polled before each move; when it reports true the scores
// gathered so far are returned with complete set to false.
func (s *Searcher) searchRoot(moves []board.Move, depth int, abort func(i int) bool) (scores []int, complete bool) {
	maximizing := s.pos.SideToMove == board.White
	scores = make([]int, 0, len(moves))
	for i, m := range moves {
		if abort != nil && abort(i) {
			return scores, false
		}
		s.apply(m)
		score := s.minimax(depth-1, -Infinity, Infinity, !maximizing)
		s.pos.Undo()
		scores = append(scores, score)
	}
	return scores, true
}

// minimax returns the white-relative score of the position searched to
// depth. White maximizes and black minimizes. Without alpha-beta the window
// never narrows and every move is searched.
func (s *Searcher) minimax(depth, alpha, beta int, maximizing bool) int {
	s.nodes++

	us := board.White
	if !maximizing {
		us = board.Black
	}

	// Terminal positions take priority over the horizon.
	moves := s.pos.LegalMoves(us)
	if len(moves) == 0 {
		if s.pos.InCheck(us) {
			if maximizing {
				return -(MateScore + depth)
			}
			return MateScore + depth
		}
		return 0
	}
	if s.pos.HalfMoveClock >= 100 || s.pos.IsInsufficientMaterial() {
		return 0
	}

	if depth <= 0 {
		if !s.cfg.Quiescence {
			return s.evaluate()
		}
		if maximizing {
			return s.quiescence(alpha, beta, board.White, 0)
		}
		return -s.quiescence(-beta, -alpha, board.Black, 0)
	}

	if s.cfg.TranspositionTable {
		if score, ok := s.tt.Lookup(s.pos.Hash, depth, alpha, beta); ok {
			return score
		}
	}

	if s.cfg.MoveOrdering {
		orderMoves(s.pos, moves, board.NoMove)
	}

	origAlpha, origBeta := alpha, beta
	hash := s.pos.Hash
	var best int

	if maximizing {
		best = -Infinity
		for _, m := range moves {
			s.apply(m)
			score := s.minimax(depth-1, alpha, beta, false)
			s.pos.Undo()

			best = max(best, score)
			if s.cfg.AlphaBeta {
				alpha = max(alpha, score)
				if beta <= alpha {
					break
				}
			}
		}
	} else {
		best = Infinity
		for _, m := range moves {
			s.apply(m)
			score := s.minimax(depth-1, alpha, beta, true)
			s.pos.Undo()

			best = min(best, score)
			if s.cfg.AlphaBeta {
				beta = min(beta, score)
				if beta <= alpha {
					break
				}
			}
		}
	}

	if s.cfg.TranspositionTable {
		flag := TTExact
		if best <= origAlpha {
			flag = TTUpperBound
		} else if best >= origBeta {
			flag = TTLowerBound
		}
		s.tt.Store(hash, depth, best, flag)
	}

	return best
}

// quiescence extends the search with captures and promotions only. Scores
// are relative to us. Standing pat is always allowed, so the static score
// is a lower bound.
func (s *Searcher) quiescence(alpha, beta int, us board.Color, qdepth int) int {
	s.nodes++

	standPat := sign(us) * s.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if qdepth <= -quiescenceLimit {
		return alpha
	}

	captures := s.pos.Captures(us)
	if s.cfg.MoveOrdering {
		orderMoves(s.pos, captures, board.NoMove)
	}

	for _, m := range captures {
		s.apply(m)
		score := -s.quiescence(-beta, -alpha, us.Other(), qdepth-1)
		s.pos.Undo()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}
