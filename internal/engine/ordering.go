package engine

import (
	"slices"

	"github.com/hailam/chessplay/internal/board"
)

// Move ordering priorities
const (
	PVMoveScore  = 10000000 // Previous iteration's best move goes first
	centerBonus  = 5        // Destination on files c-f, ranks 3-6
	mvvLvaFactor = 10       // Victim value multiplier
)

// scoreMove returns the ordering score of an unapplied move: MVV-LVA
// (victim value * 10 - attacker value), the promotion piece's value, and
// a flat bonus for moving into the center.
func scoreMove(pos *board.Position, m board.Move) int {
	score := 0

	if victim := pos.CapturedBy(m); !victim.IsEmpty() {
		attacker := pos.PieceAt(m.From)
		score += victim.Value()*mvvLvaFactor - attacker.Value()
	}

	if m.IsPromotion() {
		score += m.Promotion.Value()
	}

	if f, r := m.To.File(), m.To.Rank(); f >= 2 && f <= 5 && r >= 2 && r <= 5 {
		score += centerBonus
	}

	return score
}

// orderMoves sorts moves in place, highest score first. Equal scores keep
// their generation order. pvMove, when not null, is placed first.
func orderMoves(pos *board.Position, moves []board.Move, pvMove board.Move) {
	type scored struct {
		move  board.Move
		score int
	}
	list := make([]scored, len(moves))
	for i, m := range moves {
		s := scoreMove(pos, m)
		if !pvMove.IsNull() && m.Same(pvMove) {
			s = PVMoveScore
		}
		list[i] = scored{m, s}
	}

	slices.SortStableFunc(list, func(a, b scored) int {
		return b.score - a.score
	})

	for i := range list {
		moves[i] = list[i].move
	}
}

// moveToFront moves pv to the head of moves, keeping the others in order.
func moveToFront(moves []board.Move, pv board.Move) {
	if pv.IsNull() {
		return
	}
	for i, m := range moves {
		if m.Same(pv) {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			return
		}
	}
}
