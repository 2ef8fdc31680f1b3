package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

// newPosition builds a position from piece tokens such as "Ke1" or "pf7".
// Upper-case letters are white pieces and lower-case letters black ones.
func newPosition(t *testing.T, side board.Color, pieces ...string) *board.Position {
	t.Helper()

	pos := board.NewEmptyPosition()
	for _, tok := range pieces {
		if len(tok) != 3 {
			t.Fatalf("bad piece token %q", tok)
		}
		pc, ok := letterPiece(tok[0])
		if !ok {
			t.Fatalf("bad piece letter in %q", tok)
		}
		sq, err := board.ParseSquare(tok[1:])
		if err != nil {
			t.Fatalf("bad square in %q: %v", tok, err)
		}
		pos.Board[sq] = pc
	}
	pos.SideToMove = side
	pos.Rehash()
	return pos
}

func letterPiece(ch byte) (board.Piece, bool) {
	color := board.Black
	if ch >= 'A' && ch <= 'Z' {
		color = board.White
		ch += 'a' - 'A'
	}
	for _, pt := range []board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		if pt.Char() == ch {
			return board.NewPiece(pt, color), true
		}
	}
	return board.NoPiece, false
}

// mirrored returns pos flipped top to bottom with the colors swapped.
func mirrored(pos *board.Position) *board.Position {
	m := board.NewEmptyPosition()
	for i, pc := range pos.Board {
		if pc.IsEmpty() {
			continue
		}
		m.Board[board.Square(i).Mirror()] = board.NewPiece(pc.Type, pc.Color.Other())
	}
	m.SideToMove = pos.SideToMove.Other()
	m.Rehash()
	return m
}

func mustApply(t *testing.T, pos *board.Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := board.ParseMove(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if _, err := pos.Apply(m); err != nil {
			t.Fatalf("apply %s: %v", s, err)
		}
	}
}

func isLegal(pos *board.Position, m board.Move) bool {
	for _, l := range pos.LegalMoves(pos.SideToMove) {
		if l.Same(m) {
			return true
		}
	}
	return false
}
