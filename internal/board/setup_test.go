package board

import (
	"strings"
	"testing"
)

// setup builds a position from a piece placement in the usual rank 8 to
// rank 1 notation ("r3k2r/8/..."), plus the remaining state fields.
func setup(t *testing.T, placement string, side Color, rights CastlingRights, ep string) *Position {
	t.Helper()

	p := NewEmptyPosition()
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		t.Fatalf("placement %q: want 8 ranks, got %d", placement, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceFromLetter(ch)
			if !ok || file > 7 {
				t.Fatalf("placement %q: bad rank %q", placement, row)
			}
			p.Board[NewSquare(file, rank)] = pc
			file++
		}
	}

	p.SideToMove = side
	p.CastlingRights = rights
	if ep != "" {
		sq, err := ParseSquare(ep)
		if err != nil {
			t.Fatalf("en passant square: %v", err)
		}
		p.EnPassant = sq
	}
	p.Rehash()
	return p
}

func pieceFromLetter(ch rune) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return NewPiece(Pawn, color), true
	case 'N':
		return NewPiece(Knight, color), true
	case 'B':
		return NewPiece(Bishop, color), true
	case 'R':
		return NewPiece(Rook, color), true
	case 'Q':
		return NewPiece(Queen, color), true
	case 'K':
		return NewPiece(King, color), true
	}
	return NoPiece, false
}

// play applies coordinate moves, failing the test on the first illegal one.
func play(t *testing.T, p *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if _, err := p.Apply(m); err != nil {
			t.Fatalf("apply %s: %v", s, err)
		}
	}
}
