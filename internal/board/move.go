package board

import "fmt"

// Move is a move request and, once applied, its own undo record.
//
// An unapplied Move carries only From, To and Promotion. Apply fills in the
// remaining fields, after which the Move holds everything Undo needs to
// restore the position exactly.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes

	// Set when the move is applied.
	Piece      Piece // Moving piece as it stood on From
	Captured   Piece // Captured piece (the pawn for en passant)
	PromotedTo Piece // Piece placed on To by a promotion
	EnPassant  bool
	Castling   bool
	RookFrom   Square
	RookTo     Square

	PrevCastling      CastlingRights
	PrevEnPassant     Square
	PrevHalfMoveClock int
	PrevHash          uint64
	PrevPawnKey       uint64

	applied bool
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a normal move request.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a promotion move request.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsNull reports whether m is NoMove or the zero Move.
func (m Move) IsNull() bool {
	return m.From == m.To
}

// Applied reports whether the move has been applied and carries undo data.
func (m Move) Applied() bool {
	return m.applied
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCapture reports whether an applied move captured a piece.
func (m Move) IsCapture() bool {
	return !m.Captured.IsEmpty()
}

// Same reports whether two moves describe the same source, destination and
// promotion, ignoring any undo data.
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// Request strips undo data, leaving only the move request.
func (m Move) Request() Move {
	return Move{From: m.From, To: m.To, Promotion: m.Promotion}
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a coordinate move string such as "e2e4" or "e7e8q".
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}
