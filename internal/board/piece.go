package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
// The zero value is NoPieceType so that an empty Piece is the zero Piece.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter for the piece type.
func (pt PieceType) Char() byte {
	if pt > King {
		return ' '
	}
	return " pnbrqk"[pt]
}

// SANChar returns the piece letter used in algebraic notation (empty for pawns).
func (pt PieceType) SANChar() string {
	switch pt {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return ""
	}
}

// PieceValue holds the material value of each piece type in centipawns.
// The king is excluded from material counting.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 0}

// Value returns the material value of the piece type in centipawns.
func (pt PieceType) Value() int {
	if pt > King {
		return 0
	}
	return PieceValue[pt]
}

// PromotionTypes lists the piece types a pawn may promote to, strongest first.
var PromotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// Piece is a (type, color) pair. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// NoPiece is the empty square.
var NoPiece = Piece{}

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt > King || c >= NoColor {
		return NoPiece
	}
	return Piece{Type: pt, Color: c}
}

// IsEmpty returns true if the piece represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Is reports whether p is a piece of the given type and color.
func (p Piece) Is(pt PieceType, c Color) bool {
	return p.Type == pt && p.Color == c
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return p.Type.Value()
}

// String returns the letter for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p.IsEmpty() {
		return " "
	}
	c := p.Type.Char()
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return string(c)
}

var symbols = [2][7]string{
	{"", "♙", "♘", "♗", "♖", "♕", "♔"},
	{"", "♟", "♞", "♝", "♜", "♛", "♚"},
}

// Symbol returns the Unicode chess glyph for the piece.
func (p Piece) Symbol() string {
	if p.IsEmpty() || p.Color >= NoColor || p.Type > King {
		return ""
	}
	return symbols[p.Color][p.Type]
}

// Delta is a (file, rank) step on the board.
type Delta struct {
	File, Rank int
}

// Movement geometry.
var (
	KnightOffsets = [8]Delta{
		{-1, -2}, {1, -2}, {-2, -1}, {2, -1},
		{-2, 1}, {2, 1}, {-1, 2}, {1, 2},
	}
	KingOffsets = [8]Delta{
		{-1, -1}, {0, -1}, {1, -1}, {-1, 0},
		{1, 0}, {-1, 1}, {0, 1}, {1, 1},
	}
	RookDirections   = [4]Delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	BishopDirections = [4]Delta{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	QueenDirections  = [8]Delta{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
)
