package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
// Rights are only ever cleared during play, never restored except by Undo.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the castling rights in KQkq form.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleFlag(c, kingSide) != 0
}

func castleFlag(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// rookHomes maps each rook home square to the castling right it guards.
var rookHomes = [4]struct {
	sq   Square
	flag CastlingRights
}{
	{H1, WhiteKingSideCastle},
	{A1, WhiteQueenSideCastle},
	{H8, BlackKingSideCastle},
	{A8, BlackQueenSideCastle},
}

// Position represents a complete chess position and its move history.
//
// Position is the single mutable source of truth. It is not safe for
// concurrent use: every Apply must be paired with exactly one Undo by the
// same caller before anyone else touches the position.
type Position struct {
	Board [64]Piece

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	// Zobrist hash of board, side to move, castling rights and en passant target
	Hash uint64

	// Pawn hash key for pawn structure caching
	PawnKey uint64

	kingSquare [2]Square
	history    []Move
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	for file := 0; file < 8; file++ {
		p.Board[NewSquare(file, 0)] = NewPiece(backRank[file], White)
		p.Board[NewSquare(file, 1)] = NewPiece(Pawn, White)
		p.Board[NewSquare(file, 6)] = NewPiece(Pawn, Black)
		p.Board[NewSquare(file, 7)] = NewPiece(backRank[file], Black)
	}
	p.CastlingRights = AllCastling
	p.Rehash()
	return p
}

// NewEmptyPosition creates an empty board with white to move and no rights.
func NewEmptyPosition() *Position {
	p := &Position{
		SideToMove:     White,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	p.Rehash()
	return p
}

// Put places a piece on a square (NoPiece clears it) and refreshes the
// cached hashes. Intended for setting up positions, not for play.
func (p *Position) Put(sq Square, piece Piece) {
	p.Board[sq] = piece
	p.Rehash()
}

// Rehash recomputes hashes and cached king squares after the exported
// fields have been edited directly.
func (p *Position) Rehash() {
	p.kingSquare = [2]Square{NoSquare, NoSquare}
	for sq := A1; sq <= H8; sq++ {
		if pc := p.Board[sq]; pc.Type == King {
			p.kingSquare[pc.Color] = sq
		}
	}
	p.Hash = p.ComputeHash()
	p.PawnKey = p.ComputePawnKey()
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq].IsEmpty()
}

// KingSquare returns the square of the king of color c, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.kingSquare[c]
}

// History returns the applied moves, oldest first. The slice must not be modified.
func (p *Position) History() []Move {
	return p.history
}

// Ply returns the number of half-moves applied to this position.
func (p *Position) Ply() int {
	return len(p.history)
}

// LastMove returns the most recently applied move.
func (p *Position) LastMove() (Move, bool) {
	if len(p.history) == 0 {
		return NoMove, false
	}
	return p.history[len(p.history)-1], true
}

// place puts a piece on an empty square, updating hashes.
func (p *Position) place(sq Square, piece Piece) {
	p.Board[sq] = piece
	key := pieceKey(piece, sq)
	p.Hash ^= key
	if piece.Type == Pawn {
		p.PawnKey ^= key
	}
	if piece.Type == King {
		p.kingSquare[piece.Color] = sq
	}
}

// lift removes and returns the piece on a square, updating hashes.
func (p *Position) lift(sq Square) Piece {
	piece := p.Board[sq]
	if piece.IsEmpty() {
		return NoPiece
	}
	p.Board[sq] = NoPiece
	key := pieceKey(piece, sq)
	p.Hash ^= key
	if piece.Type == Pawn {
		p.PawnKey ^= key
	}
	if piece.Type == King && p.kingSquare[piece.Color] == sq {
		p.kingSquare[piece.Color] = NoSquare
	}
	return piece
}

// Apply validates that m is pseudo-legal for the side to move and plays it.
// A pawn reaching the last rank without a promotion piece promotes to a queen.
// The returned Move is the completed undo record appended to the history.
func (p *Position) Apply(m Move) (Move, error) {
	req := m.Request()
	if !req.From.IsValid() || !req.To.IsValid() {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, req)
	}

	piece := p.Board[req.From]
	if piece.IsEmpty() || piece.Color != p.SideToMove {
		return NoMove, fmt.Errorf("%w: %s: no %s piece on %s", ErrIllegalMove, req, p.SideToMove, req.From)
	}
	if piece.Type == Pawn && req.To.RelativeRank(piece.Color) == 7 && req.Promotion == NoPieceType {
		req.Promotion = Queen
	}

	var candidates []Move
	p.generatePieceMoves(req.From, &candidates)
	for _, c := range candidates {
		if c.Same(req) {
			return p.makeMove(req), nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, req)
}

// makeMove plays a move known to be pseudo-legal.
func (p *Position) makeMove(m Move) Move {
	piece := p.Board[m.From]
	us := piece.Color

	m.Piece = piece
	m.Captured = NoPiece
	m.PromotedTo = NoPiece
	m.EnPassant = false
	m.Castling = false
	m.RookFrom, m.RookTo = NoSquare, NoSquare
	m.PrevCastling = p.CastlingRights
	m.PrevEnPassant = p.EnPassant
	m.PrevHalfMoveClock = p.HalfMoveClock
	m.PrevHash = p.Hash
	m.PrevPawnKey = p.PawnKey

	// Take the old castling and en passant state out of the hash
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	// Captures
	if piece.Type == Pawn && m.To == p.EnPassant && m.From.File() != m.To.File() {
		m.EnPassant = true
		m.Captured = p.lift(NewSquare(m.To.File(), m.From.Rank()))
	} else if !p.Board[m.To].IsEmpty() {
		m.Captured = p.lift(m.To)
	}

	// Castling moves the rook as well
	if piece.Type == King && abs(m.To.File()-m.From.File()) == 2 {
		m.Castling = true
		rank := m.From.Rank()
		if m.To.File() == 6 {
			m.RookFrom, m.RookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			m.RookFrom, m.RookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		p.place(m.RookTo, p.lift(m.RookFrom))
	}

	p.lift(m.From)
	if piece.Type == Pawn && m.To.RelativeRank(us) == 7 {
		if m.Promotion == NoPieceType {
			m.Promotion = Queen
		}
		m.PromotedTo = NewPiece(m.Promotion, us)
		p.place(m.To, m.PromotedTo)
	} else {
		p.place(m.To, piece)
	}

	// Castling rights
	if piece.Type == King {
		p.CastlingRights &^= castleFlag(us, true) | castleFlag(us, false)
	}
	for _, home := range rookHomes {
		if m.From == home.sq && piece.Type == Rook {
			p.CastlingRights &^= home.flag
		}
		// A capture on a rook home square removes the owner's right
		if m.To == home.sq {
			p.CastlingRights &^= home.flag
		}
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	// En passant target only after a double push
	p.EnPassant = NoSquare
	if piece.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		p.EnPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if piece.Type == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove

	m.applied = true
	p.history = append(p.history, m)
	return m
}

// Undo takes back the last applied move. It returns false if the history is empty.
func (p *Position) Undo() (Move, bool) {
	n := len(p.history)
	if n == 0 {
		return NoMove, false
	}
	m := p.history[n-1]
	p.history = p.history[:n-1]

	// Source and destination are restored independently: a promotion changed
	// the piece identity on To, so the pawn goes back from the record.
	p.Board[m.To] = NoPiece
	p.Board[m.From] = m.Piece
	if m.EnPassant {
		p.Board[NewSquare(m.To.File(), m.From.Rank())] = m.Captured
	} else {
		p.Board[m.To] = m.Captured
	}

	if m.Castling {
		p.Board[m.RookFrom] = p.Board[m.RookTo]
		p.Board[m.RookTo] = NoPiece
	}

	if m.Piece.Type == King {
		p.kingSquare[m.Piece.Color] = m.From
	}
	if m.Captured.Type == King {
		p.kingSquare[m.Captured.Color] = m.To
	}

	p.CastlingRights = m.PrevCastling
	p.EnPassant = m.PrevEnPassant
	p.HalfMoveClock = m.PrevHalfMoveClock
	p.Hash = m.PrevHash
	p.PawnKey = m.PrevPawnKey
	p.SideToMove = p.SideToMove.Other()

	if m.Piece.Color == Black {
		p.FullMoveNumber--
	}

	return m, true
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}

// Material returns the material balance (positive favors white).
func (p *Position) Material() int {
	score := 0
	for _, pc := range p.Board {
		if pc.Color == White {
			score += pc.Value()
		} else {
			score -= pc.Value()
		}
	}
	return score
}

// SetSideToMove sets the side to move and refreshes the hash.
func (p *Position) SetSideToMove(c Color) {
	p.SideToMove = c
	p.Rehash()
}

// SetCastlingRights replaces the castling rights and refreshes the hash.
func (p *Position) SetCastlingRights(cr CastlingRights) {
	p.CastlingRights = cr
	p.Rehash()
}

// SetEnPassant sets the en passant target square and refreshes the hash.
func (p *Position) SetEnPassant(sq Square) {
	p.EnPassant = sq
	p.Rehash()
}
