package board

// PseudoLegalMoves returns every move of color c that obeys piece movement
// geometry. Moves may leave the mover's own king in check.
func (p *Position) PseudoLegalMoves(c Color) []Move {
	moves := make([]Move, 0, 48)
	for sq := A1; sq <= H8; sq++ {
		if pc := p.Board[sq]; !pc.IsEmpty() && pc.Color == c {
			p.generatePieceMoves(sq, &moves)
		}
	}
	return moves
}

// LegalMoves returns the pseudo-legal moves of color c that do not leave
// its own king attacked. Each candidate is applied, tested and undone, so
// the position is unchanged on return.
func (p *Position) LegalMoves(c Color) []Move {
	return p.filterLegal(p.PseudoLegalMoves(c), c)
}

// LegalMovesFrom returns the legal moves of the piece standing on sq.
func (p *Position) LegalMovesFrom(sq Square) []Move {
	pc := p.Board[sq]
	if pc.IsEmpty() {
		return nil
	}
	var moves []Move
	p.generatePieceMoves(sq, &moves)
	return p.filterLegal(moves, pc.Color)
}

// HasLegalMoves returns true if color c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	for _, m := range p.PseudoLegalMoves(c) {
		if p.isLegal(m, c) {
			return true
		}
	}
	return false
}

func (p *Position) filterLegal(moves []Move, c Color) []Move {
	legal := moves[:0]
	for _, m := range moves {
		if p.isLegal(m, c) {
			legal = append(legal, m)
		}
	}
	return legal
}

// isLegal applies m, checks the king of c and undoes m.
func (p *Position) isLegal(m Move, c Color) bool {
	p.makeMove(m)
	ok := !p.InCheck(c)
	p.Undo()
	return ok
}

// generatePieceMoves appends the pseudo-legal moves of the piece on from.
func (p *Position) generatePieceMoves(from Square, ml *[]Move) {
	pc := p.Board[from]
	switch pc.Type {
	case Pawn:
		p.generatePawnMoves(from, pc.Color, ml)
	case Knight:
		p.generateJumpMoves(from, pc.Color, KnightOffsets[:], ml)
	case Bishop:
		p.generateSlidingMoves(from, pc.Color, BishopDirections[:], ml)
	case Rook:
		p.generateSlidingMoves(from, pc.Color, RookDirections[:], ml)
	case Queen:
		p.generateSlidingMoves(from, pc.Color, QueenDirections[:], ml)
	case King:
		p.generateJumpMoves(from, pc.Color, KingOffsets[:], ml)
		p.generateCastlingMoves(from, pc.Color, ml)
	}
}

func (p *Position) generatePawnMoves(from Square, us Color, ml *[]Move) {
	dir := forward(us)

	// Pushes
	if one, ok := from.Offset(Delta{0, dir}); ok && p.Board[one].IsEmpty() {
		if one.RelativeRank(us) == 7 {
			addPromotions(ml, from, one)
		} else {
			*ml = append(*ml, NewMove(from, one))
			if from.RelativeRank(us) == 1 {
				if two, ok := one.Offset(Delta{0, dir}); ok && p.Board[two].IsEmpty() {
					*ml = append(*ml, NewMove(from, two))
				}
			}
		}
	}

	// Captures
	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(Delta{df, dir})
		if !ok {
			continue
		}
		target := p.Board[to]
		switch {
		case !target.IsEmpty() && target.Color != us:
			if to.RelativeRank(us) == 7 {
				addPromotions(ml, from, to)
			} else {
				*ml = append(*ml, NewMove(from, to))
			}
		case target.IsEmpty() && to == p.EnPassant && us == p.SideToMove:
			// The double-pushed pawn sits beside us on our rank
			if p.Board[NewSquare(to.File(), from.Rank())].Is(Pawn, us.Other()) {
				*ml = append(*ml, NewMove(from, to))
			}
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *[]Move, from, to Square) {
	for _, pt := range PromotionTypes {
		*ml = append(*ml, NewPromotion(from, to, pt))
	}
}

func (p *Position) generateJumpMoves(from Square, us Color, offsets []Delta, ml *[]Move) {
	for _, d := range offsets {
		to, ok := from.Offset(d)
		if !ok {
			continue
		}
		if target := p.Board[to]; target.IsEmpty() || target.Color != us {
			*ml = append(*ml, NewMove(from, to))
		}
	}
}

func (p *Position) generateSlidingMoves(from Square, us Color, dirs []Delta, ml *[]Move) {
	for _, d := range dirs {
		cur := from
		for {
			to, ok := cur.Offset(d)
			if !ok {
				break
			}
			cur = to
			target := p.Board[to]
			if target.IsEmpty() {
				*ml = append(*ml, NewMove(from, to))
				continue
			}
			if target.Color != us {
				*ml = append(*ml, NewMove(from, to))
			}
			break
		}
	}
}

// generateCastlingMoves adds castling moves. Castling requires the right,
// empty squares between king and rook, the rook on its home square, and no
// attack on the king's current, transit or destination square.
func (p *Position) generateCastlingMoves(from Square, us Color, ml *[]Move) {
	rank := 0
	if us == Black {
		rank = 7
	}
	if from != NewSquare(4, rank) {
		return
	}
	them := us.Other()
	if !p.CastlingRights.CanCastle(us, true) && !p.CastlingRights.CanCastle(us, false) {
		return
	}
	if p.IsSquareAttacked(from, them) {
		return
	}

	sq := func(file int) Square { return NewSquare(file, rank) }

	if p.CastlingRights.CanCastle(us, true) &&
		p.Board[sq(5)].IsEmpty() && p.Board[sq(6)].IsEmpty() &&
		p.Board[sq(7)].Is(Rook, us) &&
		!p.IsSquareAttacked(sq(5), them) && !p.IsSquareAttacked(sq(6), them) {
		*ml = append(*ml, NewMove(from, sq(6)))
	}

	if p.CastlingRights.CanCastle(us, false) &&
		p.Board[sq(3)].IsEmpty() && p.Board[sq(2)].IsEmpty() && p.Board[sq(1)].IsEmpty() &&
		p.Board[sq(0)].Is(Rook, us) &&
		!p.IsSquareAttacked(sq(3), them) && !p.IsSquareAttacked(sq(2), them) {
		*ml = append(*ml, NewMove(from, sq(2)))
	}
}

// Captures returns the legal captures and promotions of color c.
func (p *Position) Captures(c Color) []Move {
	moves := p.LegalMoves(c)
	captures := moves[:0]
	for _, m := range moves {
		if p.IsCaptureMove(m) || m.IsPromotion() {
			captures = append(captures, m)
		}
	}
	return captures
}

// IsCaptureMove reports whether the unapplied move m captures a piece,
// including en passant.
func (p *Position) IsCaptureMove(m Move) bool {
	if !p.Board[m.To].IsEmpty() {
		return true
	}
	mover := p.Board[m.From]
	return mover.Type == Pawn && m.To == p.EnPassant && m.From.File() != m.To.File()
}

// CapturedBy returns the piece an unapplied move would capture.
func (p *Position) CapturedBy(m Move) Piece {
	if target := p.Board[m.To]; !target.IsEmpty() {
		return target
	}
	if p.IsCaptureMove(m) {
		return NewPiece(Pawn, p.Board[m.From].Color.Other())
	}
	return NoPiece
}
