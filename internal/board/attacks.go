package board

// IsSquareAttacked reports whether any piece of color by attacks sq.
// Knight, king, pawn and sliding attackers are checked independently; a
// sliding ray stops at its first occupant.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for _, d := range KnightOffsets {
		if from, ok := sq.Offset(d); ok && p.Board[from].Is(Knight, by) {
			return true
		}
	}

	for _, d := range KingOffsets {
		if from, ok := sq.Offset(d); ok && p.Board[from].Is(King, by) {
			return true
		}
	}

	// A pawn of color by attacks diagonally forward, so it sits one rank
	// behind sq from its own point of view.
	back := -forward(by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Offset(Delta{df, back}); ok && p.Board[from].Is(Pawn, by) {
			return true
		}
	}

	if p.rayAttack(sq, by, RookDirections[:], Rook) {
		return true
	}
	return p.rayAttack(sq, by, BishopDirections[:], Bishop)
}

// rayAttack walks each direction from sq and reports whether the first
// occupant is a slider of type slider (or a queen) belonging to by.
func (p *Position) rayAttack(sq Square, by Color, dirs []Delta, slider PieceType) bool {
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := cur.Offset(d)
			if !ok {
				break
			}
			cur = next
			pc := p.Board[cur]
			if pc.IsEmpty() {
				continue
			}
			if pc.Color == by && (pc.Type == slider || pc.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked.
// A side without a king is never in check.
func (p *Position) InCheck(c Color) bool {
	ksq := p.kingSquare[c]
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}

// AttackersOf counts the pieces of color by attacking sq. Used for display
// and tests; search only needs IsSquareAttacked.
func (p *Position) AttackersOf(sq Square, by Color) int {
	count := 0
	for from := A1; from <= H8; from++ {
		pc := p.Board[from]
		if pc.IsEmpty() || pc.Color != by {
			continue
		}
		if p.attacks(from, sq) {
			count++
		}
	}
	return count
}

// attacks reports whether the piece on from attacks to.
func (p *Position) attacks(from, to Square) bool {
	pc := p.Board[from]
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	switch pc.Type {
	case Pawn:
		return dr == forward(pc.Color) && abs(df) == 1
	case Knight:
		return abs(df)*abs(dr) == 2
	case King:
		return max(abs(df), abs(dr)) == 1
	case Bishop:
		return abs(df) == abs(dr) && df != 0 && p.clearBetween(from, to)
	case Rook:
		return (df == 0) != (dr == 0) && p.clearBetween(from, to)
	case Queen:
		straight := (df == 0) != (dr == 0)
		diagonal := abs(df) == abs(dr) && df != 0
		return (straight || diagonal) && p.clearBetween(from, to)
	}
	return false
}

// clearBetween reports whether every square strictly between two aligned
// squares is empty.
func (p *Position) clearBetween(from, to Square) bool {
	d := Delta{sign(to.File() - from.File()), sign(to.Rank() - from.Rank())}
	cur, _ := from.Offset(d)
	for cur != to {
		if !p.Board[cur].IsEmpty() {
			return false
		}
		cur, _ = cur.Offset(d)
	}
	return true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
