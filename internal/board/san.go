package board

import "strings"

// SAN returns the algebraic label of m, which must be legal in the current
// position. The move is applied and undone to determine check and mate
// suffixes, so the position is unchanged on return.
func (p *Position) SAN(m Move) string {
	piece := p.Board[m.From]
	if piece.IsEmpty() {
		return m.String()
	}

	var sb strings.Builder
	switch {
	case piece.Type == King && abs(m.To.File()-m.From.File()) == 2:
		if m.To.File() == 6 {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	case piece.Type == Pawn:
		if p.IsCaptureMove(m) {
			sb.WriteByte(byte('a' + m.From.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.To.RelativeRank(piece.Color) == 7 {
			promo := m.Promotion
			if promo == NoPieceType {
				promo = Queen
			}
			sb.WriteByte('=')
			sb.WriteString(promo.SANChar())
		}
	default:
		sb.WriteString(piece.Type.SANChar())
		sb.WriteString(p.disambiguate(m, piece))
		if p.IsCaptureMove(m) {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
	}

	p.makeMove(m)
	them := piece.Color.Other()
	if p.InCheck(them) {
		if p.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.Undo()

	return sb.String()
}

// disambiguate returns the origin file, rank or square needed when another
// piece of the same type can legally reach the same destination.
func (p *Position) disambiguate(m Move, piece Piece) string {
	var sameFile, sameRank, ambiguous bool
	for _, other := range p.LegalMoves(piece.Color) {
		if other.To != m.To || other.From == m.From || p.Board[other.From] != piece {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	from := m.From.String()
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return from[:1]
	case !sameRank:
		return from[1:]
	}
	return from
}

// SANLine renders a sequence of legal moves starting from the current
// position. The position is unchanged on return.
func (p *Position) SANLine(moves []Move) []string {
	out := make([]string, 0, len(moves))
	played := 0
	for _, m := range moves {
		out = append(out, p.SAN(m))
		if _, err := p.Apply(m); err != nil {
			break
		}
		played++
	}
	for ; played > 0; played-- {
		p.Undo()
	}
	return out
}
