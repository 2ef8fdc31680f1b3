package board

// OutcomeKind classifies how a game ended.
type OutcomeKind uint8

const (
	NoOutcome OutcomeKind = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	InsufficientMaterial
)

func (k OutcomeKind) String() string {
	switch k {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move draw"
	case InsufficientMaterial:
		return "insufficient material"
	}
	return "none"
}

// IsDraw reports whether the outcome is drawn.
func (k OutcomeKind) IsDraw() bool {
	return k == Stalemate || k == FiftyMoveDraw || k == InsufficientMaterial
}

// Outcome describes a finished game. Winner is NoColor for draws.
type Outcome struct {
	Kind   OutcomeKind
	Winner Color
}

// Result returns the conventional result string ("1-0", "0-1", "1/2-1/2").
func (o Outcome) Result() string {
	switch {
	case o.Kind == NoOutcome:
		return "*"
	case o.Winner == White:
		return "1-0"
	case o.Winner == Black:
		return "0-1"
	}
	return "1/2-1/2"
}

// GameEnd checks the game-end conditions for the side to move.
func (p *Position) GameEnd() (Outcome, bool) {
	return p.GameEndFor(p.SideToMove)
}

// GameEndFor checks whether the game is over from the point of view of c.
// No legal moves is checkmate or stalemate; otherwise the fifty-move rule
// and insufficient material are tested in that order.
func (p *Position) GameEndFor(c Color) (Outcome, bool) {
	if !p.HasLegalMoves(c) {
		if p.InCheck(c) {
			return Outcome{Kind: Checkmate, Winner: c.Other()}, true
		}
		return Outcome{Kind: Stalemate, Winner: NoColor}, true
	}
	if p.HalfMoveClock >= 100 {
		return Outcome{Kind: FiftyMoveDraw, Winner: NoColor}, true
	}
	if p.IsInsufficientMaterial() {
		return Outcome{Kind: InsufficientMaterial, Winner: NoColor}, true
	}
	return Outcome{Kind: NoOutcome, Winner: NoColor}, false
}

// IsInsufficientMaterial reports king versus king, or king and a single
// knight or bishop versus a lone king. Two knights or same-colored bishops
// are not covered.
func (p *Position) IsInsufficientMaterial() bool {
	var count [2]int
	var minor [2]bool
	for _, pc := range p.Board {
		if pc.IsEmpty() {
			continue
		}
		count[pc.Color]++
		if pc.Type == Knight || pc.Type == Bishop {
			minor[pc.Color] = true
		}
	}

	switch {
	case count[White] == 1 && count[Black] == 1:
		return true
	case count[White] == 1 && count[Black] == 2:
		return minor[Black]
	case count[Black] == 1 && count[White] == 2:
		return minor[White]
	}
	return false
}
