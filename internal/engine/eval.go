package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// EvalTier selects how much positional knowledge the evaluation uses.
// Each tier includes every term of the tiers below it.
type EvalTier int

const (
	TierMaterial      EvalTier = iota + 1 // Material only
	TierPieceSquare                       // + piece-square tables
	TierKingSafety                        // + pawn shield in front of the king
	TierPawnStructure                     // + doubled, isolated and passed pawns
	TierFull                              // + bishop pair, rooks on open files
	TierEndgame                           // + endgame king table
)

func (t EvalTier) String() string {
	switch t {
	case TierMaterial:
		return "material"
	case TierPieceSquare:
		return "piece-square"
	case TierKingSafety:
		return "king-safety"
	case TierPawnStructure:
		return "pawn-structure"
	case TierFull:
		return "full"
	case TierEndgame:
		return "endgame"
	}
	return "unknown"
}

// Evaluation terms in centipawns
const (
	pawnShieldBonus     = 10 // Own pawn directly in front of the king
	pawnShieldFarBonus  = 5  // Own pawn two squares in front
	bishopPairBonus     = 30
	rookOpenFileBonus   = 15
	doubledPawnPenalty  = -15 // Per extra pawn on a file
	isolatedPawnPenalty = -12 // Per pawn with no friendly pawn on an adjacent file
	passedPawnBase      = 20
	passedPawnStep      = 10 // Per rank advanced beyond the second
)

// Evaluate returns the static evaluation of pos in centipawns from white's
// point of view. It reads the board only and never modifies pos.
func Evaluate(pos *board.Position, tier EvalTier) int {
	return evaluate(pos, tier, nil)
}

// EvaluateWithPawnTable is Evaluate with the pawn structure term cached in pt.
func EvaluateWithPawnTable(pos *board.Position, tier EvalTier, pt *PawnTable) int {
	return evaluate(pos, tier, pt)
}

func evaluate(pos *board.Position, tier EvalTier, pt *PawnTable) int {
	score := 0
	var bishops [2]int

	for i, pc := range pos.Board {
		if pc.IsEmpty() {
			continue
		}
		sq := board.Square(i)
		v := pc.Value()
		if tier >= TierPieceSquare {
			v += pstBonus(pc, sq)
		}
		if pc.Type == board.Bishop {
			bishops[pc.Color]++
		}
		score += sign(pc.Color) * v
	}

	if tier >= TierKingSafety {
		score += kingShield(pos, board.White) - kingShield(pos, board.Black)
	}

	if tier >= TierPawnStructure {
		score += pawnStructureCached(pos, pt)
	}

	if tier >= TierFull {
		if bishops[board.White] >= 2 {
			score += bishopPairBonus
		}
		if bishops[board.Black] >= 2 {
			score -= bishopPairBonus
		}
		score += rooksOnOpenFiles(pos)
	}

	if tier >= TierEndgame && IsEndgame(pos) {
		for _, c := range [2]board.Color{board.White, board.Black} {
			ksq := pos.KingSquare(c)
			if ksq == board.NoSquare {
				continue
			}
			swap := kingEndgameTable.at(c, ksq) - kingMiddlegameTable.at(c, ksq)
			score += sign(c) * swap
		}
	}

	return score
}

// sign returns +1 for white and -1 for black.
func sign(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

// IsEndgame reports whether there are no queens, or at most two queens
// together with at most four rooks and minor pieces.
func IsEndgame(pos *board.Position) bool {
	queens, pieces := 0, 0
	for _, pc := range pos.Board {
		switch pc.Type {
		case board.Queen:
			queens++
		case board.Rook, board.Bishop, board.Knight:
			pieces++
		}
	}
	return queens == 0 || (queens <= 2 && pieces <= 4)
}

// kingShield scores own pawns on the king's file and both neighbours,
// one or two squares in front of the king.
func kingShield(pos *board.Position, c board.Color) int {
	ksq := pos.KingSquare(c)
	if ksq == board.NoSquare {
		return 0
	}
	dir := 1
	if c == board.Black {
		dir = -1
	}

	score := 0
	for df := -1; df <= 1; df++ {
		if sq, ok := ksq.Offset(board.Delta{File: df, Rank: dir}); ok && pos.Board[sq].Is(board.Pawn, c) {
			score += pawnShieldBonus
			continue
		}
		if sq, ok := ksq.Offset(board.Delta{File: df, Rank: 2 * dir}); ok && pos.Board[sq].Is(board.Pawn, c) {
			score += pawnShieldFarBonus
		}
	}
	return score
}

func pawnStructureCached(pos *board.Position, pt *PawnTable) int {
	if pt == nil {
		return pawnStructure(pos)
	}
	if score, found := pt.Probe(pos.PawnKey); found {
		return score
	}
	score := pawnStructure(pos)
	pt.Store(pos.PawnKey, score)
	return score
}

// pawnStructure scores doubled, isolated and passed pawns. It depends on
// pawn placement only.
func pawnStructure(pos *board.Position) int {
	var files [2][8]int
	for i, pc := range pos.Board {
		if pc.Type == board.Pawn {
			files[pc.Color][board.Square(i).File()]++
		}
	}

	score := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		s := 0
		for f := 0; f < 8; f++ {
			if n := files[c][f]; n > 1 {
				s += doubledPawnPenalty * (n - 1)
			}
		}
		score += sign(c) * s
	}

	for i, pc := range pos.Board {
		if pc.Type != board.Pawn {
			continue
		}
		sq := board.Square(i)
		c := pc.Color
		f := sq.File()

		s := 0
		if (f == 0 || files[c][f-1] == 0) && (f == 7 || files[c][f+1] == 0) {
			s += isolatedPawnPenalty
		}
		if isPassed(pos, sq, c) {
			s += passedPawnBase + passedPawnStep*(sq.RelativeRank(c)-1)
		}
		score += sign(c) * s
	}

	return score
}

// isPassed reports whether no enemy pawn stands ahead of the pawn on sq on
// its own or an adjacent file.
func isPassed(pos *board.Position, sq board.Square, c board.Color) bool {
	enemy := board.NewPiece(board.Pawn, c.Other())
	dir := 1
	if c == board.Black {
		dir = -1
	}
	for r := sq.Rank() + dir; r >= 0 && r <= 7; r += dir {
		for f := sq.File() - 1; f <= sq.File()+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			if pos.Board[board.NewSquare(f, r)] == enemy {
				return false
			}
		}
	}
	return true
}

// rooksOnOpenFiles rewards rooks on files without pawns of either color.
func rooksOnOpenFiles(pos *board.Position) int {
	score := 0
	for f := 0; f < 8; f++ {
		open := true
		for r := 0; r < 8; r++ {
			if pos.Board[board.NewSquare(f, r)].Type == board.Pawn {
				open = false
				break
			}
		}
		if !open {
			continue
		}
		for r := 0; r < 8; r++ {
			if pc := pos.Board[board.NewSquare(f, r)]; pc.Type == board.Rook {
				score += sign(pc.Color) * rookOpenFileBonus
			}
		}
	}
	return score
}
