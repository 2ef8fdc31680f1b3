package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

var allTiers = []EvalTier{TierMaterial, TierPieceSquare, TierKingSafety, TierPawnStructure, TierFull, TierEndgame}

func TestEvaluateStartPosition(t *testing.T) {
	pos := board.NewPosition()
	for _, tier := range allTiers {
		if got := Evaluate(pos, tier); got != 0 {
			t.Errorf("%v: start position = %d, want 0", tier, got)
		}
	}

	pos.Put(board.D1, board.NoPiece)
	if got := Evaluate(pos, TierMaterial); got != -900 {
		t.Errorf("without white queen = %d, want -900", got)
	}
}

func TestEvaluateDoesNotModify(t *testing.T) {
	pos := board.NewPosition()
	mustApply(t, pos, "e2e4", "d7d5")
	hash, ply := pos.Hash, pos.Ply()
	before := pos.Board

	for _, tier := range allTiers {
		Evaluate(pos, tier)
	}
	if pos.Hash != hash || pos.Ply() != ply || pos.Board != before {
		t.Error("Evaluate modified the position")
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	positions := map[string]*board.Position{
		"middlegame": newPosition(t, board.White,
			"Kg1", "Qd1", "Ra1", "Rf1", "Bc4", "Nf3", "Pa2", "Pb2", "Pc3", "Pf2", "Pg2", "Ph2", "Pe4",
			"kg8", "qe7", "ra8", "rf8", "bc8", "nc6", "pa7", "pb7", "pc7", "pf7", "pg7", "ph7", "pe5"),
		"endgame": newPosition(t, board.White, "Ke3", "Pd4", "Pa5", "Rh1", "kc6", "pd5", "ph7", "ra8"),
		"bishops": newPosition(t, board.Black, "Kc1", "Bd3", "Be3", "Pb2", "kg8", "nf6", "pg7", "ph6"),
	}

	for name, pos := range positions {
		m := mirrored(pos)
		for _, tier := range allTiers {
			a, b := Evaluate(pos, tier), Evaluate(m, tier)
			if a != -b {
				t.Errorf("%s %v: eval %d, mirrored %d", name, tier, a, b)
			}
		}
	}
}

func TestPieceSquareTables(t *testing.T) {
	tests := []struct {
		name  string
		piece board.Piece
		sq    board.Square
		want  int
	}{
		{"white knight in corner", board.NewPiece(board.Knight, board.White), board.A1, -50},
		{"white knight centralised", board.NewPiece(board.Knight, board.White), board.E4, 20},
		{"black knight centralised", board.NewPiece(board.Knight, board.Black), board.E5, 20},
		{"white pawn on seventh", board.NewPiece(board.Pawn, board.White), board.D7, 50},
		{"black pawn on second", board.NewPiece(board.Pawn, board.Black), board.D2, 50},
		{"white king castled", board.NewPiece(board.King, board.White), board.G1, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pstBonus(tc.piece, tc.sq); got != tc.want {
				t.Errorf("pstBonus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestKingShield(t *testing.T) {
	pos := board.NewPosition()
	if got := kingShield(pos, board.White); got != 3*pawnShieldBonus {
		t.Errorf("start position shield = %d, want %d", got, 3*pawnShieldBonus)
	}

	pos = newPosition(t, board.White, "Kg1", "Pf2", "Pg3", "kg8")
	if got, want := kingShield(pos, board.White), pawnShieldBonus+pawnShieldFarBonus; got != want {
		t.Errorf("shield = %d, want %d", got, want)
	}
	if got := kingShield(pos, board.Black); got != 0 {
		t.Errorf("bare king shield = %d, want 0", got)
	}
}

func TestPawnStructure(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		want   int
	}{
		// Doubled once, both isolated, both passed (ranks 2 and 3).
		{"doubled isolated passed", []string{"Ke1", "ke8", "Pa2", "Pa3"}, doubledPawnPenalty + 2*isolatedPawnPenalty + 2*passedPawnBase + passedPawnStep},
		// Neither is passed: the enemy pawns sit ahead on adjacent files.
		{"blocked pair", []string{"Ke1", "ke8", "Pd4", "Pe4", "pd5", "pe5"}, 0},
		// Both isolated passers; white's is four ranks further advanced.
		{"passer on sixth", []string{"Ke1", "ke8", "Pb6", "ph7"}, 4 * passedPawnStep},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := newPosition(t, board.White, tc.pieces...)
			if got := pawnStructure(pos); got != tc.want {
				t.Errorf("pawnStructure = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFullTierTerms(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		want   int
	}{
		{"bishop pair", []string{"Ke1", "Bc1", "Bf1", "ke8"}, bishopPairBonus},
		{"single bishop", []string{"Ke1", "Bc1", "ke8"}, 0},
		{"rook on open file", []string{"Ke1", "Ra1", "ke8"}, rookOpenFileBonus},
		{"rook behind enemy pawn", []string{"Ke1", "Ra1", "ke8", "pa7"}, 0},
		{"rooks on both sides", []string{"Ke1", "Ra1", "ke8", "rh8"}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := newPosition(t, board.White, tc.pieces...)
			got := Evaluate(pos, TierFull) - Evaluate(pos, TierPawnStructure)
			if got != tc.want {
				t.Errorf("full-tier terms = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIsEndgame(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		want   bool
	}{
		{"kings only", []string{"Ke1", "ke8"}, true},
		{"queenless", []string{"Ke1", "Ra1", "Rh1", "Nb1", "Ng1", "ke8", "ra8", "rh8"}, true},
		{"queens and few pieces", []string{"Ke1", "Qd1", "Ra1", "ke8", "qd8", "ra8"}, true},
		{"queens and many pieces", []string{"Ke1", "Qd1", "Ra1", "Rh1", "Nb1", "Ng1", "ke8", "qd8", "ra8"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEndgame(newPosition(t, board.White, tc.pieces...)); got != tc.want {
				t.Errorf("IsEndgame = %v, want %v", got, tc.want)
			}
		})
	}

	if IsEndgame(board.NewPosition()) {
		t.Error("start position reported as endgame")
	}
}

func TestEndgameKingTable(t *testing.T) {
	// In the opening the endgame tier adds nothing.
	start := board.NewPosition()
	if Evaluate(start, TierEndgame) != Evaluate(start, TierFull) {
		t.Error("endgame tier changed a middlegame evaluation")
	}

	// A centralised white king is worth more with the endgame table.
	pos := newPosition(t, board.White, "Ke4", "kh8")
	if Evaluate(pos, TierEndgame) <= Evaluate(pos, TierFull) {
		t.Errorf("central king: endgame %d, full %d", Evaluate(pos, TierEndgame), Evaluate(pos, TierFull))
	}
}
