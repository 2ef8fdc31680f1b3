package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king on h8 boxed in by its own pawns.
	pos := setup(t, "R6k/6pp/8/8/8/8/8/K7", Black, NoCastling, "")

	t.Log("Checkmate position:")
	t.Log(pos)

	if !pos.InCheck(Black) {
		t.Fatal("black should be in check")
	}
	if n := len(pos.LegalMoves(Black)); n != 0 {
		t.Fatalf("black has %d legal moves, want 0", n)
	}

	out, over := pos.GameEnd()
	if !over || out.Kind != Checkmate || out.Winner != White {
		t.Errorf("GameEnd() = %+v, %v; want checkmate won by white", out, over)
	}
	if out.Result() != "1-0" {
		t.Errorf("Result() = %s, want 1-0", out.Result())
	}
}

func TestNotCheckmate(t *testing.T) {
	// The black king can capture the checking rook.
	pos := setup(t, "6Rk/8/8/8/8/8/8/K7", Black, NoCastling, "")

	moves := pos.LegalMoves(Black)
	t.Log("Black legal moves:", len(moves))

	if out, over := pos.GameEnd(); over {
		t.Errorf("GameEnd() = %+v, want game in progress", out)
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewPosition()
	play(t, pos, "f2f3", "e7e5", "g2g4", "d8h4")

	out, over := pos.GameEndFor(White)
	if !over {
		t.Fatal("expected game over")
	}
	if out.Kind != Checkmate || out.Winner != Black {
		t.Errorf("got %+v, want checkmate won by black", out)
	}
}

func TestGameEnd(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		side      Color
		halfMoves int
		want      OutcomeKind
		over      bool
	}{
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8", Black, 0, Stalemate, true},
		{"king vs king", "7k/8/8/8/8/8/8/K7", White, 0, InsufficientMaterial, true},
		{"king and knight vs king", "7k/8/8/8/8/8/8/KN6", Black, 0, InsufficientMaterial, true},
		{"king vs king and bishop", "6bk/8/8/8/8/8/8/K7", White, 0, InsufficientMaterial, true},
		{"two knights play on", "7k/8/8/8/8/8/8/KNN5", White, 0, NoOutcome, false},
		{"king and pawn play on", "7k/8/8/8/8/8/P7/K7", White, 0, NoOutcome, false},
		{"minor each side plays on", "6nk/8/8/8/8/8/8/KN6", White, 0, NoOutcome, false},
		{"fifty moves", "7k/8/8/8/8/8/8/KR6", White, 100, FiftyMoveDraw, true},
		{"ninety nine half moves", "7k/8/8/8/8/8/8/KR6", White, 99, NoOutcome, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := setup(t, tc.placement, tc.side, NoCastling, "")
			pos.HalfMoveClock = tc.halfMoves

			out, over := pos.GameEnd()
			if over != tc.over || out.Kind != tc.want {
				t.Errorf("GameEnd() = %+v, %v; want %s, %v", out, over, tc.want, tc.over)
			}
			if over && tc.want.IsDraw() && out.Winner != NoColor {
				t.Errorf("draw has winner %s", out.Winner)
			}
		})
	}
}

func TestCheckmatePrecedesFiftyMoves(t *testing.T) {
	pos := setup(t, "R6k/6pp/8/8/8/8/8/K7", Black, NoCastling, "")
	pos.HalfMoveClock = 120

	out, _ := pos.GameEnd()
	if out.Kind != Checkmate {
		t.Errorf("got %s, want checkmate", out.Kind)
	}
}
