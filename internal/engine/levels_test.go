package engine

import (
	"errors"
	"testing"
)

func TestLevelConfigs(t *testing.T) {
	tests := []struct {
		level  Level
		depth  int
		random int
		tier   EvalTier
	}{
		{1, 1, 70, TierMaterial},
		{2, 1, 50, TierMaterial},
		{3, 2, 30, TierMaterial},
		{4, 2, 0, TierPieceSquare},
		{5, 3, 0, TierKingSafety},
		{6, 3, 0, TierPawnStructure},
		{7, 4, 0, TierFull},
		{8, 4, 0, TierFull},
		{9, 5, 0, TierEndgame},
		{10, 5, 0, TierEndgame},
	}

	for _, tc := range tests {
		t.Run(tc.level.String(), func(t *testing.T) {
			cfg := tc.level.Config()
			if cfg.Depth != tc.depth {
				t.Errorf("depth = %d, want %d", cfg.Depth, tc.depth)
			}
			if cfg.RandomMovePercent != tc.random {
				t.Errorf("random = %d%%, want %d%%", cfg.RandomMovePercent, tc.random)
			}
			if cfg.EvalTier != tc.tier {
				t.Errorf("tier = %v, want %v", cfg.EvalTier, tc.tier)
			}
			if got := cfg.AlphaBeta; got != (tc.level >= 4) {
				t.Errorf("alpha-beta = %v", got)
			}
			if got := cfg.MoveOrdering; got != (tc.level >= 6) {
				t.Errorf("move ordering = %v", got)
			}
			if got := cfg.OpeningBook; got != (tc.level >= 8) {
				t.Errorf("opening book = %v", got)
			}
			only10 := tc.level == 10
			if cfg.Quiescence != only10 || cfg.TranspositionTable != only10 || cfg.IterativeDeepening != only10 {
				t.Errorf("quiescence/tt/deepening = %v/%v/%v", cfg.Quiescence, cfg.TranspositionTable, cfg.IterativeDeepening)
			}
		})
	}
}

func TestLevelsNeverWeaken(t *testing.T) {
	levels := Levels()
	if len(levels) != 10 || levels[0] != MinLevel || levels[9] != MaxLevel {
		t.Fatalf("Levels() = %v", levels)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1].Config(), levels[i].Config()
		if cur.Depth < prev.Depth {
			t.Errorf("level %d: depth drops from %d to %d", levels[i], prev.Depth, cur.Depth)
		}
		if cur.RandomMovePercent > prev.RandomMovePercent {
			t.Errorf("level %d: random rises from %d to %d", levels[i], prev.RandomMovePercent, cur.RandomMovePercent)
		}
		if cur.EvalTier < prev.EvalTier {
			t.Errorf("level %d: tier drops from %v to %v", levels[i], prev.EvalTier, cur.EvalTier)
		}
		if prev.AlphaBeta && !cur.AlphaBeta || prev.MoveOrdering && !cur.MoveOrdering || prev.OpeningBook && !cur.OpeningBook {
			t.Errorf("level %d: loses a feature of level %d", levels[i], levels[i-1])
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, n := range []int{1, 5, 10} {
		l, err := ParseLevel(n)
		if err != nil || int(l) != n {
			t.Errorf("ParseLevel(%d) = %v, %v", n, l, err)
		}
	}
	for _, n := range []int{-1, 0, 11} {
		if _, err := ParseLevel(n); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseLevel(%d) error = %v, want ErrInvalidLevel", n, err)
		}
	}
}

func TestLevelString(t *testing.T) {
	if got := Level(10).String(); got != "10 (Grandmaster)" {
		t.Errorf("String() = %q", got)
	}
	if got := Level(0).String(); got != "Level(0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestInvalidLevelConfigPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Config() on level 11 did not panic")
		}
	}()
	_ = Level(11).Config()
}
