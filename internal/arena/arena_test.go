package arena

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/storage"
)

func newStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New()
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// replay checks that the moves of r form a legal game from the start.
func replay(t *testing.T, r *Result) *board.Position {
	t.Helper()
	pos := board.NewPosition()
	for i, m := range r.Moves {
		if san := pos.SAN(m); san != r.SAN[i] {
			t.Errorf("ply %d: SAN %q, recorded %q", i, san, r.SAN[i])
		}
		if _, err := pos.Apply(m.Request()); err != nil {
			t.Fatalf("ply %d: %s: %v", i, m, err)
		}
	}
	return pos
}

func TestPlay(t *testing.T) {
	store := newStore(t)
	a := New(WithStore(store))

	m := Match{White: 2, Black: 3, MaxPlies: 30, Seed: 7}
	res, err := a.Play(context.Background(), m)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	pos := replay(t, res)

	switch res.Termination {
	case TerminationPlyLimit:
		if res.Plies() != 30 || res.Result != storage.ResultDraw {
			t.Errorf("ply-limit game: %d plies, result %s", res.Plies(), res.Result)
		}
	default:
		outcome, over := pos.GameEnd()
		if !over || outcome.Result() != res.Result {
			t.Errorf("game ended by %q but final position is %v %v", res.Termination, outcome, over)
		}
	}

	rec, err := store.GetGame(res.ID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if rec.White != 2 || rec.Black != 3 || rec.Plies != res.Plies() || rec.Result != res.Result {
		t.Errorf("stored record %+v does not match result", rec)
	}
	if diff := cmp.Diff(res.SAN, rec.SAN); diff != "" {
		t.Errorf("stored SAN (-played +stored):\n%s", diff)
	}
	t.Logf("%s: %s by %s in %d plies", m, res.Result, res.Termination, res.Plies())
}

func TestPlayIsReproducible(t *testing.T) {
	a := New()
	m := Match{White: 1, Black: 4, MaxPlies: 24, Seed: 99}

	first, err := a.Play(context.Background(), m)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	second, err := a.Play(context.Background(), m)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if diff := cmp.Diff(first.SAN, second.SAN); diff != "" {
		t.Errorf("same seed, different games (-first +second):\n%s", diff)
	}
}

func TestPlayErrors(t *testing.T) {
	a := New()

	if _, err := a.Play(context.Background(), Match{White: 0, Black: 5}); !errors.Is(err, engine.ErrInvalidLevel) {
		t.Errorf("invalid level err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Play(ctx, Match{White: 1, Black: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v, want context.Canceled", err)
	}
}

func TestRun(t *testing.T) {
	store := newStore(t)
	a := New(WithStore(store), WithWorkers(3), WithEvalCache(1<<12))

	matches := RoundRobin([]engine.Level{1, 2, 4}, 2, 16, 50*time.Millisecond, 1)
	results, err := a.Run(context.Background(), matches)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(matches) {
		t.Fatalf("Run returned %d results for %d matches", len(results), len(matches))
	}
	for i, r := range results {
		if r.Match != matches[i] {
			t.Errorf("result %d is for %s, want %s", i, r.Match, matches[i])
		}
		replay(t, r)
	}

	games, err := store.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != len(matches) {
		t.Errorf("stored %d games, want %d", len(games), len(matches))
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats: %v", err)
	}
	for _, s := range all {
		// Every level meets the two others twice.
		if s.GamesPlayed != 4 || s.Wins+s.Losses+s.Draws != 4 {
			t.Errorf("level %d stats: %+v", s.Level, s)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches := RoundRobin([]engine.Level{1, 2}, 4, 0, 0, 1)
	if _, err := New().Run(ctx, matches); !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
}

func TestRoundRobin(t *testing.T) {
	matches := RoundRobin([]engine.Level{3, 5, 7}, 2, 40, time.Second, 10)

	var got [][2]engine.Level
	seeds := map[uint64]bool{}
	for _, m := range matches {
		got = append(got, [2]engine.Level{m.White, m.Black})
		if m.MaxPlies != 40 || m.Budget != time.Second {
			t.Errorf("%s: MaxPlies %d, Budget %v", m, m.MaxPlies, m.Budget)
		}
		if seeds[m.Seed] || seeds[m.Seed+1] {
			t.Errorf("%s: seed %d overlaps another match", m, m.Seed)
		}
		seeds[m.Seed], seeds[m.Seed+1] = true, true
	}

	want := [][2]engine.Level{{3, 5}, {5, 3}, {3, 7}, {7, 3}, {5, 7}, {7, 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pairings (-want +got):\n%s", diff)
	}
}
