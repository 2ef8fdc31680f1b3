// Package arena plays engine-versus-engine games between difficulty levels
// and records the results.
package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/storage"
)

// Defaults for a Match
const (
	DefaultMaxPlies = 200
	DefaultWorkers  = 4
)

// TerminationPlyLimit marks a game adjudicated as a draw at the ply cap.
const TerminationPlyLimit = "ply limit"

// Match describes one game between two levels.
type Match struct {
	White, Black engine.Level
	MaxPlies     int           // Game is drawn after this many plies, DefaultMaxPlies if zero
	Budget       time.Duration // Per-move budget for iterative deepening
	Seed         uint64
}

func (m Match) String() string {
	return fmt.Sprintf("L%d vs L%d", int(m.White), int(m.Black))
}

// Result is a finished game.
type Result struct {
	ID          uuid.UUID
	Match       Match
	Outcome     board.Outcome
	Result      string // "1-0", "0-1" or "1/2-1/2"
	Termination string
	Moves       []board.Move
	SAN         []string
	Duration    time.Duration
}

// Plies returns the number of half-moves played.
func (r *Result) Plies() int {
	return len(r.Moves)
}

// Arena runs matches. It is safe for concurrent use; every game gets its
// own position and engines.
type Arena struct {
	store     *storage.Storage
	log       logr.Logger
	workers   int
	evalCache int64
}

// Option configures an Arena.
type Option func(*Arena)

// WithStore records every finished game in s.
func WithStore(s *storage.Storage) Option {
	return func(a *Arena) {
		a.store = s
	}
}

// WithLogger sets the logger. Engines log their searches at V(2).
func WithLogger(log logr.Logger) Option {
	return func(a *Arena) {
		a.log = log
	}
}

// WithWorkers sets how many games Run plays at once.
func WithWorkers(n int) Option {
	return func(a *Arena) {
		a.workers = n
	}
}

// WithEvalCache gives each engine an evaluation cache of about n entries.
func WithEvalCache(n int64) Option {
	return func(a *Arena) {
		a.evalCache = n
	}
}

// New creates an arena.
func New(opts ...Option) *Arena {
	a := &Arena{
		log:     logr.Discard(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = 1
	}
	return a
}

func (a *Arena) newEngine(seed uint64, color board.Color) (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithSeed(seed),
		engine.WithLogger(a.log.WithName(color.String()).V(1)),
	}
	if a.evalCache > 0 {
		opts = append(opts, engine.WithEvalCache(a.evalCache))
	}
	return engine.NewEngine(opts...)
}

// Play plays one game to its end, or to the ply cap, and stores it when the
// arena has a store. Cancelling ctx stops the engine at its next root move
// and abandons the game.
func (a *Arena) Play(ctx context.Context, m Match) (*Result, error) {
	if !m.White.Valid() || !m.Black.Valid() {
		return nil, fmt.Errorf("match %s: %w", m, engine.ErrInvalidLevel)
	}
	maxPlies := m.MaxPlies
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}

	var engines [2]*engine.Engine
	for _, c := range [2]board.Color{board.White, board.Black} {
		eng, err := a.newEngine(m.Seed+uint64(c), c)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", m, err)
		}
		defer eng.Close()
		engines[c] = eng
	}
	levels := [2]engine.Level{m.White, m.Black}

	log := a.log.WithValues("match", m.String())
	pos := board.NewPosition()
	res := &Result{Match: m}
	start := time.Now()

	for {
		if outcome, over := pos.GameEnd(); over {
			res.Outcome = outcome
			res.Result = outcome.Result()
			res.Termination = outcome.Kind.String()
			break
		}
		if pos.Ply() >= maxPlies {
			res.Result = storage.ResultDraw
			res.Termination = TerminationPlyLimit
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		side := pos.SideToMove
		eng := engines[side]
		stop := context.AfterFunc(ctx, eng.Stop)
		mv, err := eng.BestMove(pos, levels[side], m.Budget)
		stop()
		if err != nil {
			return nil, fmt.Errorf("match %s ply %d: %w", m, pos.Ply(), err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		san := pos.SAN(mv)
		applied, err := pos.Apply(mv)
		if err != nil {
			return nil, fmt.Errorf("match %s ply %d: %w", m, pos.Ply(), err)
		}
		res.Moves = append(res.Moves, applied)
		res.SAN = append(res.SAN, san)
	}
	res.Duration = time.Since(start)

	log.Info("game over", "result", res.Result, "termination", res.Termination, "plies", res.Plies(), "duration", res.Duration)

	if a.store != nil {
		id, err := a.store.RecordGame(res.record())
		if err != nil {
			return nil, err
		}
		res.ID = id
	} else {
		res.ID = uuid.New()
	}
	return res, nil
}

func (r *Result) record() *storage.GameRecord {
	moves := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = m.String()
	}
	return &storage.GameRecord{
		White:       int(r.Match.White),
		Black:       int(r.Match.Black),
		Moves:       moves,
		SAN:         r.SAN,
		Result:      r.Result,
		Termination: r.Termination,
		Plies:       r.Plies(),
		Duration:    r.Duration,
	}
}

// Run plays matches concurrently, at most the configured number at a time.
// Results are returned in match order. The first failure cancels the
// remaining games.
func (a *Arena) Run(ctx context.Context, matches []Match) ([]*Result, error) {
	results := make([]*Result, len(matches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, m := range matches {
		g.Go(func() error {
			res, err := a.Play(ctx, m)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RoundRobin pairs every two distinct levels games times, alternating
// colors. Each match gets its own seed derived from seed.
func RoundRobin(levels []engine.Level, games, maxPlies int, budget time.Duration, seed uint64) []Match {
	var matches []Match
	for i, a := range levels {
		for _, b := range levels[i+1:] {
			for g := 0; g < games; g++ {
				white, black := a, b
				if g%2 == 1 {
					white, black = b, a
				}
				matches = append(matches, Match{
					White:    white,
					Black:    black,
					MaxPlies: maxPlies,
					Budget:   budget,
					Seed:     seed + uint64(len(matches))*2,
				})
			}
		}
	}
	return matches
}
