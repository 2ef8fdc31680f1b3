package engine

import (
	"fmt"
	"time"
)

// Level is the engine difficulty, from 1 (weakest) to 10 (strongest).
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 10
)

// DefaultTimeBudget is the wall-clock budget for iterative deepening.
const DefaultTimeBudget = 2500 * time.Millisecond

// Config describes how a level searches.
type Config struct {
	Name               string
	Depth              int // Fixed search depth in plies
	RandomMovePercent  int // Chance of playing a uniformly random legal move
	AlphaBeta          bool
	MoveOrdering       bool
	OpeningBook        bool
	Quiescence         bool
	TranspositionTable bool
	IterativeDeepening bool // Searches depth 1 to Depth+2 under the time budget
	EvalTier           EvalTier
}

var levelConfigs = [MaxLevel + 1]Config{
	1:  {Name: "Baby", Depth: 1, RandomMovePercent: 70, EvalTier: TierMaterial},
	2:  {Name: "Novice", Depth: 1, RandomMovePercent: 50, EvalTier: TierMaterial},
	3:  {Name: "Beginner", Depth: 2, RandomMovePercent: 30, EvalTier: TierMaterial},
	4:  {Name: "Elementary", Depth: 2, AlphaBeta: true, EvalTier: TierPieceSquare},
	5:  {Name: "Intermediate", Depth: 3, AlphaBeta: true, EvalTier: TierKingSafety},
	6:  {Name: "Upper-intermediate", Depth: 3, AlphaBeta: true, MoveOrdering: true, EvalTier: TierPawnStructure},
	7:  {Name: "Advanced", Depth: 4, AlphaBeta: true, MoveOrdering: true, EvalTier: TierFull},
	8:  {Name: "Expert", Depth: 4, AlphaBeta: true, MoveOrdering: true, OpeningBook: true, EvalTier: TierFull},
	9:  {Name: "Master", Depth: 5, AlphaBeta: true, MoveOrdering: true, OpeningBook: true, EvalTier: TierEndgame},
	10: {
		Name: "Grandmaster", Depth: 5, AlphaBeta: true, MoveOrdering: true, OpeningBook: true,
		Quiescence: true, TranspositionTable: true, IterativeDeepening: true, EvalTier: TierEndgame,
	},
}

// Valid reports whether l is between MinLevel and MaxLevel.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Config returns the configuration of l. It panics on an invalid level;
// use ParseLevel or Valid for untrusted input.
func (l Level) Config() Config {
	if !l.Valid() {
		panic(fmt.Sprintf("engine: invalid level %d", int(l)))
	}
	return levelConfigs[l]
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return fmt.Sprintf("%d (%s)", int(l), levelConfigs[l].Name)
}

// ParseLevel converts an integer to a Level.
func ParseLevel(n int) (Level, error) {
	l := Level(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, n)
	}
	return l, nil
}

// Levels returns every level, weakest first.
func Levels() []Level {
	levels := make([]Level, 0, MaxLevel)
	for l := MinLevel; l <= MaxLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

// LevelEvalTier returns the evaluation tier used by l.
func LevelEvalTier(l Level) EvalTier {
	return l.Config().EvalTier
}
