// Package storage keeps finished games and per-level results in an
// in-memory BadgerDB. Nothing is written to disk; the store lives as long
// as the process.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Storage key prefixes
const (
	prefixGame  = "game/"
	prefixStats = "stats/"
)

// Game results as written in records
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

// ErrNotFound is returned when a game record does not exist.
var ErrNotFound = errors.New("not found")

// GameRecord describes one finished game.
type GameRecord struct {
	ID          uuid.UUID     `json:"id"`
	White       int           `json:"white_level"`
	Black       int           `json:"black_level"`
	Moves       []string      `json:"moves"` // Coordinate notation, e.g. "e2e4"
	SAN         []string      `json:"san"`
	Result      string        `json:"result"`
	Termination string        `json:"termination"`
	Plies       int           `json:"plies"`
	Duration    time.Duration `json:"duration"`
	PlayedAt    time.Time     `json:"played_at"`
}

// LevelStats stores results from the point of view of one level.
type LevelStats struct {
	Level          int           `json:"level"`
	GamesPlayed    int           `json:"games_played"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	Draws          int           `json:"draws"`
	TotalPlayTime  time.Duration `json:"total_play_time"`
	LongestWinStrk int           `json:"longest_win_streak"`
	CurrentStreak  int           `json:"current_streak"`
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *LevelStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// record adds one game result: +1 win, 0 draw, -1 loss.
func (s *LevelStats) record(outcome int, d time.Duration) {
	s.GamesPlayed++
	s.TotalPlayTime += d

	switch {
	case outcome == 0:
		s.Draws++
		s.CurrentStreak = 0
	case outcome > 0:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
	default:
		s.Losses++
		s.CurrentStreak = 0
	}
}

// Storage wraps an in-memory BadgerDB.
type Storage struct {
	db  *badger.DB
	log logr.Logger
	now func() time.Time

	// Serializes the read-modify-write of level statistics.
	mu sync.Mutex
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger routes database and store messages to log.
func WithLogger(log logr.Logger) Option {
	return func(s *Storage) {
		s.log = log
	}
}

// WithClock sets the clock used to stamp records without a PlayedAt time.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// New opens an empty in-memory store.
func New(opts ...Option) (*Storage, error) {
	s := &Storage{
		log: logr.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	bopts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger{s.log.WithName("badger")})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.db = db
	return s, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id uuid.UUID) []byte {
	return []byte(prefixGame + id.String())
}

func statsKey(level int) []byte {
	return []byte(prefixStats + strconv.Itoa(level))
}

// RecordGame stores rec and updates the statistics of both levels in one
// transaction. A zero ID or PlayedAt is filled in; the record's ID is returned.
func (s *Storage) RecordGame(rec *GameRecord) (uuid.UUID, error) {
	white, err := outcomeForWhite(rec.Result)
	if err != nil {
		return uuid.Nil, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = s.now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}
		if err := updateStats(txn, rec.White, white, rec.Duration); err != nil {
			return err
		}
		return updateStats(txn, rec.Black, -white, rec.Duration)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("record game %s: %w", rec.ID, err)
	}

	s.log.V(1).Info("game recorded", "id", rec.ID, "white", rec.White, "black", rec.Black, "result", rec.Result)
	return rec.ID, nil
}

func outcomeForWhite(result string) (int, error) {
	switch result {
	case ResultWhiteWins:
		return 1, nil
	case ResultBlackWins:
		return -1, nil
	case ResultDraw:
		return 0, nil
	}
	return 0, fmt.Errorf("unknown result %q", result)
}

func updateStats(txn *badger.Txn, level, outcome int, d time.Duration) error {
	stats, err := loadStats(txn, level)
	if err != nil {
		return err
	}
	stats.record(outcome, d)

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set(statsKey(level), data)
}

func loadStats(txn *badger.Txn, level int) (*LevelStats, error) {
	stats := &LevelStats{Level: level}

	item, err := txn.Get(statsKey(level))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

// GetGame loads a game record by id.
func (s *Storage) GetGame(id uuid.UUID) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every stored game, oldest first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlayedAt.Before(games[j].PlayedAt)
	})
	return games, nil
}

// LoadStats loads the statistics of a level, empty if it never played.
func (s *Storage) LoadStats(level int) (*LevelStats, error) {
	var stats *LevelStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn, level)
		return err
	})
	return stats, err
}

// GetWinRate returns the win rate of a level as a percentage (0-100).
func (s *Storage) GetWinRate(level int) (float64, error) {
	stats, err := s.LoadStats(level)
	if err != nil {
		return 0, err
	}
	return stats.GetWinRate(), nil
}

// AllStats returns the statistics of every level that played, by level.
func (s *Storage) AllStats() ([]*LevelStats, error) {
	var all []*LevelStats

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixStats)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			stats := &LevelStats{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			})
			if err != nil {
				return err
			}
			all = append(all, stats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Level < all[j].Level })
	return all, nil
}
