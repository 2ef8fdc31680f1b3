// Command chessplay-arena plays the engine's difficulty levels against each
// other and prints the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-logr/stdr"

	"github.com/hailam/chessplay/internal/arena"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/storage"
)

var (
	levelsFlag = flag.String("levels", "1,4,7,10", "comma-separated levels to pair")
	games      = flag.Int("games", 2, "games per pairing, colors alternate")
	maxPlies   = flag.Int("plies", arena.DefaultMaxPlies, "adjudicate a draw after this many plies")
	budget     = flag.Duration("budget", engine.DefaultTimeBudget, "per-move budget for iterative deepening")
	seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	workers    = flag.Int("workers", arena.DefaultWorkers, "games played at once")
	evalCache  = flag.Int64("evalcache", 1<<16, "evaluation cache entries per engine, 0 disables")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("arena")

	levels, err := parseLevels(*levelsFlag)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(storage.WithLogger(logger.WithName("store")))
	if err != nil {
		log.Fatal("could not open store: ", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := arena.New(
		arena.WithStore(store),
		arena.WithLogger(logger),
		arena.WithWorkers(*workers),
		arena.WithEvalCache(*evalCache),
	)

	matches := arena.RoundRobin(levels, *games, *maxPlies, *budget, *seed)
	logger.Info("starting", "matches", len(matches), "workers", *workers, "seed", *seed)

	results, err := a.Run(ctx, matches)
	if err != nil {
		log.Fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHITE\tBLACK\tRESULT\tTERMINATION\tPLIES")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.Match.White, r.Match.Black, r.Result, r.Termination, r.Plies())
	}
	w.Flush()
	fmt.Println()

	stats, err := store.AllStats()
	if err != nil {
		log.Fatal(err)
	}
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tPLAYED\tWON\tLOST\tDRAWN\tWIN%")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.1f\n", engine.Level(s.Level), s.GamesPlayed, s.Wins, s.Losses, s.Draws, s.GetWinRate())
	}
	w.Flush()
}

func parseLevels(s string) ([]engine.Level, error) {
	var levels []engine.Level
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad level %q: %w", f, err)
		}
		l, err := engine.ParseLevel(n)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	if len(levels) < 2 {
		return nil, fmt.Errorf("need at least two levels, got %d", len(levels))
	}
	return levels, nil
}
