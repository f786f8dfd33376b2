package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/palemoky/tennis/internal/config"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/logger"
	"github.com/palemoky/tennis/internal/rating"
	"github.com/palemoky/tennis/internal/stats"
	"github.com/palemoky/tennis/internal/storage"
)

// options holds the flags shared by every subcommand. Zero values fall back to the config.
type options struct {
	configPath string
	envFile    string
	seed       uint64
	workers    int
	trump      string
	record     bool
	debug      bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "配置文件路径 (yaml)")
	fs.StringVar(&o.envFile, "env", ".env", "file with TENNIS_* overrides")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed, 0 for a random one")
	fs.IntVar(&o.workers, "workers", 0, "parallel workers, 0 for one per CPU")
	fs.StringVar(&o.trump, "trump", "", "trump suit: random, none, C, D, H or S")
	fs.BoolVar(&o.record, "record", false, "record results to redis")
	fs.BoolVar(&o.debug, "debug", false, "write round details to the debug log")
}

// env 运行环境: the loaded config plus the optional stores the results go to.
type env struct {
	cfg     *config.Config
	seed    uint64
	logger  game.Logger
	ratings *rating.Table
	board   *storage.Leaderboard
	closers []func()

	mu  sync.Mutex
	err error
}

// setup parses args, loads the config and opens the log file and redis when asked for.
func setup(ctx context.Context, fs *flag.FlagSet, o *options, args []string) (*env, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	var cfg *config.Config
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	}
	if o.seed != 0 {
		cfg.Simulation.Seed = o.seed
	}
	if o.workers != 0 {
		cfg.Simulation.Workers = o.workers
	}
	if o.trump != "" {
		cfg.Simulation.Trump = o.trump
	}
	if _, _, err := cfg.Simulation.TrumpSuit(); err != nil {
		return nil, fmt.Errorf("trump: %w", err)
	}
	if o.record {
		cfg.Redis.Enabled = true
	}
	if o.debug {
		cfg.Log.Debug = true
	}

	e := &env{cfg: cfg, seed: cfg.Simulation.Seed, ratings: rating.NewTable(rating.DefaultStart, rating.DefaultK)}
	if e.seed == 0 {
		e.seed = rand.Uint64()
	}

	if err := logger.Init(cfg.Log.Dir); err != nil {
		return nil, err
	}
	e.closers = append(e.closers, logger.Close)
	logger.SetDebug(cfg.Log.Debug)
	if cfg.Log.Debug {
		e.logger = logger.Debug{}
	}

	if cfg.Redis.Enabled {
		client, err := storage.Connect(ctx, storage.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			e.close()
			return nil, err
		}
		e.board = storage.NewLeaderboard(client)
		e.closers = append(e.closers, func() { _ = client.Close() })
		logger.LogInfo("recording to redis at %s", cfg.Redis.Addr)
	}
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// source returns the randomness for the n-th independent use of the seed.
func (e *env) source(n uint64) *rand.Rand {
	return rand.New(rand.NewPCG(e.seed, n))
}

// trump draws the trump of a single round from rng.
func (e *env) trump(rng *rand.Rand) card.Suit {
	return e.trumpPicker()(rng)
}

func (e *env) trumpPicker() stats.TrumpPicker {
	suit, random, _ := e.cfg.Simulation.TrumpSuit()
	if random {
		return stats.RandomTrump
	}
	return stats.FixedTrump(suit)
}

// recordRound updates the ratings and, when redis is on, the leaderboard. It is called
// from worker goroutines; the first storage error is kept for recordErr.
func (e *env) recordRound(ctx context.Context, rep *game.Report) {
	e.ratings.RecordRound(rep)
	if e.board == nil {
		return
	}
	if err := e.board.RecordRound(ctx, rep); err != nil {
		e.keepErr(err)
		logger.LogError("record round %s: %v", rep.ID, err)
	}
}

// recordMatch 记录一对回合, same as recordRound for both rounds of m.
func (e *env) recordMatch(ctx context.Context, m *game.MatchReport) {
	e.ratings.RecordMatch(m)
	if e.board == nil {
		return
	}
	if err := e.board.RecordMatch(ctx, m); err != nil {
		e.keepErr(err)
		logger.LogError("record match %s: %v", m.Rounds[0].ID, err)
	}
}

func (e *env) keepErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *env) recordErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// writeRatings prints the Elo table built from the rounds played in this run.
func (e *env) writeRatings(w io.Writer) {
	standings := e.ratings.Standings()
	if len(standings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nElo ratings:")
	for i, s := range standings {
		fmt.Fprintf(w, "%2d. %-15s %7.1f  (%d rounds)\n", i+1, s.Name, s.Rating, s.Games)
	}
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func parseSeat(s string) (game.Seat, error) {
	switch strings.ToLower(s) {
	case "leader", "l":
		return game.Leader, nil
	case "dealer", "d":
		return game.Dealer, nil
	}
	return game.Leader, fmt.Errorf("unknown seat %q, want leader or dealer", s)
}

func writeReport(w io.Writer, rep *game.Report) {
	fmt.Fprintf(w, "\nRound %s, trump %s\n", rep.ID, rep.Trump)
	for _, s := range []game.Seat{game.Leader, game.Dealer} {
		r := rep.Seat(s)
		fmt.Fprintf(w, "%-6s %-15s bids [%s=%d, %s=%d] wins [%d, %d] errors [%d, %d] total %d\n",
			s, r.Name,
			r.ForehandBidCard, r.ForehandBid, r.BackhandBidCard, r.BackhandBid,
			r.ForehandWins, r.BackhandWins,
			r.ForehandError, r.BackhandError, r.TotalError)
	}
	if s, ok := rep.WinnerSeat(); ok {
		fmt.Fprintf(w, "Winner: %s (%s)\n", rep.Seat(s).Name, s)
	} else {
		fmt.Fprintln(w, "Tie")
	}
}
