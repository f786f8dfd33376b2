package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/palemoky/tennis/internal/api"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/logger"
	"github.com/palemoky/tennis/internal/player"
	"github.com/palemoky/tennis/internal/stats"
	"github.com/palemoky/tennis/internal/ui"
)

func runStrategies(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("strategies", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range player.Names() {
		fmt.Fprintln(out, name)
	}
	return nil
}

// runRound 单局: one round, printing the table after every decision.
func runRound(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("round", flag.ContinueOnError)
	o.register(fs)
	leader := fs.String("leader", "", "leader strategy")
	dealer := fs.String("dealer", "", "dealer strategy")
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	if *leader == "" {
		*leader = e.cfg.Players.Dual[0]
	}
	if *dealer == "" {
		*dealer = e.cfg.Players.Dual[len(e.cfg.Players.Dual)-1]
	}
	rng := e.source(0)
	ls, err := player.New(*leader, e.source(1))
	if err != nil {
		return err
	}
	ds, err := player.New(*dealer, e.source(2))
	if err != nil {
		return err
	}

	r, err := game.NewRound(game.RoundConfig{
		Leader: ls,
		Dealer: ds,
		Trump:  e.trump(rng),
		Rand:   rng,
		Logger: e.logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seed %d\n", e.seed)

	seen := 0
	for r.Phase() != game.PhaseDone {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
		moves := r.Moves()
		if len(moves) == seen {
			continue
		}
		for _, m := range moves[seen:] {
			fmt.Fprintln(out, m)
		}
		seen = len(moves)
		if r.Phase() == game.PhaseTrick && r.CurrentTrick().Len() == 0 {
			fmt.Fprintln(out)
			if err := r.Render(out); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	}

	rep := r.Report()
	writeReport(out, rep)
	e.recordRound(ctx, rep)
	return e.recordErr()
}

// runDual 双人对战统计
func runDual(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("dual", flag.ContinueOnError)
	o.register(fs)
	a := fs.String("a", "", "first strategy")
	b := fs.String("b", "", "second strategy")
	pairs := fs.Int("pairs", 0, "match pairs to play, each two rounds")
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	names := e.cfg.Players.Dual
	if *a != "" {
		names = []string{*a, names[len(names)-1]}
	}
	if *b != "" {
		names = []string{names[0], *b}
	}
	entries, err := stats.Entries([]string{names[0], names[len(names)-1]})
	if err != nil {
		return err
	}
	if *pairs == 0 {
		*pairs = e.cfg.Simulation.Pairs
	}

	// dual compares strategies without trump unless told otherwise
	picker := stats.FixedTrump(card.NoTrump)
	if o.trump != "" || o.configPath != "" {
		picker = e.trumpPicker()
	}

	fmt.Fprintf(out, "seed %d\n", e.seed)
	res, err := stats.Dual(ctx, stats.DualConfig{
		A:       entries[0],
		B:       entries[1],
		Pairs:   *pairs,
		Workers: e.cfg.Simulation.Workers,
		Seed:    e.seed,
		Trump:   picker,
		Logger:  e.logger,
		OnMatch: func(m *game.MatchReport) { e.recordMatch(ctx, m) },
	})
	if err != nil {
		return err
	}
	if err := res.Write(out); err != nil {
		return err
	}
	e.writeRatings(out)
	return e.recordErr()
}

// runRoundRobin 循环赛
func runRoundRobin(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("roundrobin", flag.ContinueOnError)
	o.register(fs)
	leaders := fs.String("leaders", "", "comma separated leader strategies")
	dealers := fs.String("dealers", "", "comma separated dealer strategies")
	games := fs.Int("games", 0, "rounds per pairing")
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	leaderNames, dealerNames := e.cfg.Players.Leaders, e.cfg.Players.Dealers
	if *leaders != "" {
		leaderNames = splitNames(*leaders)
		if *dealers == "" {
			dealerNames = leaderNames
		}
	}
	if *dealers != "" {
		dealerNames = splitNames(*dealers)
	}
	ls, err := stats.Entries(leaderNames)
	if err != nil {
		return err
	}
	ds, err := stats.Entries(dealerNames)
	if err != nil {
		return err
	}
	if *games == 0 {
		*games = e.cfg.Simulation.Games
	}

	fmt.Fprintf(out, "seed %d\n", e.seed)
	res, err := stats.RoundRobin(ctx, stats.RoundRobinConfig{
		Leaders: ls,
		Dealers: ds,
		Games:   *games,
		Workers: e.cfg.Simulation.Workers,
		Seed:    e.seed,
		Trump:   e.trumpPicker(),
		Logger:  e.logger,
		OnRound: func(rep *game.Report) { e.recordRound(ctx, rep) },
	})
	if err != nil {
		return err
	}
	if err := res.Write(out); err != nil {
		return err
	}
	e.writeRatings(out)
	return e.recordErr()
}

type humanFlags struct {
	opponent *string
	seat     *string
	name     *string
}

func registerHuman(fs *flag.FlagSet) humanFlags {
	return humanFlags{
		opponent: fs.String("opponent", "goal-tracking", "strategy to play against"),
		seat:     fs.String("seat", "leader", "your seat: leader or dealer"),
		name:     fs.String("name", "human", "your name in the results"),
	}
}

// runPlay 人机对战 (TUI)
func runPlay(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	o.register(fs)
	hf := registerHuman(fs)
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	seat, err := parseSeat(*hf.seat)
	if err != nil {
		return err
	}
	opp, err := player.New(*hf.opponent, e.source(1))
	if err != nil {
		return err
	}
	rng := e.source(0)

	rep, err := ui.Play(ctx, ui.PlayConfig{
		Name:     *hf.name,
		Opponent: opp,
		Seat:     seat,
		Trump:    e.trump(rng),
		Rand:     rng,
		Logger:   e.logger,
	})
	if errors.Is(err, ui.ErrQuit) {
		fmt.Fprintln(out, "bye")
		return nil
	}
	if err != nil {
		return err
	}
	writeReport(out, rep)
	e.recordRound(ctx, rep)
	return e.recordErr()
}

// runCLI 人机对战 (命令行)
func runCLI(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	o.register(fs)
	hf := registerHuman(fs)
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	seat, err := parseSeat(*hf.seat)
	if err != nil {
		return err
	}
	opp, err := player.New(*hf.opponent, e.source(1))
	if err != nil {
		return err
	}
	human := player.NewHuman(*hf.name, os.Stdin, out)
	leader, dealer := game.Strategy(human), opp
	if seat == game.Dealer {
		leader, dealer = dealer, leader
	}

	rng := e.source(0)
	r, err := game.NewRound(game.RoundConfig{
		Leader: leader,
		Dealer: dealer,
		Trump:  e.trump(rng),
		Rand:   rng,
		Logger: e.logger,
	})
	if err != nil {
		return err
	}
	rep, err := r.Play(ctx)
	if err != nil {
		return err
	}
	writeReport(out, rep)
	e.recordRound(ctx, rep)
	return e.recordErr()
}

// runServe 启动统计接口
func runServe(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	o.register(fs)
	addr := fs.String("addr", "", "listen address, host:port")
	o.record = true
	e, err := setup(ctx, fs, &o, args)
	if err != nil {
		return err
	}
	defer e.close()

	if *addr == "" {
		*addr = e.cfg.API.Addr()
	}
	logger.LogInfo("serving stats on %s", *addr)
	fmt.Fprintf(out, "serving stats on http://%s/api\n", *addr)
	return api.Serve(ctx, *addr, api.Router(e.board))
}
