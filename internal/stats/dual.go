package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
)

// DualConfig configures Dual.
type DualConfig struct {
	A, B Entry
	// Pairs is the number of matches; each match is two rounds with the roles swapped.
	Pairs   int
	Workers int
	Seed    uint64
	// Trump defaults to no-trump for every match.
	Trump  TrumpPicker
	Logger game.Logger
	// OnMatch, when set, is called from the worker goroutines after every match and must be
	// safe for concurrent use.
	OnMatch func(*game.MatchReport)
}

// PlayerStats 单个策略的统计
type PlayerStats struct {
	Name      string
	Overall   Totals
	AsLeader  Totals
	AsDealer  Totals
	RoundWins int
}

// DualResult aggregates a Dual run.
type DualResult struct {
	A, B   PlayerStats
	Leader Totals
	Dealer Totals

	Rounds     int
	LeaderWins int
	DealerWins int
	Ties       int

	ChiSquared  float64
	Significant bool
}

func (r *DualResult) addRound(rep *game.Report, aSeat game.Seat) {
	a, b := &r.A, &r.B
	aRep, bRep := rep.Seat(aSeat), rep.Seat(aSeat.Opponent())
	a.Overall.add(aRep)
	b.Overall.add(bRep)
	if aSeat == game.Leader {
		a.AsLeader.add(aRep)
		b.AsDealer.add(bRep)
	} else {
		a.AsDealer.add(aRep)
		b.AsLeader.add(bRep)
	}
	r.Leader.add(rep.Leader)
	r.Dealer.add(rep.Dealer)

	r.Rounds++
	winner, ok := rep.WinnerSeat()
	switch {
	case !ok:
		r.Ties++
		return
	case winner == game.Leader:
		r.LeaderWins++
	default:
		r.DealerWins++
	}
	if winner == aSeat {
		a.RoundWins++
	} else {
		b.RoundWins++
	}
}

func (r *DualResult) merge(o *DualResult) {
	for _, p := range []struct{ dst, src *PlayerStats }{{&r.A, &o.A}, {&r.B, &o.B}} {
		p.dst.Overall.merge(p.src.Overall)
		p.dst.AsLeader.merge(p.src.AsLeader)
		p.dst.AsDealer.merge(p.src.AsDealer)
		p.dst.RoundWins += p.src.RoundWins
	}
	r.Leader.merge(o.Leader)
	r.Dealer.merge(o.Dealer)
	r.Rounds += o.Rounds
	r.LeaderWins += o.LeaderWins
	r.DealerWins += o.DealerWins
	r.Ties += o.Ties
}

func (r *DualResult) WinRateA() float64      { return rate(r.A.RoundWins, r.Rounds) }
func (r *DualResult) WinRateB() float64      { return rate(r.B.RoundWins, r.Rounds) }
func (r *DualResult) WinRateLeader() float64 { return rate(r.LeaderWins, r.Rounds) }
func (r *DualResult) WinRateDealer() float64 { return rate(r.DealerWins, r.Rounds) }
func (r *DualResult) TieRate() float64       { return rate(r.Ties, r.Rounds) }

// Dual plays cfg.Pairs matches between A and B on cfg.Workers goroutines. Every match draws
// its deals from its own source seeded with (Seed, match index), so the result does not
// depend on the number of workers. The first failing round aborts the run.
func Dual(ctx context.Context, cfg DualConfig) (*DualResult, error) {
	if cfg.A.Factory == nil || cfg.B.Factory == nil {
		return nil, errors.New("dual needs two strategies")
	}
	if cfg.Pairs <= 0 {
		return nil, fmt.Errorf("invalid number of pairs %d", cfg.Pairs)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, cfg.Pairs)
	trump := cfg.Trump
	if trump == nil {
		trump = FixedTrump(card.NoTrump)
	}

	partials := make([]DualResult, workers)
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range cfg.Pairs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := range workers {
		g.Go(func() error {
			for i := range jobs {
				rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
				m, err := game.PlayMatch(ctx, game.MatchConfig{
					A:      cfg.A.Factory,
					B:      cfg.B.Factory,
					Trump:  trump(rng),
					Rand:   rng,
					Logger: cfg.Logger,
				})
				if err != nil {
					return fmt.Errorf("match %d: %w", i, err)
				}
				for round, rep := range m.Rounds {
					partials[w].addRound(rep, game.SeatOf(0, round))
				}
				if cfg.OnMatch != nil {
					cfg.OnMatch(m)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &DualResult{}
	for i := range partials {
		res.merge(&partials[i])
	}
	res.A.Name = cfg.A.Name
	res.B.Name = cfg.B.Name
	res.ChiSquared, res.Significant = ChiSquared(res.A.RoundWins, res.Rounds, 0.5)
	return res, nil
}

// Write prints the report in the layout of the command line tool.
func (r *DualResult) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("%d rounds, %s vs %s\n\n", r.Rounds, r.A.Name, r.B.Name)
	for _, p := range []PlayerStats{r.A, r.B} {
		ew.printf("%s\n", p.Name)
		writeTotals(ew, "overall", p.Overall)
		writeTotals(ew, "as leader", p.AsLeader)
		writeTotals(ew, "as dealer", p.AsDealer)
		ew.printf("\n")
	}
	ew.printf("leader\n")
	writeTotals(ew, "overall", r.Leader)
	ew.printf("dealer\n")
	writeTotals(ew, "overall", r.Dealer)

	lo, hi := WilsonCI95(r.A.RoundWins, r.Ties, r.Rounds)
	ew.printf("\nwin rate %s: %.3f (95%% CI %.3f-%.3f)\n", r.A.Name, r.WinRateA(), lo, hi)
	ew.printf("win rate %s: %.3f\n", r.B.Name, r.WinRateB())
	ew.printf("win rate leader: %.3f\n", r.WinRateLeader())
	ew.printf("win rate dealer: %.3f\n", r.WinRateDealer())
	ew.printf("tie rate: %.3f\n", r.TieRate())
	verdict := "not significant"
	if r.Significant {
		verdict = "significant"
	}
	ew.printf("chi-squared: %.3f (%s at 0.05)\n", r.ChiSquared, verdict)
	return ew.err
}

func writeTotals(ew *errWriter, label string, t Totals) {
	ew.printf("  %-10s bids %s  wins %s  errors %s\n",
		label, formatPair(t.AvgBids()), formatPair(t.AvgWins()), formatPair(t.AvgErrors()))
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
