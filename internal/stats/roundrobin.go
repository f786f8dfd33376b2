package stats

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/palemoky/tennis/internal/game"
)

// RoundRobinConfig configures RoundRobin.
type RoundRobinConfig struct {
	Leaders []Entry
	Dealers []Entry
	// Games is the number of rounds played for every leader and dealer pairing.
	Games   int
	Workers int
	Seed    uint64
	// Trump defaults to RandomTrump, drawn afresh for every round.
	Trump  TrumpPicker
	Logger game.Logger
	// OnRound, when set, is called from the worker goroutines and must be safe for
	// concurrent use.
	OnRound func(*game.Report)
}

// Outcome counts the rounds of one pairing.
type Outcome struct {
	LeaderWins int
	DealerWins int
	Ties       int
}

func (o Outcome) decisive() int { return o.LeaderWins + o.DealerWins }

// Standing ranks one strategy in one role.
type Standing struct {
	Name string
	// WinRate is the mean over all opponents of wins / (wins + losses).
	WinRate float64
	// Hardest is the opponent against which WinRate was lowest.
	Hardest     string
	HardestRate float64
}

// RoundRobinResult 循环赛结果
type RoundRobinResult struct {
	Leaders []string
	Dealers []string
	Games   int
	// Outcomes is indexed [leader][dealer].
	Outcomes [][]Outcome

	LeaderStandings []Standing
	DealerStandings []Standing
}

// winRate is the share of decisive rounds won; a pairing with no decisive round counts as even.
func winRate(wins, decisive int) float64 {
	if decisive == 0 {
		return 0.5
	}
	return float64(wins) / float64(decisive)
}

func newMatrix(rows, cols int) [][]Outcome {
	m := make([][]Outcome, rows)
	for i := range m {
		m[i] = make([]Outcome, cols)
	}
	return m
}

// RoundRobin plays every leader against every dealer cfg.Games times. Round j of pairing
// (l, d) is seeded with (Seed, job index), so results do not depend on the number of workers.
// The first failing round aborts the run.
func RoundRobin(ctx context.Context, cfg RoundRobinConfig) (*RoundRobinResult, error) {
	if len(cfg.Leaders) == 0 || len(cfg.Dealers) == 0 {
		return nil, errors.New("round robin needs at least one leader and one dealer")
	}
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("invalid number of games %d", cfg.Games)
	}
	total := len(cfg.Leaders) * len(cfg.Dealers) * cfg.Games
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, total)
	trump := cfg.Trump
	if trump == nil {
		trump = RandomTrump
	}

	partials := make([][][]Outcome, workers)
	for w := range partials {
		partials[w] = newMatrix(len(cfg.Leaders), len(cfg.Dealers))
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range total {
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
			for job := range jobs {
				pairing := job / cfg.Games
				l, d := pairing/len(cfg.Dealers), pairing%len(cfg.Dealers)
				rng := rand.New(rand.NewPCG(cfg.Seed, uint64(job)))
				round, err := game.NewRound(game.RoundConfig{
					Leader: cfg.Leaders[l].Factory(rng),
					Dealer: cfg.Dealers[d].Factory(rng),
					Trump:  trump(rng),
					Rand:   rng,
					Logger: cfg.Logger,
				})
				if err != nil {
					return err
				}
				rep, err := round.Play(ctx)
				if err != nil {
					return fmt.Errorf("%s vs %s: %w", cfg.Leaders[l].Name, cfg.Dealers[d].Name, err)
				}
				o := &partials[w][l][d]
				switch winner, ok := rep.WinnerSeat(); {
				case !ok:
					o.Ties++
				case winner == game.Leader:
					o.LeaderWins++
				default:
					o.DealerWins++
				}
				if cfg.OnRound != nil {
					cfg.OnRound(rep)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &RoundRobinResult{
		Games:    cfg.Games,
		Outcomes: newMatrix(len(cfg.Leaders), len(cfg.Dealers)),
	}
	for _, e := range cfg.Leaders {
		res.Leaders = append(res.Leaders, e.Name)
	}
	for _, e := range cfg.Dealers {
		res.Dealers = append(res.Dealers, e.Name)
	}
	for _, p := range partials {
		for l := range p {
			for d := range p[l] {
				res.Outcomes[l][d].LeaderWins += p[l][d].LeaderWins
				res.Outcomes[l][d].DealerWins += p[l][d].DealerWins
				res.Outcomes[l][d].Ties += p[l][d].Ties
			}
		}
	}
	res.rank()
	return res, nil
}

func (r *RoundRobinResult) rank() {
	r.LeaderStandings = r.LeaderStandings[:0]
	for l, name := range r.Leaders {
		rates := make([]float64, len(r.Dealers))
		for d, o := range r.Outcomes[l] {
			rates[d] = winRate(o.LeaderWins, o.decisive())
		}
		r.LeaderStandings = append(r.LeaderStandings, standing(name, rates, r.Dealers))
	}

	r.DealerStandings = r.DealerStandings[:0]
	for d, name := range r.Dealers {
		rates := make([]float64, len(r.Leaders))
		for l := range r.Leaders {
			o := r.Outcomes[l][d]
			rates[l] = winRate(o.DealerWins, o.decisive())
		}
		r.DealerStandings = append(r.DealerStandings, standing(name, rates, r.Leaders))
	}

	byRate := func(a, b Standing) int {
		if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	}
	slices.SortStableFunc(r.LeaderStandings, byRate)
	slices.SortStableFunc(r.DealerStandings, byRate)
}

func standing(name string, rates []float64, opponents []string) Standing {
	s := Standing{Name: name, HardestRate: 2}
	sum := 0.0
	for i, v := range rates {
		sum += v
		if v < s.HardestRate {
			s.Hardest, s.HardestRate = opponents[i], v
		}
	}
	s.WinRate = sum / float64(len(rates))
	return s
}

// Write prints the outcome matrix and both rankings.
func (r *RoundRobinResult) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("%d rounds per pairing\n\n", r.Games)
	for l, leader := range r.Leaders {
		for d, dealer := range r.Dealers {
			o := r.Outcomes[l][d]
			ew.printf("%-14s vs %-14s leader %4d  dealer %4d  ties %4d\n",
				leader, dealer, o.LeaderWins, o.DealerWins, o.Ties)
		}
	}
	for _, sec := range []struct {
		title string
		rows  []Standing
	}{{"leaders", r.LeaderStandings}, {"dealers", r.DealerStandings}} {
		ew.printf("\n%s\n", sec.title)
		for _, s := range sec.rows {
			ew.printf("  %-14s %.3f  hardest %s (%.3f)\n", s.Name, s.WinRate, s.Hardest, s.HardestRate)
		}
	}
	return ew.err
}
