// Package stats runs batches of rounds in parallel and aggregates the results.
package stats

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/player"
)

// ChiSquaredCritical is the 95% critical value of the chi-squared distribution with one
// degree of freedom.
const ChiSquaredCritical = 3.841

// TrumpPicker chooses the trump suit of a round.
type TrumpPicker func(rng *rand.Rand) card.Suit

// FixedTrump always picks s.
func FixedTrump(s card.Suit) TrumpPicker {
	return func(*rand.Rand) card.Suit { return s }
}

// RandomTrump picks uniformly among the four suits and no-trump.
func RandomTrump(rng *rand.Rand) card.Suit {
	choices := append(slices.Clone(card.Suits), card.NoTrump)
	return choices[rng.IntN(len(choices))]
}

// Entry is a named strategy taking part in a batch.
type Entry struct {
	Name    string
	Factory game.Factory
}

// Entries looks the names up in the strategy registry.
func Entries(names []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		f, err := player.Lookup(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Factory: f})
	}
	return entries, nil
}

// Pair is a forehand and backhand value.
type Pair [2]int

// Totals sums bids, wins and errors over a number of rounds, forehand first.
type Totals struct {
	Rounds int
	Bids   Pair
	Wins   Pair
	Errors Pair
}

func (t *Totals) add(r game.SeatReport) {
	t.Rounds++
	t.Bids[0] += r.ForehandBid
	t.Bids[1] += r.BackhandBid
	t.Wins[0] += r.ForehandWins
	t.Wins[1] += r.BackhandWins
	t.Errors[0] += r.ForehandError
	t.Errors[1] += r.BackhandError
}

func (t *Totals) merge(o Totals) {
	t.Rounds += o.Rounds
	for i := range 2 {
		t.Bids[i] += o.Bids[i]
		t.Wins[i] += o.Wins[i]
		t.Errors[i] += o.Errors[i]
	}
}

func (t Totals) avg(p Pair) [2]float64 {
	if t.Rounds == 0 {
		return [2]float64{}
	}
	n := float64(t.Rounds)
	return [2]float64{float64(p[0]) / n, float64(p[1]) / n}
}

// AvgBids returns the average forehand and backhand bid.
func (t Totals) AvgBids() [2]float64 { return t.avg(t.Bids) }

// AvgWins returns the average forehand and backhand wins.
func (t Totals) AvgWins() [2]float64 { return t.avg(t.Wins) }

// AvgErrors returns the average forehand and backhand error.
func (t Totals) AvgErrors() [2]float64 { return t.avg(t.Errors) }

func formatPair(p [2]float64) string {
	return fmt.Sprintf("[%.1f, %.1f]", p[0], p[1])
}

// ChiSquared tests observed successes out of n trials against the expected success rate p.
// It reports the statistic and whether it exceeds the 95% critical value.
func ChiSquared(successes, n int, p float64) (float64, bool) {
	if n == 0 || p <= 0 || p >= 1 {
		return 0, false
	}
	expSuccess := float64(n) * p
	expFailure := float64(n) * (1 - p)
	failures := float64(n - successes)
	chi := math.Pow(float64(successes)-expSuccess, 2)/expSuccess +
		math.Pow(failures-expFailure, 2)/expFailure
	return chi, chi > ChiSquaredCritical
}

// WilsonCI95 is the 95% Wilson score interval of a win rate; ties count half.
func WilsonCI95(wins, ties, total int) (low, high float64) {
	if total <= 0 {
		return 0, 1
	}
	const z = 1.96
	n := float64(total)
	p := (float64(wins) + 0.5*float64(ties)) / n
	den := 1 + z*z/n
	center := p + z*z/(2*n)
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))
	return (center - half) / den, (center + half) / den
}

func rate(k, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(k) / float64(n)
}
