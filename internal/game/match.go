package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// MatchReport holds the two rounds of a match. Player A leads the first round and
// deals the second; each round gets a fresh shuffle.
type MatchReport struct {
	Rounds [2]*Report
}

// SeatOf returns the seat player (0 = A, 1 = B) held in round i.
func SeatOf(player, round int) Seat {
	if player == round {
		return Leader
	}
	return Dealer
}

// Result returns the seat report of player (0 = A, 1 = B) in round i.
func (m *MatchReport) Result(player, round int) SeatReport {
	return m.Rounds[round].Seat(SeatOf(player, round))
}

// Outcome of round i from A's point of view: OutcomeFirst when A won.
func (m *MatchReport) Outcome(round int) rule.Outcome {
	o := m.Rounds[round].Winner
	if round == 1 {
		return o.Swap()
	}
	return o
}

// Tally counts rounds won by A, by B and tied.
func (m *MatchReport) Tally() (a, b, ties int) {
	for i := range m.Rounds {
		switch m.Outcome(i) {
		case rule.OutcomeFirst:
			a++
		case rule.OutcomeSecond:
			b++
		default:
			ties++
		}
	}
	return a, b, ties
}

// MatchConfig configures PlayMatch.
type MatchConfig struct {
	A, B   Factory
	Trump  card.Suit
	Rand   *rand.Rand
	Logger Logger
}

// PlayMatch plays two rounds with the leader and dealer roles swapped so that the
// advantage of either role averages out.
func PlayMatch(ctx context.Context, cfg MatchConfig) (*MatchReport, error) {
	var m MatchReport
	pairs := [2][2]Factory{{cfg.A, cfg.B}, {cfg.B, cfg.A}}
	for i, pair := range pairs {
		round, err := NewRound(RoundConfig{
			Leader: pair[0](cfg.Rand),
			Dealer: pair[1](cfg.Rand),
			Trump:  cfg.Trump,
			Rand:   cfg.Rand,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		report, err := round.Play(ctx)
		if err != nil {
			return nil, fmt.Errorf("match round %d: %w", i+1, err)
		}
		m.Rounds[i] = report
	}
	return &m, nil
}
