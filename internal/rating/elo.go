// Package rating keeps Elo ratings of strategies from round outcomes.
package rating

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/rule"
)

const (
	DefaultStart = 1500.0
	DefaultK     = 24.0
)

// Elo holds the ratings of two players.
type Elo struct {
	A, B  float64
	K     float64
	Games int
}

func NewElo(start, k float64) Elo { return Elo{A: start, B: start, K: k} }

// Expect returns the expected scores of A and B.
func (e Elo) Expect() (ea, eb float64) {
	ea = 1.0 / (1.0 + math.Pow(10, (e.B-e.A)/400.0))
	return ea, 1.0 - ea
}

// Update applies one game in which A scored sa (1 win, 0.5 tie, 0 loss) and returns the deltas.
func (e *Elo) Update(sa float64) (dA, dB float64) {
	ea, eb := e.Expect()
	dA = e.K * (sa - ea)
	dB = e.K * ((1 - sa) - eb)
	e.A += dA
	e.B += dB
	e.Games++
	return dA, dB
}

// Score converts a round outcome into the leader's score.
func Score(o rule.Outcome) float64 {
	switch o {
	case rule.OutcomeFirst:
		return 1
	case rule.OutcomeSecond:
		return 0
	default:
		return 0.5
	}
}

// Standing is one row of Table.Standings.
type Standing struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Games  int     `json:"games"`
}

// Table 等级分表: ratings of any number of strategies, keyed by name. Safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	start   float64
	k       float64
	ratings map[string]float64
	games   map[string]int
}

func NewTable(start, k float64) *Table {
	return &Table{
		start:   start,
		k:       k,
		ratings: make(map[string]float64),
		games:   make(map[string]int),
	}
}

func (t *Table) rating(name string) float64 {
	if r, ok := t.ratings[name]; ok {
		return r
	}
	return t.start
}

// RecordRound updates the leader and dealer of rep. A strategy playing itself is not rated.
func (t *Table) RecordRound(rep *game.Report) (dLeader, dDealer float64) {
	if rep.Leader.Name == rep.Dealer.Name {
		return 0, 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e := Elo{A: t.rating(rep.Leader.Name), B: t.rating(rep.Dealer.Name), K: t.k}
	dLeader, dDealer = e.Update(Score(rep.Winner))
	t.ratings[rep.Leader.Name] = e.A
	t.ratings[rep.Dealer.Name] = e.B
	t.games[rep.Leader.Name]++
	t.games[rep.Dealer.Name]++
	return dLeader, dDealer
}

// RecordMatch records both rounds of m.
func (t *Table) RecordMatch(m *game.MatchReport) {
	for _, rep := range m.Rounds {
		if rep != nil {
			t.RecordRound(rep)
		}
	}
}

// Rating returns the current rating of name, the start rating if it has not played.
func (t *Table) Rating(name string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rating(name)
}

// Standings lists every rated strategy, best first.
func (t *Table) Standings() []Standing {
	t.mu.Lock()
	out := make([]Standing, 0, len(t.ratings))
	for name, r := range t.ratings {
		out = append(out, Standing{Name: name, Rating: r, Games: t.games[name]})
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
