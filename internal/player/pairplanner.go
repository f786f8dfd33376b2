package player

import (
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// pair is a forehand card that loses to a backhand card of the same player. Playing both
// into one trick hands the trick to the backhand unless the opponent overtakes it.
type pair struct {
	fore card.Card
	back card.Card
}

// PairPlanner 配对策略 expects its forehand to take whatever the backhands leave and plans
// the backhand's wins as (forehand loser, backhand winner) pairs. Once only as many
// backhand cards remain as wins are missing, it plays the pairs out.
type PairPlanner struct {
	rng *rand.Rand

	// BackhandOffset is subtracted from the backhand's average rank to get its bid.
	BackhandOffset float64
	// Tricks is the number of tricks shared by all four hands.
	Tricks float64
	// ThreeBidAdjust lowers the forehand bid when the opponent bid 3 on the backhand,
	// which is what Aggressive bids as dealer.
	ThreeBidAdjust float64

	committed *pair
}

func NewPairPlanner(rng *rand.Rand) *PairPlanner {
	return &PairPlanner{
		rng:            rng,
		BackhandOffset: 6,
		Tricks:         12,
		ThreeBidAdjust: 2,
	}
}

func (p *PairPlanner) Name() string { return "pair-planner" }

func (p *PairPlanner) BackhandBid(v game.View) (card.Card, error) {
	hand := v.Backhand()
	return closestBid(hand, hand.AverageNumericRank()-p.BackhandOffset)
}

// ForehandBid assumes the opponent's forehand takes nothing.
func (p *PairPlanner) ForehandBid(v game.View, opponent game.RevealedInfo) (card.Card, error) {
	target := p.Tricks
	if b := v.BackhandBid(); b != nil {
		target -= float64(b.Value)
	}
	if b := opponent.BackhandBid; b != nil {
		target -= float64(b.Value)
		if b.Value == 3 {
			target -= p.ThreeBidAdjust
		}
	}
	return closestBid(v.Forehand(), target)
}

// plan matches the highest backhand cards with the lowest forehand cards they beat, one
// pair per backhand win still missing.
func (p *PairPlanner) plan(v game.View) []pair {
	back := v.Backhand()
	need := 0
	if b := v.BackhandBid(); b != nil {
		need = b.Value - v.BackhandWins()
	}
	need = min(need, len(back))
	if need <= 0 {
		return nil
	}

	fore := ascending(v.Forehand())
	used := make(map[card.Card]bool, len(fore))
	var pairs []pair
	for _, b := range descending(back) {
		for _, f := range fore {
			if used[f] || !beats(v.Trump(), f, b) {
				continue
			}
			used[f] = true
			pairs = append(pairs, pair{fore: f, back: b})
			break
		}
		if len(pairs) == need {
			break
		}
	}
	return pairs
}

// beats reports whether c takes a trick led by lead.
func beats(trump card.Suit, lead, c card.Card) bool {
	t := rule.NewTrick(trump)
	if err := t.AddCard(lead); err != nil {
		return false
	}
	return t.WouldWin(c)
}

// dueNow reports whether the first pair has to be played in this trick.
func dueNow(pairs []pair, backhand int) bool {
	return len(pairs) > 0 && len(pairs) == backhand
}

func unreserved(cards card.Deck, pairs []pair, reserved func(pair) card.Card) card.Deck {
	var free card.Deck
	for _, c := range cards {
		taken := false
		for _, pr := range pairs {
			if reserved(pr) == c {
				taken = true
				break
			}
		}
		if !taken {
			free.Add(c)
		}
	}
	if len(free) == 0 {
		return cards
	}
	return free
}

func (p *PairPlanner) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Forehand)
	if err != nil {
		return card.Card{}, err
	}
	p.committed = nil

	pairs := p.plan(v)
	if dueNow(pairs, len(v.Backhand())) && cards.Has(pairs[0].fore) {
		p.committed = &pairs[0]
		return pairs[0].fore, nil
	}
	return pick(p.rng, unreserved(cards, pairs, func(pr pair) card.Card { return pr.fore })), nil
}

func (p *PairPlanner) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Backhand)
	if err != nil {
		return card.Card{}, err
	}
	if c := p.committed; c != nil {
		p.committed = nil
		if cards.Has(c.back) {
			return c.back, nil
		}
	}

	pairs := p.plan(v)
	if dueNow(pairs, len(v.Backhand())) && cards.Has(pairs[0].back) {
		return pairs[0].back, nil
	}

	free := unreserved(cards, pairs, func(pr pair) card.Card { return pr.back })
	free.SortBySuitAndRank()
	if c, ok := t.FirstLosingCard(free); ok {
		return c, nil
	}
	return pick(p.rng, free), nil
}
