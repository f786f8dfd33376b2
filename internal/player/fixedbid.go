package player

import (
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// FixedBid bids the card nearest to a fixed target per seat and hand and otherwise plays
// like Random. The default targets are the average wins of each hand when two random
// players meet.
type FixedBid struct {
	rng    *rand.Rand
	Leader Targets
	Dealer Targets
}

func NewFixedBid(rng *rand.Rand) *FixedBid {
	return &FixedBid{
		rng:    rng,
		Leader: Targets{Backhand: 1, Forehand: 7},
		Dealer: Targets{Backhand: 1, Forehand: 1},
	}
}

func (f *FixedBid) Name() string { return "average-bid" }

func (f *FixedBid) targets(s game.Seat) Targets {
	if s == game.Leader {
		return f.Leader
	}
	return f.Dealer
}

func (f *FixedBid) BackhandBid(v game.View) (card.Card, error) {
	return closestBid(v.Backhand(), f.targets(v.Seat()).Backhand)
}

func (f *FixedBid) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return closestBid(v.Forehand(), f.targets(v.Seat()).Forehand)
}

func (f *FixedBid) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Forehand)
	if err != nil {
		return card.Card{}, err
	}
	return pick(f.rng, cards), nil
}

func (f *FixedBid) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Backhand)
	if err != nil {
		return card.Card{}, err
	}
	return pick(f.rng, cards), nil
}
