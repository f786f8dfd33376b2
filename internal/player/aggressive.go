package player

import (
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Aggressive bids high and tries to take every trick it can with its cheapest winning
// card. The leader's forehand opens at random; a backhand never overtakes its own
// forehand.
type Aggressive struct {
	rng    *rand.Rand
	Leader Targets
	Dealer Targets
}

func NewAggressive(rng *rand.Rand) *Aggressive {
	return &Aggressive{
		rng:    rng,
		Leader: Targets{Backhand: 1, Forehand: 9},
		Dealer: Targets{Backhand: 3, Forehand: 4},
	}
}

func (a *Aggressive) Name() string { return "aggressive" }

func (a *Aggressive) targets(s game.Seat) Targets {
	if s == game.Leader {
		return a.Leader
	}
	return a.Dealer
}

func (a *Aggressive) BackhandBid(v game.View) (card.Card, error) {
	return closestBid(v.Backhand(), a.targets(v.Seat()).Backhand)
}

func (a *Aggressive) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return closestBid(v.Forehand(), a.targets(v.Seat()).Forehand)
}

func (a *Aggressive) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Forehand)
	if err != nil {
		return card.Card{}, err
	}
	if v.Seat() == game.Leader {
		return pick(a.rng, cards), nil
	}
	return lowestWinning(t, cards), nil
}

func (a *Aggressive) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Backhand)
	if err != nil {
		return card.Card{}, err
	}
	if ownForehandWinning(t, v.Seat()) {
		return concede(t, cards), nil
	}
	return lowestWinning(t, cards), nil
}
