package player

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Random bids and plays uniformly at random. With LegalOnly unset it picks among the whole
// hand and will sooner or later be rejected by the round for not following suit; that
// mode exists to exercise the engine's move checks.
type Random struct {
	rng       *rand.Rand
	LegalOnly bool
}

// NewRandom returns a Random that only plays legal cards.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng, LegalOnly: true}
}

func (r *Random) Name() string {
	if r.LegalOnly {
		return "random"
	}
	return "random-any"
}

func (r *Random) BackhandBid(v game.View) (card.Card, error) {
	return r.anyCard(v.Backhand())
}

func (r *Random) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return r.anyCard(v.Forehand())
}

func (r *Random) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	return r.play(v, t, game.Forehand)
}

func (r *Random) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	return r.play(v, t, game.Backhand)
}

func (r *Random) play(v game.View, t *rule.Trick, h game.Hand) (card.Card, error) {
	if !r.LegalOnly {
		return r.anyCard(handOf(v, h))
	}
	cards, err := legal(v, t, h)
	if err != nil {
		return card.Card{}, err
	}
	return pick(r.rng, cards), nil
}

func (r *Random) anyCard(hand card.Deck) (card.Card, error) {
	if len(hand) == 0 {
		return card.Card{}, fmt.Errorf("pick from an empty hand: %w", apperrors.ErrInsufficientCards)
	}
	return pick(r.rng, hand), nil
}
