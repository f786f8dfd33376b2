package player

import (
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Passive bids nothing with either hand and throws every trick.
type Passive struct {
	Bid Targets
}

func NewPassive() *Passive {
	return &Passive{}
}

func (p *Passive) Name() string { return "passive" }

func (p *Passive) BackhandBid(v game.View) (card.Card, error) {
	return closestBid(v.Backhand(), p.Bid.Backhand)
}

func (p *Passive) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return closestBid(v.Forehand(), p.Bid.Forehand)
}

func (p *Passive) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	return p.throw(v, t, game.Forehand)
}

func (p *Passive) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	return p.throw(v, t, game.Backhand)
}

func (p *Passive) throw(v game.View, t *rule.Trick, h game.Hand) (card.Card, error) {
	cards, err := legal(v, t, h)
	if err != nil {
		return card.Card{}, err
	}
	return throwTrick(t, cards), nil
}
