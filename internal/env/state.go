package env

import (
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
)

// State layout, all values in [0, 1]:
//
//	hands   4 x 13 x 4  leader forehand, leader backhand, dealer forehand, dealer backhand
//	bids    4 x 4       the same order
//	trick   4 x 4       cards in play order, zero when not yet played
//	wins    4           the same order, divided by 12
//	trump   4           one-hot, all zero without trump
//
// A card is a 4-slot suit vector holding rank/14 in the slot of its suit.
const (
	cardWidth = 4
	handWidth = game.HandSize * cardWidth
	StateSize = 4*handWidth + 4*cardWidth + 4*cardWidth + 4 + 4
)

// State is the flat numeric encoding of a round, StateSize values long.
type State []float32

func putCard(dst []float32, c card.Card) {
	if !c.IsValid() {
		return
	}
	dst[int(c.Suit)] = float32(c.NumericRank()) / 14
}

// State encodes the current round. Hands are encoded from the highest card down so that
// equal hands always encode the same way.
func (e *Env) State() State {
	s := make(State, StateSize)
	if e.round == nil {
		return s
	}

	leader := e.round.Player(game.Leader)
	dealer := e.round.Player(game.Dealer)
	players := []game.PlayerState{leader, dealer}

	off := 0
	for _, p := range players {
		for _, hand := range []card.Deck{p.Forehand, p.Backhand} {
			sorted := hand.Clone()
			sorted.SortByRank(false)
			for i, c := range sorted {
				putCard(s[off+i*cardWidth:], c)
			}
			off += handWidth
		}
	}

	for _, p := range players {
		for _, b := range []*game.Bid{p.ForehandBid, p.BackhandBid} {
			if b != nil {
				putCard(s[off:], b.Card)
			}
			off += cardWidth
		}
	}

	for i, c := range e.round.CurrentTrick().Cards() {
		putCard(s[off+i*cardWidth:], c)
	}
	off += 4 * cardWidth

	for _, p := range players {
		s[off] = float32(p.ForehandWins) / game.TricksPerRound
		s[off+1] = float32(p.BackhandWins) / game.TricksPerRound
		off += 2
	}

	if e.trump != card.NoTrump {
		s[off+int(e.trump)] = 1
	}
	return s
}
