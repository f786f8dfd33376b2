package game

import (
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Strategy is implemented by every player: rule-based bots, humans and learned policies.
// Each decision returns a card from the player's own current hand; the round controller
// checks it and fails the round with ErrIllegalMove otherwise. Strategies must treat the
// view, the revealed info and the trick as read-only.
type Strategy interface {
	Name() string
	// BackhandBid picks the bid card out of the backhand.
	BackhandBid(v View) (card.Card, error)
	// ForehandBid picks the bid card out of the forehand, knowing the opponent's revealed bids.
	ForehandBid(v View, opponent RevealedInfo) (card.Card, error)
	// PlayForehand plays a forehand card to the first or second position of the trick.
	PlayForehand(v View, t *rule.Trick) (card.Card, error)
	// PlayBackhand plays a backhand card to the third or fourth position of the trick.
	PlayBackhand(v View, t *rule.Trick) (card.Card, error)
}

// Observer is an optional Strategy extension that is shown every completed trick.
type Observer interface {
	ObserveTrick(v View, t *rule.Trick)
}

// Factory builds a fresh strategy for one round. rng is the strategy's own randomness.
type Factory func(rng *rand.Rand) Strategy

// View 玩家视角: the read-only state a strategy may consult. Every deck returned is a copy.
type View interface {
	Seat() Seat
	Trump() card.Suit
	// TrickNumber is 1-based during play and 0 while bidding.
	TrickNumber() int

	Forehand() card.Deck
	Backhand() card.Deck
	ForehandBid() *Bid
	BackhandBid() *Bid
	ForehandWins() int
	BackhandWins() int

	Opponent() RevealedInfo
	OpponentCards() card.Deck
}

type playerView struct {
	r    *Round
	seat Seat
}

func (v playerView) p() *PlayerState { return v.r.players[v.seat] }

func (v playerView) Seat() Seat { return v.seat }
func (v playerView) Trump() card.Suit { return v.r.trump }
func (v playerView) TrickNumber() int { return v.r.trickNumber() }
func (v playerView) Forehand() card.Deck { return v.p().Forehand.Clone() }
func (v playerView) Backhand() card.Deck { return v.p().Backhand.Clone() }
func (v playerView) ForehandBid() *Bid { return v.p().ForehandBid.clone() }
func (v playerView) BackhandBid() *Bid { return v.p().BackhandBid.clone() }
func (v playerView) ForehandWins() int { return v.p().ForehandWins }
func (v playerView) BackhandWins() int { return v.p().BackhandWins }
func (v playerView) Opponent() RevealedInfo { return v.p().opponentView() }
func (v playerView) OpponentCards() card.Deck { return v.p().OpponentCards.Clone() }
