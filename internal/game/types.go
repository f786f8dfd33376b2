package game

import (
	"fmt"

	"github.com/palemoky/tennis/internal/game/card"
)

const (
	// HandSize is the number of cards dealt to each forehand and backhand.
	HandSize = 13
	// TricksPerRound is the number of tricks played once both bids are set aside.
	TricksPerRound = HandSize - 1
)

// Seat 座位: the leader bids and plays first, the dealer second.
type Seat int

const (
	Leader Seat = iota
	Dealer
)

func (s Seat) Opponent() Seat {
	return 1 - s
}

func (s Seat) String() string {
	if s == Leader {
		return "leader"
	}
	return "dealer"
}

// Hand selects one of a player's two hands.
type Hand int

const (
	Forehand Hand = iota
	Backhand
)

func (h Hand) String() string {
	if h == Forehand {
		return "forehand"
	}
	return "backhand"
}

// Phase 回合阶段. A round moves through the phases strictly in order.
type Phase int

const (
	PhaseDealBackhand Phase = iota
	PhaseBidBackhandLeader
	PhaseBidBackhandDealer
	PhaseRevealBackhandBids
	PhaseDealForehand
	PhaseBidForehandLeader
	PhaseBidForehandDealer
	PhaseRevealForehandBids
	PhaseTrick
	PhaseScore
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseDealBackhand:       "deal backhand",
	PhaseBidBackhandLeader:  "bid backhand (leader)",
	PhaseBidBackhandDealer:  "bid backhand (dealer)",
	PhaseRevealBackhandBids: "reveal backhand bids",
	PhaseDealForehand:       "deal forehand",
	PhaseBidForehandLeader:  "bid forehand (leader)",
	PhaseBidForehandDealer:  "bid forehand (dealer)",
	PhaseRevealForehandBids: "reveal forehand bids",
	PhaseTrick:              "trick",
	PhaseScore:              "score",
	PhaseDone:               "done",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Bid is a card set aside from a hand together with its fixed bid value.
type Bid struct {
	Card  card.Card
	Value int
}

func newBid(c card.Card) *Bid {
	return &Bid{Card: c, Value: c.BidValue()}
}

func (b *Bid) clone() *Bid {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

// RevealedInfo is what a player knows about the opponent's bids and wins.
// Bids stay nil until they have been revealed.
type RevealedInfo struct {
	ForehandBid  *Bid
	BackhandBid  *Bid
	ForehandWins int
	BackhandWins int
}

// PlayerState 玩家状态 for one seat. Only the round controller mutates it.
type PlayerState struct {
	Seat Seat
	Name string

	Forehand card.Deck
	Backhand card.Deck

	ForehandBid *Bid
	BackhandBid *Bid

	ForehandWins int
	BackhandWins int

	// OpponentCards holds every card that may still be in the opponent's hands (or undealt).
	// It starts as the full deck and shrinks at deal, reveal and play.
	OpponentCards card.Deck

	OpponentForehandBid  *Bid
	OpponentBackhandBid  *Bid
	OpponentForehandWins int
	OpponentBackhandWins int
}

func newPlayerState(seat Seat, name string) *PlayerState {
	return &PlayerState{
		Seat:          seat,
		Name:          name,
		OpponentCards: card.NewDeck(),
	}
}

func (p *PlayerState) hand(h Hand) *card.Deck {
	if h == Forehand {
		return &p.Forehand
	}
	return &p.Backhand
}

// opponentView is the information this player has revealed to the opponent.
func (p *PlayerState) opponentView() RevealedInfo {
	return RevealedInfo{
		ForehandBid:  p.OpponentForehandBid.clone(),
		BackhandBid:  p.OpponentBackhandBid.clone(),
		ForehandWins: p.OpponentForehandWins,
		BackhandWins: p.OpponentBackhandWins,
	}
}

// Move is one entry of the in-memory round record.
type Move struct {
	Phase Phase
	Seat  Seat
	Hand  Hand
	Trick int // 1-based trick number, 0 for bids
	Card  card.Card
}

func (m Move) String() string {
	if m.Trick == 0 {
		return fmt.Sprintf("%s bids %s with %s", m.Seat, m.Hand, m.Card)
	}
	return fmt.Sprintf("trick %d: %s %s plays %s", m.Trick, m.Seat, m.Hand, m.Card)
}
