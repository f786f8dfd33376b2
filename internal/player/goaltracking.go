package player

import (
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// GoalTracking compares each hand's wins with its bid before every play and switches
// between chasing and ducking tricks.
//
// As leader it bids from the average rank of the hand minus an offset; as dealer it bids
// fixed targets.
type GoalTracking struct {
	LeaderBackhandOffset float64
	LeaderForehandOffset float64
	Dealer               Targets
}

func NewGoalTracking() *GoalTracking {
	return &GoalTracking{
		LeaderBackhandOffset: 6,
		LeaderForehandOffset: 2.3,
	}
}

func (g *GoalTracking) Name() string { return "goal-tracking" }

func (g *GoalTracking) BackhandBid(v game.View) (card.Card, error) {
	hand := v.Backhand()
	if v.Seat() == game.Leader {
		return closestBid(hand, hand.AverageNumericRank()-g.LeaderBackhandOffset)
	}
	return closestBid(hand, g.Dealer.Backhand)
}

func (g *GoalTracking) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	hand := v.Forehand()
	if v.Seat() == game.Leader {
		return closestBid(hand, hand.AverageNumericRank()-g.LeaderForehandOffset)
	}
	return closestBid(hand, g.Dealer.Forehand)
}

func (g *GoalTracking) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Forehand)
	if err != nil {
		return card.Card{}, err
	}
	want := needsWins(v.ForehandBid(), v.ForehandWins())

	// Leading: every card takes an empty trick, so go by rank alone.
	if t.Len() == 0 {
		sorted := descending(cards)
		if want {
			return sorted[0], nil
		}
		return sorted[len(sorted)-1], nil
	}

	cards.SortBySuitAndRank()
	if want {
		if c, ok := t.FirstWinningCard(cards); ok {
			return c, nil
		}
		return cards[len(cards)-1], nil
	}
	if c, ok := t.FirstLosingCard(cards); ok {
		return c, nil
	}
	return cards[0], nil
}

func (g *GoalTracking) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	cards, err := legal(v, t, game.Backhand)
	if err != nil {
		return card.Card{}, err
	}
	if ownForehandWinning(t, v.Seat()) && needsWins(v.ForehandBid(), v.ForehandWins()) {
		return concede(t, cards), nil
	}
	if needsWins(v.BackhandBid(), v.BackhandWins()) {
		return highestWinning(t, cards), nil
	}
	return throwTrick(t, cards), nil
}
