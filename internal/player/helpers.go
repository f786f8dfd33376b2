// Package player holds the rule-based strategies and the line-oriented human player.
// Every strategy reads the game through game.View and only ever answers with cards from
// its own hand.
package player

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Targets are the bid values a strategy aims for with each hand.
type Targets struct {
	Backhand float64
	Forehand float64
}

// closestBid picks the card whose bid value is nearest to target.
func closestBid(hand card.Deck, target float64) (card.Card, error) {
	c, ok := hand.ClosestToBidValue(target)
	if !ok {
		return card.Card{}, fmt.Errorf("bid from an empty hand: %w", apperrors.ErrInsufficientCards)
	}
	return c, nil
}

func handOf(v game.View, h game.Hand) card.Deck {
	if h == game.Forehand {
		return v.Forehand()
	}
	return v.Backhand()
}

// legal returns the cards of hand h that may be played into t.
func legal(v game.View, t *rule.Trick, h game.Hand) (card.Deck, error) {
	cards := t.LegalMoves(handOf(v, h))
	if len(cards) == 0 {
		return nil, fmt.Errorf("%s %s is empty: %w", v.Seat(), h, apperrors.ErrInsufficientCards)
	}
	return cards, nil
}

func pick(rng *rand.Rand, cards card.Deck) card.Card {
	return cards[rng.IntN(len(cards))]
}

func ascending(cards card.Deck) card.Deck {
	sorted := cards.Clone()
	sorted.SortByRank(true)
	return sorted
}

func descending(cards card.Deck) card.Deck {
	sorted := cards.Clone()
	sorted.SortByRank(false)
	return sorted
}

// lowestWinning 最小压牌: the lowest card that would take the trick, else the lowest card.
func lowestWinning(t *rule.Trick, cards card.Deck) card.Card {
	sorted := ascending(cards)
	if c, ok := t.FirstWinningCard(sorted); ok {
		return c
	}
	return sorted[0]
}

// highestWinning is the highest card that would take the trick, else the lowest card.
func highestWinning(t *rule.Trick, cards card.Deck) card.Card {
	sorted := descending(cards)
	if c, ok := t.FirstWinningCard(sorted); ok {
		return c
	}
	return sorted[len(sorted)-1]
}

// concede plays the lowest card that loses, else the lowest card.
func concede(t *rule.Trick, cards card.Deck) card.Card {
	sorted := ascending(cards)
	if c, ok := t.FirstLosingCard(sorted); ok {
		return c
	}
	return sorted[0]
}

// throwTrick 垫牌: dump the highest losing card of a suit not yet in the trick, then the
// highest losing card of any suit. When every card wins, the lowest one is played.
func throwTrick(t *rule.Trick, cards card.Deck) card.Card {
	inTrick := make(map[card.Suit]bool, rule.TrickSize)
	for _, c := range t.Cards() {
		inTrick[c.Suit] = true
	}

	sorted := descending(cards)
	for _, c := range sorted {
		if !inTrick[c.Suit] && !t.WouldWin(c) {
			return c
		}
	}
	if c, ok := t.FirstLosingCard(sorted); ok {
		return c
	}
	return sorted[len(sorted)-1]
}

// ownForehandWinning reports whether the card currently taking t came from the forehand
// of the player in seat s. Forehands occupy the first two positions of a trick.
func ownForehandWinning(t *rule.Trick, s game.Seat) bool {
	return t.Len() > 0 && t.WinningIndex() == int(s)
}

// needsWins reports whether a hand is still short of its bid.
func needsWins(bid *game.Bid, wins int) bool {
	return bid != nil && wins < bid.Value
}
