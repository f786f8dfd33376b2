package rule

import (
	"fmt"
	"strings"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game/card"
)

// TrickSize is the number of cards in a complete trick.
const TrickSize = 4

// Trick 一墩牌: leader forehand, dealer forehand, leader backhand, dealer backhand.
// The winner is tracked incrementally so strategies can see who is currently taking it.
type Trick struct {
	cards    card.Deck
	trump    card.Suit
	leadSuit card.Suit
	winning  int
}

// NewTrick starts an empty trick. Pass card.NoTrump for a round without trumps.
func NewTrick(trump card.Suit) *Trick {
	return &Trick{
		cards:    make(card.Deck, 0, TrickSize),
		trump:    trump,
		leadSuit: card.NoTrump,
		winning:  -1,
	}
}

// Cards returns a copy of the cards played so far.
func (t *Trick) Cards() card.Deck { return t.cards.Clone() }

func (t *Trick) Len() int { return len(t.cards) }

func (t *Trick) Trump() card.Suit { return t.trump }

// LeadSuit is card.NoTrump until the first card is played.
func (t *Trick) LeadSuit() card.Suit { return t.leadSuit }

// WinningIndex is the position of the card currently taking the trick, -1 when empty.
func (t *Trick) WinningIndex() int { return t.winning }

// WinningCard returns the card currently taking the trick.
func (t *Trick) WinningCard() (card.Card, bool) {
	if t.winning < 0 {
		return card.Card{}, false
	}
	return t.cards[t.winning], true
}

func (t *Trick) IsComplete() bool { return len(t.cards) == TrickSize }

// WouldWin reports whether c would take the trick if played now. It is checked against the
// current winner, not the lead card: a higher card of the winner's suit overtakes, and the
// first trump overtakes any non-trump winner.
func (t *Trick) WouldWin(c card.Card) bool {
	if t.winning < 0 {
		return true
	}
	best := t.cards[t.winning]
	if c.Suit == best.Suit {
		return c.NumericRank() > best.NumericRank()
	}
	return t.trump != card.NoTrump && c.Suit == t.trump
}

// LegalMoves returns the cards of hand that may be played next. Leading is unrestricted;
// afterwards a player must follow the lead suit and may play anything when void in it.
func (t *Trick) LegalMoves(hand card.Deck) card.Deck {
	if len(t.cards) == 0 {
		return hand.Clone()
	}
	if follow := hand.OfSuit(t.leadSuit); len(follow) > 0 {
		return follow
	}
	return hand.Clone()
}

// IsLegal reports whether c is in hand and allowed by LegalMoves.
func (t *Trick) IsLegal(hand card.Deck, c card.Card) bool {
	return t.LegalMoves(hand).Has(c)
}

// AddCard plays c into the trick and updates the lead suit and the winner.
func (t *Trick) AddCard(c card.Card) error {
	if t.IsComplete() {
		return fmt.Errorf("add %s: %w", c, apperrors.ErrTrickComplete)
	}
	if len(t.cards) == 0 {
		t.leadSuit = c.Suit
	}
	if t.WouldWin(c) {
		t.winning = len(t.cards)
	}
	t.cards = append(t.cards, c)
	return nil
}

// Clone returns an independent copy, safe to hand to strategies.
func (t *Trick) Clone() *Trick {
	cp := *t
	cp.cards = t.cards.Clone()
	if cp.cards == nil {
		cp.cards = make(card.Deck, 0, TrickSize)
	}
	return &cp
}

// FirstWinningCard returns the first card of cards, in the given order, that would take the
// trick.
func (t *Trick) FirstWinningCard(cards card.Deck) (card.Card, bool) {
	for _, c := range cards {
		if t.WouldWin(c) {
			return c, true
		}
	}
	return card.Card{}, false
}

// FirstLosingCard returns the first card of cards that would not take the trick.
func (t *Trick) FirstLosingCard(cards card.Deck) (card.Card, bool) {
	for _, c := range cards {
		if !t.WouldWin(c) {
			return c, true
		}
	}
	return card.Card{}, false
}

func (t *Trick) String() string {
	parts := make([]string, len(t.cards))
	for i, c := range t.cards {
		parts[i] = c.String()
	}
	s := fmt.Sprintf("[%s] %s", t.trump, strings.Join(parts, ","))
	if w, ok := t.WinningCard(); ok {
		s += " -> " + w.String()
	}
	return s
}
