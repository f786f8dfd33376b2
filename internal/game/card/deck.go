package card

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/palemoky/tennis/internal/apperrors"
)

// Deck 定义一组有序的牌. The same type backs the undealt deck, hands, trick cards and
// opponent-visibility trackers. The top of the deck is the end of the slice.
type Deck []Card

// rankOrder and resetSuitOrder fix the order Reset lays out the 52 cards in.
var (
	rankOrder      = []Rank{Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}
	resetSuitOrder = []Suit{Club, Spade, Heart, Diamond}
)

// NewDeck returns a full, unshuffled 52-card deck.
func NewDeck() Deck {
	var d Deck
	d.Reset()
	return d
}

// Reset replaces the contents with all 52 distinct rank×suit combinations.
func (d *Deck) Reset() {
	cards := make(Deck, 0, 52)
	for _, s := range resetSuitOrder {
		for _, r := range rankOrder {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	*d = cards
}

// Shuffle applies a uniform random permutation drawn from rng.
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes n cards from the top of the deck and returns them in the order drawn.
func (d *Deck) Draw(n int) (Deck, error) {
	if n < 0 || n > len(*d) {
		return nil, fmt.Errorf("draw %d from %d: %w", n, len(*d), apperrors.ErrInsufficientCards)
	}
	drawn := make(Deck, 0, n)
	for range n {
		last := len(*d) - 1
		drawn = append(drawn, (*d)[last])
		*d = (*d)[:last]
	}
	return drawn, nil
}

// Play removes c from the deck and returns it.
func (d *Deck) Play(c Card) (Card, error) {
	idx := slices.Index(*d, c)
	if idx < 0 {
		return Card{}, fmt.Errorf("play %s: %w", c, apperrors.ErrCardNotFound)
	}
	*d = slices.Delete(*d, idx, idx+1)
	return c, nil
}

// Add puts cards on the bottom of the deck.
func (d *Deck) Add(cards ...Card) {
	*d = append(*d, cards...)
}

func (d Deck) Has(c Card) bool {
	return slices.Contains(d, c)
}

func (d Deck) Len() int {
	return len(d)
}

// Clone returns an independent copy; nil stays nil.
func (d Deck) Clone() Deck {
	return slices.Clone(d)
}

func (d Deck) String() string {
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// SortByRank orders the deck by numeric rank, highest first unless ascending is set.
// Cards of equal rank keep their relative order.
func (d Deck) SortByRank(ascending bool) {
	slices.SortStableFunc(d, func(a, b Card) int {
		if ascending {
			return cmp.Compare(a.NumericRank(), b.NumericRank())
		}
		return cmp.Compare(b.NumericRank(), a.NumericRank())
	})
}

// SortBySuitAndRank groups the cards by suit, the most common suit of the deck first and
// the highest rank first within a suit. Suits with equal counts are ordered by suit.
func (d Deck) SortBySuitAndRank() {
	counts := make(map[Suit]int, 4)
	for _, c := range d {
		counts[c.Suit]++
	}
	slices.SortStableFunc(d, func(a, b Card) int {
		if n := cmp.Compare(counts[b.Suit], counts[a.Suit]); n != 0 {
			return n
		}
		if n := cmp.Compare(b.Suit, a.Suit); n != 0 {
			return n
		}
		return cmp.Compare(b.NumericRank(), a.NumericRank())
	})
}

// ClosestToRank returns the card whose numeric rank is nearest to target.
// Ties go to the lower ranked card.
func (d Deck) ClosestToRank(target float64) (Card, bool) {
	return d.closest(target, Card.NumericRank)
}

// ClosestToBidValue returns the card whose bid value is nearest to target.
// Ties go to the card with the lower bid value.
func (d Deck) ClosestToBidValue(target float64) (Card, bool) {
	return d.closest(target, Card.BidValue)
}

func (d Deck) closest(target float64, value func(Card) int) (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	best := d[0]
	bestDist := math.Abs(target - float64(value(best)))
	for _, c := range d[1:] {
		dist := math.Abs(target - float64(value(c)))
		if dist < bestDist || (dist == bestDist && value(c) < value(best)) {
			best, bestDist = c, dist
		}
	}
	return best, true
}

// AverageNumericRank is 0 for an empty deck.
func (d Deck) AverageNumericRank() float64 {
	if len(d) == 0 {
		return 0
	}
	total := 0
	for _, c := range d {
		total += c.NumericRank()
	}
	return float64(total) / float64(len(d))
}

func (d Deck) CountSuit(s Suit) int {
	n := 0
	for _, c := range d {
		if c.Suit == s {
			n++
		}
	}
	return n
}

// OfSuit returns the cards of suit s in deck order.
func (d Deck) OfSuit(s Suit) Deck {
	var out Deck
	for _, c := range d {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}
