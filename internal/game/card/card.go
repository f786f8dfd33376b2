package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，数值即比大小时的数值 (2..14)
type Rank int

const (
	Club Suit = iota
	Diamond
	Heart
	Spade

	// NoTrump marks a round played without a trump suit. It never appears on a card.
	NoTrump Suit = -1
)

// Suits lists the four suits in encoding order.
var Suits = []Suit{Club, Diamond, Heart, Spade}

// suitLetters 花色字母映射表
var suitLetters = map[Suit]string{
	Club:    "C",
	Diamond: "D",
	Heart:   "H",
	Spade:   "S",
	NoTrump: "-",
}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Club:    "♣",
	Diamond: "♦",
	Heart:   "♥",
	Spade:   "♠",
	NoTrump: "NT",
}

func (s Suit) String() string {
	if letter, ok := suitLetters[s]; ok {
		return letter
	}
	return "?"
}

// Symbol returns the display glyph of the suit.
func (s Suit) Symbol() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// IsRed reports whether cards of this suit are printed in red.
func (s Suit) IsRed() bool {
	return s == Heart || s == Diamond
}

// ParseSuit accepts a suit letter (C, D, H, S) in either case.
func ParseSuit(s string) (Suit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C":
		return Club, nil
	case "D":
		return Diamond, nil
	case "H":
		return Heart, nil
	case "S":
		return Spade, nil
	}
	return NoTrump, fmt.Errorf("unknown suit %q", s)
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	RankJ: "J",
	RankQ: "Q",
	RankK: "K",
	RankA: "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// charToRank 用于快速查找字符对应的 Rank
var charToRank = map[rune]Rank{
	'2': Rank2,
	'3': Rank3,
	'4': Rank4,
	'5': Rank5,
	'6': Rank6,
	'7': Rank7,
	'8': Rank8,
	'9': Rank9,
	'T': Rank10,
	'J': RankJ,
	'Q': RankQ,
	'K': RankK,
	'A': RankA,
}

func RankFromChar(char rune) (Rank, error) {
	if rank, ok := charToRank[char]; ok {
		return rank, nil
	}
	return -1, fmt.Errorf("unknown rank: %c", char)
}

// Card 定义一张牌. Cards are values and are only ever moved between decks.
type Card struct {
	Rank Rank
	Suit Suit
}

// IsValid reports whether c is one of the 52 real cards.
func (c Card) IsValid() bool {
	return c.Rank >= Rank2 && c.Rank <= RankA && c.Suit >= Club && c.Suit <= Spade
}

// NumericRank maps the rank onto 2..14 (J=11, Q=12, K=13, A=14).
func (c Card) NumericRank() int {
	return int(c.Rank)
}

// BidValue is the value of the card when set aside as a bid. Kings and aces are the
// cheapest bids: K counts 0, A counts 1, every other card its numeric rank.
func (c Card) BidValue() int {
	switch c.Rank {
	case RankK:
		return 0
	case RankA:
		return 1
	default:
		return int(c.Rank)
	}
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard reads cards written as rank followed by suit: "jc", "10h", "TD", "As".
func ParseCard(s string) (Card, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	in = strings.Replace(in, "10", "T", 1)
	runes := []rune(in)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := RankFromChar(runes[0])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := ParseSuit(string(runes[1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse is ParseCard for literals in tests and tables; it panics on bad input.
func MustParse(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParseAll parses a space separated list of cards.
func MustParseAll(s string) Deck {
	fields := strings.Fields(s)
	deck := make(Deck, 0, len(fields))
	for _, f := range fields {
		deck = append(deck, MustParse(f))
	}
	return deck
}
