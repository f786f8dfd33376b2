package player

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Human 命令行玩家 reads one card per line, e.g. "jc" for the jack of clubs or "10h".
// Unparsable or unplayable input is rejected and asked for again; the round itself never
// sees it.
type Human struct {
	name string
	in   *bufio.Scanner
	out  io.Writer
}

func NewHuman(name string, in io.Reader, out io.Writer) *Human {
	return &Human{name: name, in: bufio.NewScanner(in), out: out}
}

func (h *Human) Name() string { return h.name }

func (h *Human) BackhandBid(v game.View) (card.Card, error) {
	return h.ask(v, nil, "backhand bid", v.Backhand())
}

func (h *Human) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return h.ask(v, nil, "forehand bid", v.Forehand())
}

func (h *Human) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	return h.ask(v, t, "forehand card", t.LegalMoves(v.Forehand()))
}

func (h *Human) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	return h.ask(v, t, "backhand card", t.LegalMoves(v.Backhand()))
}

// ObserveTrick shows how the last trick ended.
func (h *Human) ObserveTrick(_ game.View, t *rule.Trick) {
	fmt.Fprintf(h.out, "Trick: %s\n", t)
}

func (h *Human) ask(v game.View, t *rule.Trick, what string, allowed card.Deck) (card.Card, error) {
	h.show(v, t)
	for {
		fmt.Fprintf(h.out, "Your %s %v: ", what, allowed)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return card.Card{}, fmt.Errorf("read %s: %w", what, err)
			}
			return card.Card{}, fmt.Errorf("read %s: %w", what, io.ErrUnexpectedEOF)
		}

		line := strings.TrimSpace(h.in.Text())
		if line == "" {
			continue
		}
		c, err := card.ParseCard(line)
		if err != nil {
			fmt.Fprintf(h.out, "%v\n", err)
			continue
		}
		if !allowed.Has(c) {
			fmt.Fprintf(h.out, "%s cannot be played now\n", c)
			continue
		}
		return c, nil
	}
}

func (h *Human) show(v game.View, t *rule.Trick) {
	opp := v.Opponent()
	fmt.Fprintf(h.out, "\nTrump suit: %s    You are the %s\n", v.Trump(), v.Seat())
	fmt.Fprintf(h.out, "Forehand: %s\n", v.Forehand())
	fmt.Fprintf(h.out, "Backhand: %s\n", v.Backhand())
	fmt.Fprintf(h.out, "Your bids: [%s, %s] wins: [%d, %d]\n",
		bidLabel(v.ForehandBid()), bidLabel(v.BackhandBid()), v.ForehandWins(), v.BackhandWins())
	fmt.Fprintf(h.out, "Opponent bids: [%s, %s] wins: [%d, %d]\n",
		bidLabel(opp.ForehandBid), bidLabel(opp.BackhandBid), opp.ForehandWins, opp.BackhandWins)
	if t != nil {
		fmt.Fprintf(h.out, "Current trick: %s\n", t)
	}
}

func bidLabel(b *game.Bid) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%s=%d", b.Card, b.Value)
}
