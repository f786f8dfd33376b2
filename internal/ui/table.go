package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// table is what the player sees of the round at one decision.
type table struct {
	Seat        game.Seat
	Trump       card.Suit
	TrickNumber int

	Forehand card.Deck
	Backhand card.Deck

	ForehandBid  string
	BackhandBid  string
	ForehandWins int
	BackhandWins int

	Opponent game.RevealedInfo

	Trick   card.Deck
	Winning int
}

func newTable(v game.View, t *rule.Trick) table {
	tb := table{
		Seat:         v.Seat(),
		Trump:        v.Trump(),
		TrickNumber:  v.TrickNumber(),
		Forehand:     v.Forehand(),
		Backhand:     v.Backhand(),
		ForehandBid:  bidLabel(v.ForehandBid()),
		BackhandBid:  bidLabel(v.BackhandBid()),
		ForehandWins: v.ForehandWins(),
		BackhandWins: v.BackhandWins(),
		Opponent:     v.Opponent(),
		Winning:      -1,
	}
	if t != nil {
		tb.Trick = t.Cards()
		tb.Winning = t.WinningIndex()
	}
	tb.Forehand.SortBySuitAndRank()
	tb.Backhand.SortBySuitAndRank()
	return tb
}

func bidLabel(b *game.Bid) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%s(%d)", b.Card, b.Value)
}

// header renders trump, seat and both players' bids.
func (t table) header() string {
	trick := "bidding"
	if t.TrickNumber > 0 {
		trick = fmt.Sprintf("trick %d/%d", t.TrickNumber, game.TricksPerRound)
	}
	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("Tennis    trump %s    you are the %s    %s",
		t.Trump.Symbol(), t.Seat, trick)))
	sb.WriteString("\n")
	sb.WriteString(bidText("You     ", t.ForehandBid, t.BackhandBid, t.ForehandWins, t.BackhandWins))
	sb.WriteString("\n")
	sb.WriteString(bidText("Opponent", bidLabel(t.Opponent.ForehandBid), bidLabel(t.Opponent.BackhandBid),
		t.Opponent.ForehandWins, t.Opponent.BackhandWins))
	return sb.String()
}

// hands renders both hands in a box. Cards of the hand being asked for that are not in
// legal are grayed out.
func (t table) hands(active game.Hand, legal card.Deck) string {
	fore, back := card.Deck(nil), card.Deck(nil)
	if legal != nil {
		if active == game.Forehand {
			fore = legal
		} else {
			back = legal
		}
	}
	foreRow := renderCards(t.Forehand, fore, -1)
	backRow := renderCards(t.Backhand, back, -1)
	if legal != nil && active == game.Forehand {
		backRow = lipgloss.NewStyle().Faint(true).Render(backRow)
	} else if legal != nil {
		foreRow = lipgloss.NewStyle().Faint(true).Render(foreRow)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"Forehand", foreRow,
		"Backhand", backRow,
	))
}
