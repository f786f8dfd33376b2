// Package ui lets a person play a round against a strategy in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/tennis/internal/game/card"
)

// Lipgloss Styles
var (
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	grayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	winningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2E7D32")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle  = lipgloss.NewStyle().MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func cardStyle(c card.Card) lipgloss.Style {
	if c.Suit.IsRed() {
		return redStyle
	}
	return blackStyle
}

// renderCard draws a card as rank over suit symbol.
func renderCard(c card.Card, style lipgloss.Style) string {
	style = style.Align(lipgloss.Center).Margin(0, 1)
	return lipgloss.JoinVertical(lipgloss.Center,
		style.Render(fmt.Sprintf("%-2s", c.Rank)),
		style.Render(fmt.Sprintf("%-2s", c.Suit.Symbol())),
	)
}

// renderCards draws a row of cards. Cards outside playable are grayed out when playable is
// not nil; the card at index highlight (if any) is drawn as winning.
func renderCards(cards card.Deck, playable card.Deck, highlight int) string {
	if len(cards) == 0 {
		return grayStyle.Render("(none)")
	}
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		style := cardStyle(c)
		switch {
		case i == highlight:
			style = winningStyle
		case playable != nil && !playable.Has(c):
			style = grayStyle
		}
		parts = append(parts, renderCard(c, style))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func bidText(label string, fore, back string, foreWins, backWins int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  forehand %s won %d", label, fore, foreWins)
	fmt.Fprintf(&sb, "  backhand %s won %d", back, backWins)
	return sb.String()
}
