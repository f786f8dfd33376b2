package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

const maxLogLines = 5

// model bubbletea 模型
type model struct {
	player *TUIStrategy
	input  textinput.Model

	table   table
	pending *requestMsg

	lastTrick  card.Deck
	lastWinner int
	log        []string
	errMsg     string

	report   *game.Report
	err      error
	finished bool

	width int
}

func newModel(player *TUIStrategy, seat game.Seat) model {
	ti := textinput.New()
	ti.Placeholder = "e.g. jc or 10h"
	ti.CharLimit = 3
	ti.Width = 12
	ti.Focus()

	return model{
		player:     player,
		input:      ti,
		table:      table{Seat: seat, Winning: -1},
		lastWinner: -1,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.player.events))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case requestMsg:
		m.pending = &msg
		m.table = msg.table
		m.errMsg = ""
		m.input.Reset()
		return m, waitForEvent(m.player.events)

	case trickMsg:
		m.table = msg.table
		m.lastTrick = msg.cards
		m.lastWinner = msg.winner
		m.addLog(trickLine(msg))
		return m, waitForEvent(m.player.events)

	case doneMsg:
		m.pending = nil
		m.finished = true
		m.report, m.err = msg.report, msg.err
		if m.err != nil {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrQuit
			m.player.Quit()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.finished {
				return m, tea.Quit
			}
			return m.submit(), nil
		}
		if m.finished {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the typed card to the waiting round if it may be played.
func (m model) submit() model {
	if m.pending == nil {
		return m
	}
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m
	}
	c, err := card.ParseCard(value)
	if err != nil {
		m.errMsg = err.Error()
		m.input.Reset()
		return m
	}
	if !m.pending.legal.Has(c) {
		m.errMsg = fmt.Sprintf("%s cannot be played now", c)
		m.input.Reset()
		return m
	}
	m.pending.reply <- c
	m.addLog(fmt.Sprintf("your %s: %s", m.pending.what, c))
	m.pending = nil
	m.errMsg = ""
	m.input.Reset()
	return m
}

func (m *model) addLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func trickLine(msg trickMsg) string {
	seat, hand := turnOf(msg.winner)
	who := "opponent"
	if seat == msg.table.Seat {
		who = "your"
	}
	return fmt.Sprintf("trick %d %s taken by %s %s", msg.table.TrickNumber, msg.cards, who, hand)
}

// turnOf maps a trick position to the seat and hand that played it.
func turnOf(position int) (game.Seat, game.Hand) {
	seat := game.Leader
	if position%2 == 1 {
		seat = game.Dealer
	}
	hand := game.Forehand
	if position >= rule.TrickSize/2 {
		hand = game.Backhand
	}
	return seat, hand
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(m.table.header())
	sb.WriteString("\n\n")

	sb.WriteString("Trick\n")
	sb.WriteString(renderCards(m.table.Trick, nil, m.table.Winning))
	sb.WriteString("\n")
	if m.lastTrick != nil {
		sb.WriteString("Last trick\n")
		sb.WriteString(renderCards(m.lastTrick, nil, m.lastWinner))
		sb.WriteString("\n")
	}

	var legal card.Deck
	active := game.Forehand
	if m.pending != nil {
		legal, active = m.pending.legal, m.pending.hand
	}
	sb.WriteString(m.table.hands(active, legal))
	sb.WriteString("\n")

	for _, l := range m.log {
		sb.WriteString(grayStyle.UnsetBackground().Render(l))
		sb.WriteString("\n")
	}

	switch {
	case m.finished:
		sb.WriteString(promptStyle.Render(m.resultText()))
		sb.WriteString("\n")
	case m.pending != nil:
		sb.WriteString(promptStyle.Render(fmt.Sprintf("Your %s: %s", m.pending.what, m.input.View())))
		sb.WriteString("\n")
	default:
		sb.WriteString(promptStyle.Render("Waiting for the opponent..."))
		sb.WriteString("\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(grayStyle.UnsetBackground().Render("esc to quit"))

	style := docStyle
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(sb.String())
}

func (m model) resultText() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	if m.report == nil {
		return ""
	}
	me := m.report.Seat(m.table.Seat)
	opp := m.report.Seat(m.table.Seat.Opponent())
	result := "Tie."
	if s, ok := m.report.WinnerSeat(); ok {
		if s == m.table.Seat {
			result = "You win!"
		} else {
			result = "You lose."
		}
	}
	return fmt.Sprintf("%s  Your error %d, opponent's error %d. Press any key.", result, me.TotalError, opp.TotalError)
}
