package ui

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// ErrQuit is returned to the round when the player leaves the table.
var ErrQuit = errors.New("player quit")

// requestMsg asks the player for one card.
type requestMsg struct {
	what  string
	hand  game.Hand
	table table
	legal card.Deck
	reply chan card.Card
}

// trickMsg shows a completed trick.
type trickMsg struct {
	table  table
	cards  card.Deck
	winner int
}

// doneMsg ends the round.
type doneMsg struct {
	report *game.Report
	err    error
}

// TUIStrategy 终端玩家. The round calls it from its own goroutine; every decision is sent to
// the bubbletea program as a message and blocks until the program replies or the player quits.
type TUIStrategy struct {
	name   string
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func NewTUIStrategy(name string) *TUIStrategy {
	return &TUIStrategy{
		name:   name,
		events: make(chan tea.Msg),
		done:   make(chan struct{}),
	}
}

func (s *TUIStrategy) Name() string { return s.name }

func (s *TUIStrategy) BackhandBid(v game.View) (card.Card, error) {
	return s.ask(v, nil, game.Backhand, "backhand bid", v.Backhand())
}

func (s *TUIStrategy) ForehandBid(v game.View, _ game.RevealedInfo) (card.Card, error) {
	return s.ask(v, nil, game.Forehand, "forehand bid", v.Forehand())
}

func (s *TUIStrategy) PlayForehand(v game.View, t *rule.Trick) (card.Card, error) {
	return s.ask(v, t, game.Forehand, "forehand card", t.LegalMoves(v.Forehand()))
}

func (s *TUIStrategy) PlayBackhand(v game.View, t *rule.Trick) (card.Card, error) {
	return s.ask(v, t, game.Backhand, "backhand card", t.LegalMoves(v.Backhand()))
}

// ObserveTrick forwards the finished trick to the screen.
func (s *TUIStrategy) ObserveTrick(v game.View, t *rule.Trick) {
	_ = s.send(trickMsg{table: newTable(v, nil), cards: t.Cards(), winner: t.WinningIndex()})
}

// Quit releases a round blocked on the player. Safe to call more than once.
func (s *TUIStrategy) Quit() {
	s.once.Do(func() { close(s.done) })
}

// finish reports the end of the round to the program.
func (s *TUIStrategy) finish(rep *game.Report, err error) {
	_ = s.send(doneMsg{report: rep, err: err})
}

func (s *TUIStrategy) ask(v game.View, t *rule.Trick, h game.Hand, what string, legal card.Deck) (card.Card, error) {
	if len(legal) == 0 {
		return card.Card{}, fmt.Errorf("%s: no card to play", what)
	}
	req := requestMsg{
		what:  what,
		hand:  h,
		table: newTable(v, t),
		legal: legal,
		reply: make(chan card.Card, 1),
	}
	if err := s.send(req); err != nil {
		return card.Card{}, err
	}
	select {
	case c := <-req.reply:
		return c, nil
	case <-s.done:
		return card.Card{}, ErrQuit
	}
}

func (s *TUIStrategy) send(msg tea.Msg) error {
	select {
	case s.events <- msg:
		return nil
	case <-s.done:
		return ErrQuit
	}
}

// waitForEvent 监听引擎消息
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
