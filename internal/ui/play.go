package ui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
)

// PlayConfig configures an interactive round.
type PlayConfig struct {
	Name     string
	Opponent game.Strategy
	// Seat is the seat of the person at the keyboard.
	Seat   game.Seat
	Trump  card.Suit
	Rand   *rand.Rand
	Logger game.Logger
	// Options are passed on to tea.NewProgram.
	Options []tea.ProgramOption
}

// Play runs one round between the person at the terminal and cfg.Opponent. It returns
// ErrQuit when the player leaves before the round is over.
func Play(ctx context.Context, cfg PlayConfig) (*game.Report, error) {
	if cfg.Opponent == nil {
		return nil, errors.New("play needs an opponent")
	}
	if cfg.Name == "" {
		cfg.Name = "you"
	}

	human := NewTUIStrategy(cfg.Name)
	defer human.Quit()

	leader, dealer := game.Strategy(human), cfg.Opponent
	if cfg.Seat == game.Dealer {
		leader, dealer = dealer, leader
	}
	r, err := game.NewRound(game.RoundConfig{
		Leader: leader,
		Dealer: dealer,
		Trump:  cfg.Trump,
		Rand:   cfg.Rand,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		rep, err := r.Play(ctx)
		human.finish(rep, err)
	}()

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, cfg.Options...)
	final, err := tea.NewProgram(newModel(human, cfg.Seat), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run ui: %w", err)
	}
	m, ok := final.(model)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil {
		return nil, ErrQuit
	}
	return m.report, nil
}
