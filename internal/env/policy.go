package env

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
)

// Policy picks the next action for whichever seat is to act.
type Policy interface {
	Choose(e *Env) (int, error)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(e *Env) (int, error)

func (f PolicyFunc) Choose(e *Env) (int, error) { return f(e) }

// RandomPolicy picks uniformly among the legal actions.
type RandomPolicy struct {
	Rand *rand.Rand
}

func (p RandomPolicy) Choose(e *Env) (int, error) {
	actions := e.LegalActions()
	if len(actions) == 0 {
		return 0, fmt.Errorf("no legal action: %w", apperrors.ErrWrongPhase)
	}
	return actions[p.Rand.IntN(len(actions))], nil
}

// StrategyPolicy lets a rule-based strategy play a seat of the environment.
type StrategyPolicy struct {
	Strategy game.Strategy
}

func (p StrategyPolicy) Choose(e *Env) (int, error) {
	r := e.Round()
	if r == nil {
		return 0, fmt.Errorf("choose before reset: %w", apperrors.ErrWrongPhase)
	}
	s, h, ok := r.ToAct()
	if !ok {
		return 0, fmt.Errorf("no decision pending in %s: %w", r.Phase(), apperrors.ErrWrongPhase)
	}

	view := r.View(s)
	var (
		c   card.Card
		err error
	)
	switch {
	case r.Phase() == game.PhaseTrick && h == game.Forehand:
		c, err = p.Strategy.PlayForehand(view, r.CurrentTrick())
	case r.Phase() == game.PhaseTrick:
		c, err = p.Strategy.PlayBackhand(view, r.CurrentTrick())
	case h == game.Backhand:
		c, err = p.Strategy.BackhandBid(view)
	default:
		c, err = p.Strategy.ForehandBid(view, view.Opponent())
	}
	if err != nil {
		return 0, err
	}

	action, ok := e.Action(c)
	if !ok {
		return 0, fmt.Errorf("%s returned invalid card %v: %w", p.Strategy.Name(), c, apperrors.ErrIllegalMove)
	}
	return action, nil
}
