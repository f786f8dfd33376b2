// Package env exposes a round as a step-by-step environment for learning agents: the agent
// plays one seat by action index, a Policy plays the other.
package env

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// ActionCount is the size of the action space: one action per card.
const ActionCount = 52

var errNoAction = errors.New("no action queued")

// Config 环境配置
type Config struct {
	// Rewarded is the seat the agent plays; rewards are computed from its point of view.
	Rewarded game.Seat
	// Opponent plays the other seat.
	Opponent Policy
	// Trump is drawn once from the four suits and no-trump when nil.
	Trump *card.Suit
	Rand  *rand.Rand
}

// Env 训练环境. Not safe for concurrent use; run one Env per goroutine.
type Env struct {
	cfg     Config
	trump   card.Suit
	actions card.Deck
	slots   [2]*slot
	round   *game.Round
	done    bool
	reward  float64
}

// New validates cfg and returns an Env; call Reset before stepping.
func New(cfg Config) (*Env, error) {
	if cfg.Opponent == nil {
		return nil, errors.New("env needs an opponent policy")
	}
	if cfg.Rand == nil {
		return nil, errors.New("env needs a randomness source")
	}
	if cfg.Rewarded != game.Leader && cfg.Rewarded != game.Dealer {
		return nil, fmt.Errorf("invalid rewarded seat %d", cfg.Rewarded)
	}

	var trump card.Suit
	if cfg.Trump != nil {
		trump = *cfg.Trump
	} else {
		choices := append(slices.Clone(card.Suits), card.NoTrump)
		trump = choices[cfg.Rand.IntN(len(choices))]
	}

	return &Env{
		cfg:     cfg,
		trump:   trump,
		actions: card.NewDeck(),
	}, nil
}

// ActionSpace lists the 52 cards in action order.
func (e *Env) ActionSpace() card.Deck { return e.actions.Clone() }

// Action returns the action index of c.
func (e *Env) Action(c card.Card) (int, bool) {
	i := slices.Index(e.actions, c)
	return i, i >= 0
}

func (e *Env) Trump() card.Suit { return e.trump }
func (e *Env) Done() bool { return e.done }

// Round exposes the underlying round for policies and renderers. Callers must not step it.
func (e *Env) Round() *game.Round { return e.round }

// Reset deals a new round and plays the opponent until it is the agent's turn.
func (e *Env) Reset() (State, error) {
	e.slots = [2]*slot{{name: "leader"}, {name: "dealer"}}
	round, err := game.NewRound(game.RoundConfig{
		Leader: e.slots[game.Leader],
		Dealer: e.slots[game.Dealer],
		Trump:  e.trump,
		Rand:   e.cfg.Rand,
	})
	if err != nil {
		return nil, err
	}
	e.round = round
	e.done = false
	e.reward = 0

	if err := e.advance(); err != nil {
		return nil, err
	}
	if err := e.playOpponent(); err != nil {
		return nil, err
	}
	return e.State(), nil
}

// LegalMoves lists the cards the acting seat may choose from.
func (e *Env) LegalMoves() card.Deck {
	if e.round == nil {
		return nil
	}
	return e.round.LegalMoves()
}

// LegalActions is LegalMoves as action indices, in ascending order.
func (e *Env) LegalActions() []int {
	var out []int
	for _, c := range e.LegalMoves() {
		if i, ok := e.Action(c); ok {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// Step applies the agent's action, lets the opponent answer and returns the next state.
// The reward is zero until the round is over.
func (e *Env) Step(action int) (State, float64, bool, error) {
	if action < 0 || action >= ActionCount {
		return nil, 0, e.done, fmt.Errorf("action %d out of range: %w", action, apperrors.ErrIllegalMove)
	}
	return e.StepCard(e.actions[action])
}

// StepCard is Step with the card itself instead of its action index.
func (e *Env) StepCard(c card.Card) (State, float64, bool, error) {
	if e.round == nil {
		return nil, 0, false, fmt.Errorf("step before reset: %w", apperrors.ErrWrongPhase)
	}
	if e.done {
		return e.State(), e.reward, true, apperrors.ErrRoundOver
	}
	if err := e.apply(c); err != nil {
		return nil, 0, false, err
	}
	if err := e.playOpponent(); err != nil {
		return nil, 0, false, err
	}
	return e.State(), e.reward, e.done, nil
}

// Winner returns the winning seat once the round is over; ok is false for a draw or while
// the round is still running.
func (e *Env) Winner() (s game.Seat, ok bool) {
	if !e.done {
		return game.Leader, false
	}
	return e.round.Report().WinnerSeat()
}

// Render writes the current round state to w.
func (e *Env) Render(w io.Writer) error {
	if e.round == nil {
		return fmt.Errorf("render before reset: %w", apperrors.ErrWrongPhase)
	}
	return e.round.Render(w)
}

// apply hands c to the acting seat and runs the round up to the next decision.
func (e *Env) apply(c card.Card) error {
	s, _, ok := e.round.ToAct()
	if !ok {
		return fmt.Errorf("no decision pending in %s: %w", e.round.Phase(), apperrors.ErrWrongPhase)
	}
	if !e.round.LegalMoves().Has(c) {
		return fmt.Errorf("%s cannot play %s: %w", s, c, apperrors.ErrIllegalMove)
	}
	e.slots[s].queue(c)
	if err := e.round.Step(); err != nil {
		return err
	}
	return e.advance()
}

// advance steps through phases that need no decision and settles the reward at the end.
func (e *Env) advance() error {
	for {
		if e.round.Phase() == game.PhaseDone {
			e.finish()
			return nil
		}
		if _, _, ok := e.round.ToAct(); ok {
			return nil
		}
		if err := e.round.Step(); err != nil {
			return err
		}
	}
}

func (e *Env) playOpponent() error {
	for !e.done {
		s, _, _ := e.round.ToAct()
		if s == e.cfg.Rewarded {
			return nil
		}
		action, err := e.cfg.Opponent.Choose(e)
		if err != nil {
			return fmt.Errorf("opponent: %w", err)
		}
		if action < 0 || action >= ActionCount {
			return fmt.Errorf("opponent action %d out of range: %w", action, apperrors.ErrIllegalMove)
		}
		if err := e.apply(e.actions[action]); err != nil {
			return fmt.Errorf("opponent: %w", err)
		}
	}
	return nil
}

func (e *Env) finish() {
	report := e.round.Report()
	own := report.Seat(e.cfg.Rewarded).TotalError
	opp := report.Seat(e.cfg.Rewarded.Opponent()).TotalError
	e.reward = float64(opp-own) / rule.MaxTotalError
	e.done = true
}

// slot is the strategy the env seats in the round: it answers with whatever card was
// queued for it last.
type slot struct {
	name string
	next card.Card
	set  bool
}

func (s *slot) queue(c card.Card) {
	s.next = c
	s.set = true
}

func (s *slot) take() (card.Card, error) {
	if !s.set {
		return card.Card{}, errNoAction
	}
	s.set = false
	return s.next, nil
}

func (s *slot) Name() string { return s.name }

func (s *slot) BackhandBid(game.View) (card.Card, error) { return s.take() }

func (s *slot) ForehandBid(game.View, game.RevealedInfo) (card.Card, error) { return s.take() }

func (s *slot) PlayForehand(game.View, *rule.Trick) (card.Card, error) { return s.take() }

func (s *slot) PlayBackhand(game.View, *rule.Trick) (card.Card, error) { return s.take() }
