package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Logger receives debug output from the round controller. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// RoundConfig 回合配置
type RoundConfig struct {
	Leader Strategy
	Dealer Strategy
	// Trump may be card.NoTrump.
	Trump card.Suit
	// Rand shuffles the deck. Ignored when Deck is set.
	Rand *rand.Rand
	// Deck, when set, is dealt as-is instead of a fresh shuffle. It must hold all 52 cards.
	Deck   card.Deck
	Logger Logger
}

// Round 一回合. It owns its deck, trick and both player records, so independent rounds
// can run on separate goroutines without coordination.
type Round struct {
	id         string
	trump      card.Suit
	phase      Phase
	deck       card.Deck
	players    [2]*PlayerState
	strategies [2]Strategy
	trick      *rule.Trick
	tricks     []*rule.Trick
	moves      []Move
	report     *Report
	logger     Logger
}

// NewRound 初始化一个新回合
func NewRound(cfg RoundConfig) (*Round, error) {
	if cfg.Leader == nil || cfg.Dealer == nil {
		return nil, errors.New("round needs a leader and a dealer strategy")
	}
	if cfg.Trump != card.NoTrump && (cfg.Trump < card.Club || cfg.Trump > card.Spade) {
		return nil, fmt.Errorf("invalid trump suit %d", cfg.Trump)
	}

	var deck card.Deck
	switch {
	case cfg.Deck != nil:
		if len(cfg.Deck) != 52 {
			return nil, fmt.Errorf("preset deck has %d cards: %w", len(cfg.Deck), apperrors.ErrInsufficientCards)
		}
		deck = cfg.Deck.Clone()
	case cfg.Rand != nil:
		deck = card.NewDeck()
		deck.Shuffle(cfg.Rand)
	default:
		return nil, errors.New("round needs either a randomness source or a preset deck")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Round{
		id:    uuid.New().String(),
		trump: cfg.Trump,
		phase: PhaseDealBackhand,
		deck:  deck,
		players: [2]*PlayerState{
			newPlayerState(Leader, cfg.Leader.Name()),
			newPlayerState(Dealer, cfg.Dealer.Name()),
		},
		strategies: [2]Strategy{cfg.Leader, cfg.Dealer},
		trick:      rule.NewTrick(cfg.Trump),
		logger:     logger,
	}, nil
}

func (r *Round) ID() string { return r.id }
func (r *Round) Phase() Phase { return r.phase }
func (r *Round) Trump() card.Suit { return r.trump }
func (r *Round) Moves() []Move { return append([]Move(nil), r.moves...) }
func (r *Round) CurrentTrick() *rule.Trick { return r.trick.Clone() }

// Player returns a copy of the record for seat.
func (r *Round) Player(s Seat) PlayerState {
	p := *r.players[s]
	p.Forehand = p.Forehand.Clone()
	p.Backhand = p.Backhand.Clone()
	p.OpponentCards = p.OpponentCards.Clone()
	p.ForehandBid = p.ForehandBid.clone()
	p.BackhandBid = p.BackhandBid.clone()
	p.OpponentForehandBid = p.OpponentForehandBid.clone()
	p.OpponentBackhandBid = p.OpponentBackhandBid.clone()
	return p
}

// View returns the read-only view a strategy in seat s is given.
func (r *Round) View(s Seat) View {
	return playerView{r: r, seat: s}
}

// Report is nil until the round reached PhaseDone.
func (r *Round) Report() *Report { return r.report }

// ToAct returns the seat and hand whose decision the round waits for. ok is false in
// phases that advance without one.
func (r *Round) ToAct() (s Seat, h Hand, ok bool) {
	switch r.phase {
	case PhaseBidBackhandLeader:
		return Leader, Backhand, true
	case PhaseBidBackhandDealer:
		return Dealer, Backhand, true
	case PhaseBidForehandLeader:
		return Leader, Forehand, true
	case PhaseBidForehandDealer:
		return Dealer, Forehand, true
	case PhaseTrick:
		s, h := turn(r.trick.Len())
		return s, h, true
	default:
		return Leader, Forehand, false
	}
}

// LegalMoves lists the cards the acting player may choose from: the whole hand while
// bidding, the trick's legal subset while playing. It is nil when no decision is pending.
func (r *Round) LegalMoves() card.Deck {
	s, h, ok := r.ToAct()
	if !ok {
		return nil
	}
	hand := *r.players[s].hand(h)
	if r.phase == PhaseTrick {
		return r.trick.LegalMoves(hand)
	}
	return hand.Clone()
}

func (r *Round) trickNumber() int {
	if r.phase != PhaseTrick {
		if r.phase > PhaseTrick {
			return TricksPerRound
		}
		return 0
	}
	return len(r.tricks) + 1
}

// Play runs the round to completion. The context is checked between decisions only.
func (r *Round) Play(ctx context.Context) (*Report, error) {
	for r.phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Step(); err != nil {
			return nil, err
		}
	}
	return r.report, nil
}

// Step advances the round by one phase, or by a single card while tricks are played.
func (r *Round) Step() error {
	r.logger.Printf("round %s: %s", r.id, r.phase)
	switch r.phase {
	case PhaseDealBackhand:
		return r.deal(Backhand, PhaseBidBackhandLeader)
	case PhaseBidBackhandLeader:
		return r.bid(Leader, Backhand, PhaseBidBackhandDealer)
	case PhaseBidBackhandDealer:
		return r.bid(Dealer, Backhand, PhaseRevealBackhandBids)
	case PhaseRevealBackhandBids:
		return r.reveal(Backhand, PhaseDealForehand)
	case PhaseDealForehand:
		return r.deal(Forehand, PhaseBidForehandLeader)
	case PhaseBidForehandLeader:
		return r.bid(Leader, Forehand, PhaseBidForehandDealer)
	case PhaseBidForehandDealer:
		return r.bid(Dealer, Forehand, PhaseRevealForehandBids)
	case PhaseRevealForehandBids:
		return r.reveal(Forehand, PhaseTrick)
	case PhaseTrick:
		return r.playCard()
	case PhaseScore:
		r.score()
		r.phase = PhaseDone
		return nil
	default:
		return apperrors.ErrRoundOver
	}
}

// deal 发牌: 13 cards to the given hand of each player, leader first.
func (r *Round) deal(h Hand, next Phase) error {
	for _, p := range r.players {
		cards, err := r.deck.Draw(HandSize)
		if err != nil {
			return fmt.Errorf("deal %s to %s: %w", h, p.Seat, err)
		}
		p.hand(h).Add(cards...)
		for _, c := range cards {
			if _, err := p.OpponentCards.Play(c); err != nil {
				return fmt.Errorf("deal %s to %s: %w", h, p.Seat, err)
			}
		}
	}
	r.phase = next
	return nil
}

// bid 叫牌: the strategy sets one card of the hand aside as its bid.
func (r *Round) bid(s Seat, h Hand, next Phase) error {
	p := r.players[s]
	view := r.View(s)

	var (
		c   card.Card
		err error
	)
	if h == Backhand {
		c, err = r.strategies[s].BackhandBid(view)
	} else {
		c, err = r.strategies[s].ForehandBid(view, p.opponentView())
	}
	if err != nil {
		return fmt.Errorf("%s %s bid: %w", s, h, err)
	}

	hand := p.hand(h)
	if !hand.Has(c) {
		return fmt.Errorf("%s %s bid %s not in hand %s: %w", s, h, c, *hand, apperrors.ErrIllegalMove)
	}
	if _, err := hand.Play(c); err != nil {
		return err
	}
	if h == Backhand {
		p.BackhandBid = newBid(c)
	} else {
		p.ForehandBid = newBid(c)
	}
	r.moves = append(r.moves, Move{Phase: r.phase, Seat: s, Hand: h, Card: c})
	r.phase = next
	return nil
}

// reveal shows both bids of hand h to both players at once.
func (r *Round) reveal(h Hand, next Phase) error {
	for _, p := range r.players {
		opp := r.players[p.Seat.Opponent()]
		var oppBid *Bid
		if h == Backhand {
			oppBid = opp.BackhandBid
			p.OpponentBackhandBid = oppBid.clone()
		} else {
			oppBid = opp.ForehandBid
			p.OpponentForehandBid = oppBid.clone()
		}
		if _, err := p.OpponentCards.Play(oppBid.Card); err != nil {
			return fmt.Errorf("reveal %s bid to %s: %w", h, p.Seat, err)
		}
	}
	r.phase = next
	return nil
}

// turn maps a position in the trick to the acting seat and hand:
// leader forehand, dealer forehand, leader backhand, dealer backhand.
func turn(position int) (Seat, Hand) {
	s := Seat(position % 2)
	if position < 2 {
		return s, Forehand
	}
	return s, Backhand
}

// playCard 出牌: one card from the player whose turn it is.
func (r *Round) playCard() error {
	position := r.trick.Len()
	s, h := turn(position)
	p := r.players[s]
	hand := p.hand(h)
	legal := r.trick.LegalMoves(*hand)

	view := r.View(s)
	var (
		c   card.Card
		err error
	)
	if h == Forehand {
		c, err = r.strategies[s].PlayForehand(view, r.trick.Clone())
	} else {
		c, err = r.strategies[s].PlayBackhand(view, r.trick.Clone())
	}
	if err != nil {
		return fmt.Errorf("trick %d %s %s: %w", r.trickNumber(), s, h, err)
	}
	if !legal.Has(c) {
		return fmt.Errorf("trick %d %s %s played %s, legal %s: %w",
			r.trickNumber(), s, h, c, legal, apperrors.ErrIllegalMove)
	}

	if _, err := hand.Play(c); err != nil {
		return err
	}
	if err := r.trick.AddCard(c); err != nil {
		return err
	}
	if _, err := r.players[s.Opponent()].OpponentCards.Play(c); err != nil {
		return fmt.Errorf("trick %d %s %s: %w", r.trickNumber(), s, h, err)
	}
	r.moves = append(r.moves, Move{Phase: PhaseTrick, Seat: s, Hand: h, Trick: r.trickNumber(), Card: c})

	if r.trick.IsComplete() {
		r.finishTrick()
	}
	return nil
}

// finishTrick credits the winner, shows the trick to observers and opens the next one.
func (r *Round) finishTrick() {
	s, h := turn(r.trick.WinningIndex())
	winner := r.players[s]
	opp := r.players[s.Opponent()]
	if h == Forehand {
		winner.ForehandWins++
		opp.OpponentForehandWins++
	} else {
		winner.BackhandWins++
		opp.OpponentBackhandWins++
	}
	r.logger.Printf("round %s: trick %d %s", r.id, r.trickNumber(), r.trick)

	for i, st := range r.strategies {
		if o, ok := st.(Observer); ok {
			o.ObserveTrick(r.View(Seat(i)), r.trick.Clone())
		}
	}

	r.tricks = append(r.tricks, r.trick)
	r.trick = rule.NewTrick(r.trump)
	if len(r.tricks) == TricksPerRound {
		r.phase = PhaseScore
	}
}

// score 结算: bid errors per hand and the round winner.
func (r *Round) score() {
	leader := newSeatReport(r.players[Leader])
	dealer := newSeatReport(r.players[Dealer])
	r.report = &Report{
		ID:     r.id,
		Trump:  r.trump,
		Leader: leader,
		Dealer: dealer,
		Winner: rule.RoundWinner(leader.TotalError, dealer.TotalError),
		Moves:  r.Moves(),
	}
	r.logger.Printf("round %s: leader error %d, dealer error %d, winner %s",
		r.id, leader.TotalError, dealer.TotalError, r.report.Winner)
}
