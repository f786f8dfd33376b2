package game

import (
	"bytes"
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// firstLegal bids the first card of each hand and always plays the first legal card.
type firstLegal struct {
	name     string
	observed int
}

func (s *firstLegal) Name() string { return s.name }

func (s *firstLegal) BackhandBid(v View) (card.Card, error) { return v.Backhand()[0], nil }

func (s *firstLegal) ForehandBid(v View, _ RevealedInfo) (card.Card, error) {
	return v.Forehand()[0], nil
}

func (s *firstLegal) PlayForehand(v View, t *rule.Trick) (card.Card, error) {
	return t.LegalMoves(v.Forehand())[0], nil
}

func (s *firstLegal) PlayBackhand(v View, t *rule.Trick) (card.Card, error) {
	return t.LegalMoves(v.Backhand())[0], nil
}

func (s *firstLegal) ObserveTrick(_ View, t *rule.Trick) {
	if t.IsComplete() {
		s.observed++
	}
}

// randomLegal picks uniformly among the legal cards.
type randomLegal struct {
	rng *rand.Rand
}

func (s *randomLegal) Name() string { return "random" }

func (s *randomLegal) pick(d card.Deck) card.Card { return d[s.rng.IntN(len(d))] }

func (s *randomLegal) BackhandBid(v View) (card.Card, error) { return s.pick(v.Backhand()), nil }

func (s *randomLegal) ForehandBid(v View, _ RevealedInfo) (card.Card, error) {
	return s.pick(v.Forehand()), nil
}

func (s *randomLegal) PlayForehand(v View, t *rule.Trick) (card.Card, error) {
	return s.pick(t.LegalMoves(v.Forehand())), nil
}

func (s *randomLegal) PlayBackhand(v View, t *rule.Trick) (card.Card, error) {
	return s.pick(t.LegalMoves(v.Backhand())), nil
}

// firstCard ignores the lead suit and always plays the first card of the hand.
type firstCard struct{ firstLegal }

func (s *firstCard) PlayForehand(v View, _ *rule.Trick) (card.Card, error) {
	return v.Forehand()[0], nil
}

// fixedBid always bids the same card, whether it is in hand or not.
type fixedBid struct {
	firstLegal
	bid card.Card
}

func (s *fixedBid) BackhandBid(View) (card.Card, error) { return s.bid, nil }

func randomFactory(rng *rand.Rand) Strategy { return &randomLegal{rng: rng} }

// deckFromHands orders a preset deck so that dealing yields the given hands in order.
func deckFromHands(leaderBack, dealerBack, leaderFore, dealerFore string) card.Deck {
	var deck card.Deck
	for _, h := range []string{dealerFore, leaderFore, dealerBack, leaderBack} {
		cards := card.MustParseAll(h)
		slices.Reverse(cards)
		deck.Add(cards...)
	}
	return deck
}

// allCards collects every card the round currently holds, wherever it is.
func allCards(r *Round) card.Deck {
	var all card.Deck
	all.Add(r.deck...)
	for _, p := range r.players {
		all.Add(p.Forehand...)
		all.Add(p.Backhand...)
		if p.ForehandBid != nil {
			all.Add(p.ForehandBid.Card)
		}
		if p.BackhandBid != nil {
			all.Add(p.BackhandBid.Card)
		}
	}
	for _, t := range r.tricks {
		all.Add(t.Cards()...)
	}
	all.Add(r.trick.Cards()...)
	return all
}

// expectedTracker rebuilds what seat s may still attribute to the opponent.
func expectedTracker(r *Round, s Seat) card.Deck {
	p := r.players[s]
	var known card.Deck
	known.Add(p.Forehand...)
	known.Add(p.Backhand...)
	for _, b := range []*Bid{p.ForehandBid, p.BackhandBid, p.OpponentForehandBid, p.OpponentBackhandBid} {
		if b != nil {
			known.Add(b.Card)
		}
	}
	for _, m := range r.moves {
		if m.Phase == PhaseTrick || m.Seat == s {
			known.Add(m.Card)
		}
	}
	var rest card.Deck
	for _, c := range card.NewDeck() {
		if !known.Has(c) {
			rest.Add(c)
		}
	}
	return rest
}

func TestRound_RandomEndToEnd(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(2024, 11))
	r, err := NewRound(RoundConfig{
		Leader: &randomLegal{rng: rng},
		Dealer: &randomLegal{rng: rng},
		Trump:  card.Heart,
		Rand:   rng,
	})
	require.NoError(t, err)

	report, err := r.Play(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, PhaseDone, r.Phase())
	assert.Equal(t, TricksPerRound, report.TotalWins())
	for _, s := range []Seat{Leader, Dealer} {
		sr := report.Seat(s)
		assert.GreaterOrEqual(t, sr.TotalError, 0)
		assert.LessOrEqual(t, sr.TotalError, rule.MaxTotalError)
		assert.Equal(t, sr.ForehandError+sr.BackhandError, sr.TotalError)
		assert.Equal(t, sr.ForehandBidCard.BidValue(), sr.ForehandBid)

		p := r.Player(s)
		assert.Empty(t, p.Forehand)
		assert.Empty(t, p.Backhand)
		assert.Empty(t, p.OpponentCards, "every opponent card is known by the end")
	}

	// 4 bids, then 12 tricks of 4 cards: 48 + 4 = 52 cards left the hands.
	assert.Len(t, report.Moves, 4+TricksPerRound*rule.TrickSize)
	assert.Empty(t, r.deck)
	assert.Equal(t, rule.RoundWinner(report.Leader.TotalError, report.Dealer.TotalError), report.Winner)
	assert.NotEmpty(t, report.ID)
}

func TestRound_CardsConservedAtEveryStep(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		r, err := NewRound(RoundConfig{
			Leader: &randomLegal{rng: rng},
			Dealer: &randomLegal{rng: rng},
			Trump:  card.Suit(int(seed%5) - 1),
			Rand:   rng,
		})
		require.NoError(t, err)

		for r.Phase() != PhaseDone {
			require.NoError(t, r.Step())
			require.ElementsMatch(t, card.NewDeck(), allCards(r), "phase %s", r.Phase())
			for _, s := range []Seat{Leader, Dealer} {
				require.ElementsMatch(t, expectedTracker(r, s), r.players[s].OpponentCards,
					"tracker of %s in phase %s", s, r.Phase())
			}
		}
	}
}

func TestRound_PhaseOrder(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 5))
	r, err := NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.NoTrump, Rand: rng})
	require.NoError(t, err)

	var phases []Phase
	for r.Phase() != PhaseDone {
		if len(phases) == 0 || phases[len(phases)-1] != r.Phase() {
			phases = append(phases, r.Phase())
		}
		require.NoError(t, r.Step())
	}
	assert.Equal(t, []Phase{
		PhaseDealBackhand,
		PhaseBidBackhandLeader,
		PhaseBidBackhandDealer,
		PhaseRevealBackhandBids,
		PhaseDealForehand,
		PhaseBidForehandLeader,
		PhaseBidForehandDealer,
		PhaseRevealForehandBids,
		PhaseTrick,
		PhaseScore,
	}, phases)

	assert.ErrorIs(t, r.Step(), apperrors.ErrRoundOver)
}

func TestRound_RevealIsSymmetric(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 9))
	r, err := NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.Club, Rand: rng})
	require.NoError(t, err)

	for r.Phase() != PhaseRevealBackhandBids {
		require.NoError(t, r.Step())
	}
	leader := r.Player(Leader)
	assert.Nil(t, leader.OpponentBackhandBid, "bids are hidden until both are placed")
	require.NoError(t, r.Step())

	leader = r.Player(Leader)
	dealer := r.Player(Dealer)
	assert.Equal(t, dealer.BackhandBid, leader.OpponentBackhandBid)
	assert.Equal(t, leader.BackhandBid, dealer.OpponentBackhandBid)
	assert.False(t, leader.OpponentCards.Has(dealer.BackhandBid.Card))
	assert.False(t, dealer.OpponentCards.Has(leader.BackhandBid.Card))
	// 52 - 13 own - 1 revealed bid
	assert.Len(t, leader.OpponentCards, 38)
}

func TestRound_PresetDeckScenario(t *testing.T) {
	t.Parallel()

	// An unshuffled deck deals one suit per hand: leader backhand diamonds, dealer backhand
	// hearts, leader forehand spades, dealer forehand clubs.
	tests := []struct {
		name          string
		trump         card.Suit
		leaderFore    int
		dealerBack    int
		leaderError   int
		dealerError   int
		wantWinner    rule.Outcome
		wantWinnerSet Seat
	}{
		{"no trump: leader forehand takes everything", card.NoTrump, 12, 0, 12, 2, rule.OutcomeSecond, Dealer},
		{"hearts trump: dealer backhand takes everything", card.Heart, 0, 12, 2, 12, rule.OutcomeFirst, Leader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			leader := &firstLegal{name: "L"}
			dealer := &firstLegal{name: "D"}
			r, err := NewRound(RoundConfig{Leader: leader, Dealer: dealer, Trump: tt.trump, Deck: card.NewDeck()})
			require.NoError(t, err)

			report, err := r.Play(context.Background())
			require.NoError(t, err)

			assert.Equal(t, card.MustParse("AD"), report.Leader.BackhandBidCard)
			assert.Equal(t, card.MustParse("AH"), report.Dealer.BackhandBidCard)
			assert.Equal(t, card.MustParse("AS"), report.Leader.ForehandBidCard)
			assert.Equal(t, card.MustParse("AC"), report.Dealer.ForehandBidCard)
			assert.Equal(t, 1, report.Leader.ForehandBid)

			assert.Equal(t, tt.leaderFore, report.Leader.ForehandWins)
			assert.Equal(t, tt.dealerBack, report.Dealer.BackhandWins)
			assert.Equal(t, tt.leaderError, report.Leader.TotalError)
			assert.Equal(t, tt.dealerError, report.Dealer.TotalError)
			assert.Equal(t, tt.wantWinner, report.Winner)
			seat, ok := report.WinnerSeat()
			assert.True(t, ok)
			assert.Equal(t, tt.wantWinnerSet, seat)
			assert.Equal(t, "L", report.Leader.Name)

			assert.Equal(t, TricksPerRound, leader.observed)
			assert.Equal(t, TricksPerRound, dealer.observed)

			// Scoring is symmetric: swapping the players mirrors the winner.
			assert.Equal(t, report.Winner.Swap(), rule.RoundWinner(report.Dealer.TotalError, report.Leader.TotalError))
		})
	}
}

func TestRound_IllegalPlayIsFatal(t *testing.T) {
	t.Parallel()

	deck := deckFromHands(
		"AD KD QD JD 10D 9D 8D 7D 6D 5D 4D 3D 2D",
		"AH KH QH JH 10H 9H 8H 7H 6H 5H 4H 3H 2H",
		"AS KS QS JS 10S 9S 8S 7S 6S 5S 4S 3S AC",
		"KC QC JC 10C 9C 8C 7C 6C 5C 4C 3C 2C 2S",
	)
	r, err := NewRound(RoundConfig{
		Leader: &firstLegal{name: "L"},
		Dealer: &firstCard{firstLegal{name: "D"}},
		Trump:  card.NoTrump,
		Deck:   deck,
	})
	require.NoError(t, err)

	_, err = r.Play(context.Background())
	require.ErrorIs(t, err, apperrors.ErrIllegalMove)
	assert.Contains(t, err.Error(), "trick 1 dealer forehand played QC")
	// Nothing was applied for the rejected card.
	assert.Equal(t, 1, r.trick.Len())
	assert.True(t, r.players[Dealer].Forehand.Has(card.MustParse("QC")))
}

func TestRound_FollowingSuitIsEnforcedOnlyWhenPossible(t *testing.T) {
	t.Parallel()

	deck := deckFromHands(
		"AD KD QD JD 10D 9D 8D 7D 6D 5D 4D 3D 2D",
		"AH KH QH JH 10H 9H 8H 7H 6H 5H 4H 3H 2H",
		"AS KS QS JS 10S 9S 8S 7S 6S 5S 4S 3S AC",
		"KC QC JC 10C 9C 8C 7C 6C 5C 4C 3C 2C 2S",
	)
	r, err := NewRound(RoundConfig{Leader: &firstLegal{name: "L"}, Dealer: &firstLegal{name: "D"}, Trump: card.NoTrump, Deck: deck})
	require.NoError(t, err)

	report, err := r.Play(context.Background())
	require.NoError(t, err)
	moves := report.Moves
	// moves[0..3] are bids; the first trick follows.
	assert.Equal(t, card.MustParse("KS"), moves[4].Card)
	assert.Equal(t, card.MustParse("2S"), moves[5].Card, "dealer must follow spades")
	assert.Equal(t, TricksPerRound, report.TotalWins())
}

func TestRound_ToActAndLegalMoves(t *testing.T) {
	t.Parallel()

	deck := deckFromHands(
		"AD KD QD JD 10D 9D 8D 7D 6D 5D 4D 3D 2D",
		"AH KH QH JH 10H 9H 8H 7H 6H 5H 4H 3H 2H",
		"AS KS QS JS 10S 9S 8S 7S 6S 5S 4S 3S AC",
		"KC QC JC 10C 9C 8C 7C 6C 5C 4C 3C 2C 2S",
	)
	r, err := NewRound(RoundConfig{Leader: &firstLegal{}, Dealer: &firstLegal{}, Trump: card.NoTrump, Deck: deck})
	require.NoError(t, err)

	_, _, ok := r.ToAct()
	assert.False(t, ok, "dealing needs no decision")
	assert.Nil(t, r.LegalMoves())

	require.NoError(t, r.Step())
	s, h, ok := r.ToAct()
	require.True(t, ok)
	assert.Equal(t, Leader, s)
	assert.Equal(t, Backhand, h)
	assert.Len(t, r.LegalMoves(), HandSize)

	for r.Phase() != PhaseTrick {
		require.NoError(t, r.Step())
	}
	require.NoError(t, r.Step())

	s, h, ok = r.ToAct()
	require.True(t, ok)
	assert.Equal(t, Dealer, s)
	assert.Equal(t, Forehand, h)
	assert.Equal(t, card.MustParseAll("2S"), r.LegalMoves())
}

func TestRound_BidNotInHand(t *testing.T) {
	t.Parallel()

	r, err := NewRound(RoundConfig{
		Leader: &fixedBid{firstLegal: firstLegal{name: "L"}, bid: card.MustParse("2C")},
		Dealer: &firstLegal{name: "D"},
		Trump:  card.NoTrump,
		Deck:   card.NewDeck(),
	})
	require.NoError(t, err)

	_, err = r.Play(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrIllegalMove)
	assert.Equal(t, PhaseBidBackhandLeader, r.Phase())
}

func TestNewRound_Validation(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 1))
	_, err := NewRound(RoundConfig{Leader: randomFactory(rng), Trump: card.NoTrump, Rand: rng})
	assert.Error(t, err)

	_, err = NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.Suit(7), Rand: rng})
	assert.Error(t, err)

	_, err = NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.NoTrump})
	assert.Error(t, err)

	_, err = NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.NoTrump, Deck: card.MustParseAll("2C 3C")})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCards)
}

func TestRound_ContextCancelled(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 3))
	r, err := NewRound(RoundConfig{Leader: randomFactory(rng), Dealer: randomFactory(rng), Trump: card.NoTrump, Rand: rng})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Play(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseDealBackhand, r.Phase())
}

func TestRound_ViewIsReadOnly(t *testing.T) {
	t.Parallel()

	r, err := NewRound(RoundConfig{Leader: &firstLegal{}, Dealer: &firstLegal{}, Trump: card.NoTrump, Deck: card.NewDeck()})
	require.NoError(t, err)
	require.NoError(t, r.Step())

	v := r.View(Leader)
	hand := v.Backhand()
	hand[0] = card.MustParse("2C")
	assert.Equal(t, card.MustParse("AD"), r.players[Leader].Backhand[0])
	assert.Equal(t, 0, v.TrickNumber())
	assert.Nil(t, v.BackhandBid())
	assert.Len(t, v.OpponentCards(), 39)
}

func TestRound_SnapshotAndRender(t *testing.T) {
	t.Parallel()

	r, err := NewRound(RoundConfig{Leader: &firstLegal{name: "L"}, Dealer: &firstLegal{name: "D"}, Trump: card.Spade, Deck: card.NewDeck()})
	require.NoError(t, err)
	for r.Phase() != PhaseTrick {
		require.NoError(t, r.Step())
	}
	require.NoError(t, r.Step())

	snap := r.Snapshot()
	assert.Equal(t, PhaseTrick, snap.Phase)
	assert.Equal(t, 1, snap.TrickNumber)
	assert.Equal(t, card.MustParseAll("KS"), snap.Trick)
	assert.Equal(t, 0, snap.Winning)
	assert.True(t, snap.Seats[Leader].HasError)
	assert.Equal(t, 2, snap.Seats[Leader].TotalError)
	assert.Nil(t, snap.LastTrick)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Trump suit: S")
	assert.Contains(t, out, "leader bids: [AS(1), AD(1)]")
	assert.Contains(t, out, "Current trick: [S] KS -> KS")
}

func TestPlayMatch(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(77, 77))
	named := func(name string) Factory {
		return func(*rand.Rand) Strategy { return &firstLegal{name: name} }
	}
	m, err := PlayMatch(context.Background(), MatchConfig{A: named("A"), B: named("B"), Trump: card.NoTrump, Rand: rng})
	require.NoError(t, err)

	assert.Equal(t, "A", m.Rounds[0].Leader.Name)
	assert.Equal(t, "B", m.Rounds[1].Leader.Name)
	assert.Equal(t, "A", m.Result(0, 1).Name)
	assert.Equal(t, Dealer, SeatOf(0, 1))

	a, b, ties := m.Tally()
	assert.Equal(t, 2, a+b+ties)
	assert.Equal(t, m.Rounds[1].Winner.Swap(), m.Outcome(1))
}
