package ui

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
	"github.com/palemoky/tennis/internal/player"
)

func startRound(t *testing.T, human *TUIStrategy, seat game.Seat) {
	t.Helper()
	leader, dealer := game.Strategy(human), game.Strategy(player.NewPassive())
	if seat == game.Dealer {
		leader, dealer = dealer, leader
	}
	r, err := game.NewRound(game.RoundConfig{
		Leader: leader,
		Dealer: dealer,
		Trump:  card.Heart,
		Rand:   rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	go func() {
		rep, err := r.Play(context.Background())
		human.finish(rep, err)
	}()
}

func typeCard(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestModel_PlaysFullRound(t *testing.T) {
	t.Parallel()

	for _, seat := range []game.Seat{game.Leader, game.Dealer} {
		human := NewTUIStrategy("me")
		t.Cleanup(human.Quit)
		startRound(t, human, seat)

		var m tea.Model = newModel(human, seat)
		requests, tricks := 0, 0
		for !m.(model).finished {
			m, _ = m.Update(waitForEvent(human.events)())
			switch cur := m.(model); {
			case cur.pending != nil:
				requests++
				assert.Contains(t, cur.View(), "Your "+cur.pending.what)
				m = typeCard(m, cur.pending.legal[0].String())
			case cur.finished:
			default:
				tricks++
			}
		}

		final := m.(model)
		require.NoError(t, final.err)
		require.NotNil(t, final.report)
		assert.Equal(t, 2+game.TricksPerRound*2, requests, seat)
		assert.Equal(t, game.TricksPerRound, tricks, seat)
		assert.Equal(t, game.TricksPerRound, final.report.TotalWins())
		assert.Equal(t, "me", final.report.Seat(seat).Name)
		assert.Contains(t, final.View(), "Press any key")
		assert.LessOrEqual(t, len(final.log), maxLogLines)
	}
}

func TestModel_RejectsInput(t *testing.T) {
	t.Parallel()

	human := NewTUIStrategy("me")
	m := newModel(human, game.Leader)
	req := requestMsg{
		what:  "forehand card",
		hand:  game.Forehand,
		table: table{Forehand: card.MustParseAll("JC 10H QS"), Winning: -1},
		legal: card.MustParseAll("JC 10H"),
		reply: make(chan card.Card, 1),
	}

	var tm tea.Model
	tm, _ = m.Update(req)

	tm = typeCard(tm, "zz")
	assert.Contains(t, tm.(model).errMsg, "invalid card")

	tm = typeCard(tm, "qs")
	assert.Equal(t, "QS cannot be played now", tm.(model).errMsg)
	assert.Contains(t, tm.(model).View(), "QS cannot be played now")
	assert.Empty(t, req.reply)

	tm = typeCard(tm, "10h")
	assert.Equal(t, card.MustParse("10H"), <-req.reply)
	assert.Nil(t, tm.(model).pending)
	assert.Empty(t, tm.(model).errMsg)

	// nothing pending: enter is ignored
	typeCard(tm, "jc")
	assert.Empty(t, req.reply)
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	human := NewTUIStrategy("me")
	startRound(t, human, game.Leader)

	var m tea.Model = newModel(human, game.Leader)
	m, _ = m.Update(waitForEvent(human.events)())
	require.NotNil(t, m.(model).pending)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, m.(model).err, ErrQuit)

	select {
	case <-human.done:
	default:
		t.Fatal("quit did not release the round")
	}
}

func TestModel_DoneWaitsForKey(t *testing.T) {
	t.Parallel()

	m := newModel(NewTUIStrategy("me"), game.Dealer)
	rep := &game.Report{
		Leader: game.SeatReport{Name: "passive", TotalError: 4},
		Dealer: game.SeatReport{Name: "me", TotalError: 1},
		Winner: rule.OutcomeSecond,
	}
	tm, cmd := m.Update(doneMsg{report: rep})
	assert.Nil(t, cmd)
	assert.Contains(t, tm.(model).View(), "You win!  Your error 1, opponent's error 4.")

	_, cmd = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTUIStrategy_QuitUnblocksRound(t *testing.T) {
	t.Parallel()

	human := NewTUIStrategy("me")
	r, err := game.NewRound(game.RoundConfig{
		Leader: human,
		Dealer: player.NewPassive(),
		Trump:  card.NoTrump,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Play(context.Background())
		errCh <- err
	}()

	msg := <-human.events
	req, ok := msg.(requestMsg)
	require.True(t, ok)
	assert.Equal(t, "backhand bid", req.what)
	assert.Len(t, req.legal, game.HandSize)

	human.Quit()
	human.Quit()
	assert.ErrorIs(t, <-errCh, ErrQuit)
}

func TestTurnOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos  int
		seat game.Seat
		hand game.Hand
	}{
		{0, game.Leader, game.Forehand},
		{1, game.Dealer, game.Forehand},
		{2, game.Leader, game.Backhand},
		{3, game.Dealer, game.Backhand},
	}
	for _, tt := range tests {
		s, h := turnOf(tt.pos)
		assert.Equal(t, tt.seat, s)
		assert.Equal(t, tt.hand, h)
	}
}

func TestPlay_NeedsOpponent(t *testing.T) {
	t.Parallel()

	_, err := Play(context.Background(), PlayConfig{})
	assert.Error(t, err)
}
