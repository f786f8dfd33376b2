package game

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

func seatState(name, fore, back string, foreWins, backWins int) *PlayerState {
	return &PlayerState{
		Name:         name,
		ForehandBid:  newBid(card.MustParse(fore)),
		BackhandBid:  newBid(card.MustParse(back)),
		ForehandWins: foreWins,
		BackhandWins: backWins,
	}
}

// scoreSeats scores a finished round with the given players seated.
func scoreSeats(leader, dealer *PlayerState) *Report {
	r := &Round{
		id:      "r1",
		trump:   card.Heart,
		players: [2]*PlayerState{Leader: leader, Dealer: dealer},
		logger:  log.New(io.Discard, "", 0),
	}
	r.score()
	return r.report
}

func TestRound_ScoreIsSymmetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   *PlayerState
		winner rule.Outcome
		errA   int
		errB   int
	}{
		{
			name:   "a exact",
			a:      seatState("a", "3C", "5D", 3, 5),
			b:      seatState("b", "2H", "4S", 1, 3),
			winner: rule.OutcomeFirst,
			errA:   0,
			errB:   2,
		},
		{
			name:   "b closer",
			a:      seatState("a", "KC", "AD", 4, 4),
			b:      seatState("b", "2H", "4S", 2, 2),
			winner: rule.OutcomeSecond,
			errA:   7,
			errB:   2,
		},
		{
			name:   "equal errors",
			a:      seatState("a", "3C", "5D", 2, 5),
			b:      seatState("b", "2H", "4S", 1, 4),
			winner: rule.OutcomeTie,
			errA:   1,
			errB:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := scoreSeats(tt.a, tt.b)
			swapped := scoreSeats(tt.b, tt.a)

			assert.Equal(t, tt.winner, rep.Winner)
			assert.Equal(t, tt.errA, rep.Leader.TotalError)
			assert.Equal(t, tt.errB, rep.Dealer.TotalError)

			// 换座: the results follow the players, the winner flips seats
			assert.Equal(t, rep.Leader, swapped.Dealer)
			assert.Equal(t, rep.Dealer, swapped.Leader)
			assert.Equal(t, rep.Winner.Swap(), swapped.Winner)

			s, ok := rep.WinnerSeat()
			ss, sok := swapped.WinnerSeat()
			assert.Equal(t, ok, sok)
			if ok {
				assert.Equal(t, rep.Seat(s).Name, swapped.Seat(ss).Name)
				assert.NotEqual(t, s, ss)
			}
		})
	}
}
