package game

import (
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// SeatReport is the result of one seat in a finished round.
type SeatReport struct {
	Name string

	ForehandBidCard card.Card
	BackhandBidCard card.Card
	ForehandBid     int
	BackhandBid     int

	ForehandWins int
	BackhandWins int

	ForehandError int
	BackhandError int
	TotalError    int
}

func newSeatReport(p *PlayerState) SeatReport {
	fore := rule.HandScore{Bid: p.ForehandBid.Value, Wins: p.ForehandWins}
	back := rule.HandScore{Bid: p.BackhandBid.Value, Wins: p.BackhandWins}
	foreErr, backErr, total := rule.Errors(fore, back)
	return SeatReport{
		Name:            p.Name,
		ForehandBidCard: p.ForehandBid.Card,
		BackhandBidCard: p.BackhandBid.Card,
		ForehandBid:     fore.Bid,
		BackhandBid:     back.Bid,
		ForehandWins:    fore.Wins,
		BackhandWins:    back.Wins,
		ForehandError:   foreErr,
		BackhandError:   backErr,
		TotalError:      total,
	}
}

// Report 回合结果: bids, wins, errors and the winner of one round.
// Winner is rule.OutcomeFirst when the leader won and rule.OutcomeSecond for the dealer.
type Report struct {
	ID     string
	Trump  card.Suit
	Leader SeatReport
	Dealer SeatReport
	Winner rule.Outcome
	Moves  []Move
}

// Seat returns the result of seat s.
func (r *Report) Seat(s Seat) SeatReport {
	if s == Leader {
		return r.Leader
	}
	return r.Dealer
}

// WinnerSeat returns the winning seat; ok is false for a tie.
func (r *Report) WinnerSeat() (s Seat, ok bool) {
	switch r.Winner {
	case rule.OutcomeFirst:
		return Leader, true
	case rule.OutcomeSecond:
		return Dealer, true
	default:
		return Leader, false
	}
}

// TotalWins is the number of tricks credited across all four hands; 12 for a full round.
func (r *Report) TotalWins() int {
	return r.Leader.ForehandWins + r.Leader.BackhandWins + r.Dealer.ForehandWins + r.Dealer.BackhandWins
}
