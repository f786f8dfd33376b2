package api

import "github.com/palemoky/tennis/internal/game"

type seatView struct {
	Name            string `json:"name"`
	ForehandBidCard string `json:"forehand_bid_card"`
	BackhandBidCard string `json:"backhand_bid_card"`
	ForehandBid     int    `json:"forehand_bid"`
	BackhandBid     int    `json:"backhand_bid"`
	ForehandWins    int    `json:"forehand_wins"`
	BackhandWins    int    `json:"backhand_wins"`
	TotalError      int    `json:"total_error"`
}

// roundView 回合摘要
type roundView struct {
	ID     string   `json:"id"`
	Trump  string   `json:"trump"`
	Leader seatView `json:"leader"`
	Dealer seatView `json:"dealer"`
	Winner string   `json:"winner"`
}

func newSeatView(s game.SeatReport) seatView {
	return seatView{
		Name:            s.Name,
		ForehandBidCard: s.ForehandBidCard.String(),
		BackhandBidCard: s.BackhandBidCard.String(),
		ForehandBid:     s.ForehandBid,
		BackhandBid:     s.BackhandBid,
		ForehandWins:    s.ForehandWins,
		BackhandWins:    s.BackhandWins,
		TotalError:      s.TotalError,
	}
}

func newRoundView(r *game.Report) roundView {
	v := roundView{
		ID:     r.ID,
		Trump:  r.Trump.String(),
		Leader: newSeatView(r.Leader),
		Dealer: newSeatView(r.Dealer),
		Winner: "tie",
	}
	if s, ok := r.WinnerSeat(); ok {
		v.Winner = s.String()
	}
	return v
}
