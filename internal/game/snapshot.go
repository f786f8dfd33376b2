package game

import (
	"fmt"
	"io"

	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// SeatSnapshot is the public dump of one seat for renderers.
type SeatSnapshot struct {
	Name         string
	Forehand     card.Deck
	Backhand     card.Deck
	ForehandBid  *Bid
	BackhandBid  *Bid
	ForehandWins int
	BackhandWins int
	// TotalError is only meaningful once both bids are placed (HasError).
	TotalError int
	HasError   bool
}

// Snapshot 局面快照: everything a renderer shows. Taking one never changes the round.
type Snapshot struct {
	Phase       Phase
	Trump       card.Suit
	TrickNumber int
	Seats       [2]SeatSnapshot
	Trick       card.Deck
	// Winning is the index of the card taking the live trick, -1 when it is empty.
	Winning int
	// LastTrick is the most recently completed trick, nil before the first one.
	LastTrick card.Deck
}

// Snapshot captures the current state of the round.
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:       r.phase,
		Trump:       r.trump,
		TrickNumber: r.trickNumber(),
		Trick:       r.trick.Cards(),
		Winning:     r.trick.WinningIndex(),
	}
	if n := len(r.tricks); n > 0 {
		snap.LastTrick = r.tricks[n-1].Cards()
	}
	for i, p := range r.players {
		s := SeatSnapshot{
			Name:         p.Name,
			Forehand:     p.Forehand.Clone(),
			Backhand:     p.Backhand.Clone(),
			ForehandBid:  p.ForehandBid.clone(),
			BackhandBid:  p.BackhandBid.clone(),
			ForehandWins: p.ForehandWins,
			BackhandWins: p.BackhandWins,
		}
		if p.ForehandBid != nil && p.BackhandBid != nil {
			_, _, s.TotalError = rule.Errors(
				rule.HandScore{Bid: p.ForehandBid.Value, Wins: p.ForehandWins},
				rule.HandScore{Bid: p.BackhandBid.Value, Wins: p.BackhandWins},
			)
			s.HasError = true
		}
		snap.Seats[i] = s
	}
	return snap
}

func bidString(b *Bid) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%s(%d)", b.Card, b.Value)
}

// Render writes a plain text dump of the snapshot.
func (s Snapshot) Render(w io.Writer) error {
	trick := rule.NewTrick(s.Trump)
	for _, c := range s.Trick {
		if err := trick.AddCard(c); err != nil {
			return err
		}
	}

	lines := []string{
		fmt.Sprintf("Trump suit: %s    Phase: %s    Trick: %d/%d", s.Trump, s.Phase, s.TrickNumber, TricksPerRound),
	}
	for i, seat := range s.Seats {
		role := Seat(i)
		lines = append(lines,
			fmt.Sprintf("%s (%s) forehand: %s", role, seat.Name, seat.Forehand),
			fmt.Sprintf("%s (%s) backhand: %s", role, seat.Name, seat.Backhand),
		)
	}
	for i, seat := range s.Seats {
		line := fmt.Sprintf("%s bids: [%s, %s] wins: [%d, %d]",
			Seat(i), bidString(seat.ForehandBid), bidString(seat.BackhandBid), seat.ForehandWins, seat.BackhandWins)
		if seat.HasError {
			line += fmt.Sprintf(" error: %d", seat.TotalError)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "Current trick: "+trick.String())

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the current state of the round to w.
func (r *Round) Render(w io.Writer) error {
	return r.Snapshot().Render(w)
}
