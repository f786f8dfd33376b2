// Package codec encodes round reports in protobuf wire format.
package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/game/rule"
)

// Field numbers.
//
//	Report      1 id (string)  2 trump (varint, suit+1, 0 = no-trump)  3 leader (SeatReport)
//	            4 dealer (SeatReport)  5 winner (varint)  6 moves (repeated Move)
//	SeatReport  1 name  2 forehand bid card  3 backhand bid card  4 forehand bid  5 backhand bid
//	            6 forehand wins  7 backhand wins  8 forehand error  9 backhand error  10 total error
//	Move        1 phase  2 seat  3 hand  4 trick  5 card
//
// A card is the varint suit*16 + rank.
const (
	reportID     protowire.Number = 1
	reportTrump  protowire.Number = 2
	reportLeader protowire.Number = 3
	reportDealer protowire.Number = 4
	reportWinner protowire.Number = 5
	reportMoves  protowire.Number = 6
)

var ErrMalformed = errors.New("malformed report")

func encodeCard(c card.Card) uint64 { return uint64(c.Suit)*16 + uint64(c.Rank) }

func decodeCard(v uint64) (card.Card, error) {
	c := card.Card{Suit: card.Suit(v / 16), Rank: card.Rank(v % 16)}
	if !c.IsValid() {
		return card.Card{}, fmt.Errorf("card code %d: %w", v, ErrMalformed)
	}
	return c, nil
}

// EncodeReport 序列化回合结果
func EncodeReport(r *game.Report) []byte {
	var b []byte
	b = protowire.AppendTag(b, reportID, protowire.BytesType)
	b = protowire.AppendString(b, r.ID)
	b = protowire.AppendTag(b, reportTrump, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Trump+1))

	scratch := getScratch()
	defer putScratch(scratch)
	for _, f := range []struct {
		num  protowire.Number
		seat game.SeatReport
	}{{reportLeader, r.Leader}, {reportDealer, r.Dealer}} {
		*scratch = appendSeat((*scratch)[:0], f.seat)
		b = protowire.AppendTag(b, f.num, protowire.BytesType)
		b = protowire.AppendBytes(b, *scratch)
	}

	b = protowire.AppendTag(b, reportWinner, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Winner))
	for _, m := range r.Moves {
		*scratch = appendMove((*scratch)[:0], m)
		b = protowire.AppendTag(b, reportMoves, protowire.BytesType)
		b = protowire.AppendBytes(b, *scratch)
	}
	return b
}

func appendSeat(b []byte, s game.SeatReport) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	for i, v := range []uint64{
		encodeCard(s.ForehandBidCard),
		encodeCard(s.BackhandBidCard),
		uint64(s.ForehandBid),
		uint64(s.BackhandBid),
		uint64(s.ForehandWins),
		uint64(s.BackhandWins),
		uint64(s.ForehandError),
		uint64(s.BackhandError),
		uint64(s.TotalError),
	} {
		b = protowire.AppendTag(b, protowire.Number(i+2), protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}
	return b
}

func appendMove(b []byte, m game.Move) []byte {
	for i, v := range []uint64{uint64(m.Phase), uint64(m.Seat), uint64(m.Hand), uint64(m.Trick), encodeCard(m.Card)} {
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}
	return b
}

// fields walks the top-level fields of b. Unknown wire types are skipped.
func fields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("tag: %w: %w", protowire.ParseError(n), ErrMalformed)
		}
		b = b[n:]
		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w: %w", num, protowire.ParseError(n), ErrMalformed)
		}
		b = b[n:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("expected varint, got wire type %d: %w", typ, ErrMalformed)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("varint: %w: %w", protowire.ParseError(n), ErrMalformed)
	}
	return v, n, nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("expected bytes, got wire type %d: %w", typ, ErrMalformed)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("bytes: %w: %w", protowire.ParseError(n), ErrMalformed)
	}
	return v, n, nil
}

// DecodeReport 反序列化回合结果
func DecodeReport(b []byte) (*game.Report, error) {
	r := &game.Report{}
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case reportID:
			v, n, err := consumeBytes(typ, b)
			r.ID = string(v)
			return n, err
		case reportTrump:
			v, n, err := consumeVarint(typ, b)
			r.Trump = card.Suit(int(v) - 1)
			return n, err
		case reportLeader, reportDealer:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			s, err := decodeSeat(v)
			if num == reportLeader {
				r.Leader = s
			} else {
				r.Dealer = s
			}
			return n, err
		case reportWinner:
			v, n, err := consumeVarint(typ, b)
			r.Winner = rule.Outcome(v)
			return n, err
		case reportMoves:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			m, err := decodeMove(v)
			r.Moves = append(r.Moves, m)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	if r.Trump < card.NoTrump || r.Trump > card.Spade {
		return nil, fmt.Errorf("trump %d: %w", r.Trump, ErrMalformed)
	}
	return r, nil
}

func decodeSeat(b []byte) (game.SeatReport, error) {
	var s game.SeatReport
	ints := []*int{
		4: &s.ForehandBid, 5: &s.BackhandBid,
		6: &s.ForehandWins, 7: &s.BackhandWins,
		8: &s.ForehandError, 9: &s.BackhandError, 10: &s.TotalError,
	}
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1:
			v, n, err := consumeBytes(typ, b)
			s.Name = string(v)
			return n, err
		case num == 2 || num == 3:
			v, n, err := consumeVarint(typ, b)
			if err != nil {
				return 0, err
			}
			c, err := decodeCard(v)
			if num == 2 {
				s.ForehandBidCard = c
			} else {
				s.BackhandBidCard = c
			}
			return n, err
		case num >= 4 && int(num) < len(ints):
			v, n, err := consumeVarint(typ, b)
			*ints[num] = int(v)
			return n, err
		}
		return 0, nil
	})
	return s, err
}

func decodeMove(b []byte) (game.Move, error) {
	var m game.Move
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num < 1 || num > 5 {
			return 0, nil
		}
		v, n, err := consumeVarint(typ, b)
		if err != nil {
			return 0, err
		}
		switch num {
		case 1:
			m.Phase = game.Phase(v)
		case 2:
			m.Seat = game.Seat(v)
		case 3:
			m.Hand = game.Hand(v)
		case 4:
			m.Trick = int(v)
		case 5:
			m.Card, err = decodeCard(v)
		}
		return n, err
	})
	return m, err
}
