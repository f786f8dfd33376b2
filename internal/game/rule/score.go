package rule

// Outcome 一局的胜负. Lower total bid-error wins.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeFirst
	OutcomeSecond
)

var outcomeNames = map[Outcome]string{
	OutcomeTie:    "tie",
	OutcomeFirst:  "first",
	OutcomeSecond: "second",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Swap mirrors the outcome for the players in reverse order.
func (o Outcome) Swap() Outcome {
	switch o {
	case OutcomeFirst:
		return OutcomeSecond
	case OutcomeSecond:
		return OutcomeFirst
	default:
		return OutcomeTie
	}
}

// MaxTotalError bounds a player's total error: 12 tricks can miss two bids by at most 24.
const MaxTotalError = 24

// BidError is the distance between a bid value and the tricks actually won.
func BidError(bid, wins int) int {
	if bid > wins {
		return bid - wins
	}
	return wins - bid
}

// HandScore is the bid and result of one hand (forehand or backhand).
type HandScore struct {
	Bid  int
	Wins int
}

// Miss is the bid-error of the hand.
func (h HandScore) Miss() int { return BidError(h.Bid, h.Wins) }

// Errors returns the forehand, backhand and total error for one player.
func Errors(forehand, backhand HandScore) (foreErr, backErr, total int) {
	foreErr = forehand.Miss()
	backErr = backhand.Miss()
	return foreErr, backErr, foreErr + backErr
}

// RoundWinner compares two total errors; equal totals are a tie.
func RoundWinner(first, second int) Outcome {
	switch {
	case first < second:
		return OutcomeFirst
	case second < first:
		return OutcomeSecond
	default:
		return OutcomeTie
	}
}
