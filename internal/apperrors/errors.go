package apperrors

// Error codes for engine failures. None of them are recoverable within a round.
const (
	CodeInsufficientCards = 1001
	CodeCardNotFound      = 1002
	CodeIllegalMove       = 1003
	CodeTrickComplete     = 1004
	CodeWrongPhase        = 1005
	CodeRoundOver         = 1006
	CodeUnknownStrategy   = 1007
)

// GameError is a coded engine error shared by the card, rule and game packages.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is matches any GameError carrying the same code, so wrapped copies still satisfy errors.Is.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 预定义错误
var (
	ErrInsufficientCards = &GameError{Code: CodeInsufficientCards, Message: "not enough cards in the deck"}
	ErrCardNotFound      = &GameError{Code: CodeCardNotFound, Message: "card not found in the deck"}
	ErrIllegalMove       = &GameError{Code: CodeIllegalMove, Message: "illegal move"}
	ErrTrickComplete     = &GameError{Code: CodeTrickComplete, Message: "trick already complete"}
	ErrWrongPhase        = &GameError{Code: CodeWrongPhase, Message: "action not allowed in this phase"}
	ErrRoundOver         = &GameError{Code: CodeRoundOver, Message: "round is over"}
	ErrUnknownStrategy   = &GameError{Code: CodeUnknownStrategy, Message: "unknown strategy"}
)
