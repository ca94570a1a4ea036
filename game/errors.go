package game

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrBadSeatCount means the game was configured for an unplayable table size
	ErrBadSeatCount = &GameError{"BADSEATCOUNT", "must have 1 to 4 seats"}
	// ErrBadControllers means the controller list doesn't match the seats
	ErrBadControllers = &GameError{"BADCONTROLLERS", "need one controller per seat"}
	// ErrAlreadyStarted is only when calling Run() too much
	ErrAlreadyStarted = &GameError{"ALREADYSTARTED", "game has already started"}
	// ErrNotStarted means the game has not started
	ErrNotStarted = &GameError{"NOTSTARTED", "game has not started"}

	// ErrNotInHand means a card was taken from a hand that doesn't hold it
	ErrNotInHand = &GameError{"NOTINHAND", "card is not in hand"}
	// ErrNoEligibleSeat means an exchange predicate matched nobody
	ErrNoEligibleSeat = &GameError{"NOELIGIBLESEAT", "no seat is eligible for the exchange"}
	// ErrUnknownCharacter means a configured character is not in the catalog
	ErrUnknownCharacter = &GameError{"UNKNOWNCHARACTER", "unknown character"}
	// ErrUnknownRider means a configured rider is not in the catalog
	ErrUnknownRider = &GameError{"UNKNOWNRIDER", "unknown rider"}
	// ErrLostCardTaken means the lost card has already been picked up
	ErrLostCardTaken = &GameError{"LOSTCARDTAKEN", "the lost card is already held"}
)
