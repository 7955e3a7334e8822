package table

import "errors"

// Rejection reasons for player actions. All are non-fatal: the action
// is refused and table state is left untouched.
var (
	// ErrUnassigned means the request carried no resolved seat id
	ErrUnassigned = errors.New("seat not assigned yet")

	// ErrInvalidAction means the action is not fold, check, call or raise
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidSeat means the seat id is out of range for the table
	ErrInvalidSeat = errors.New("invalid seat")

	// ErrNotYourTurn means another seat is due to act
	ErrNotYourTurn = errors.New("not your turn")

	// ErrSeatInactive means the seat is not dealt into the hand
	ErrSeatInactive = errors.New("seat not active")

	// ErrMustCallOrFold means a check was attempted while facing a bet
	ErrMustCallOrFold = errors.New("cannot check, must call or fold")

	// ErrInsufficientChips means the seat cannot cover the call or raise
	ErrInsufficientChips = errors.New("insufficient chips")

	// ErrRaiseTooSmall means the raise amount is below the minimum
	ErrRaiseTooSmall = errors.New("raise below minimum")

	// ErrNoSeats means a join was attempted on a full table
	ErrNoSeats = errors.New("no available seats")
)
