// internal/circulation/domain.go
package circulation

import (
	"errors"
	"time"

	"librastock/internal/reservation"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrBookNotFound = errors.New("book not found")
	ErrUserInactive = errors.New("user is not active")
	ErrLoanLimit    = errors.New("user reached the loan limit")
	ErrNoStock      = errors.New("no stock available")
	ErrNotBorrowed  = errors.New("user has no loan record for this book")
	ErrNoOpenLoans  = errors.New("user has no open loans")
)

// Loan is an open checkout handed back from Borrow.
type Loan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ISBN       string    `json:"isbn"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueAt      time.Time `json:"due_at"`
}

// Fulfillment outcomes, in the order the protocol decides them.
const (
	OutcomeBookNotFound  = "book_not_found"
	OutcomeNoReservation = "no_reservation"
	OutcomeAutoLoan      = "auto_loan"
	OutcomeRestocked     = "restocked"
)

// FulfillmentResult is the trace of one run of the return-fulfillment
// protocol: whether the book exists, whether anyone was waiting, and where
// the freed copy went.
type FulfillmentResult struct {
	ISBN           string                   `json:"isbn"`
	BookFound      bool                     `json:"book_found"`
	Position       int                      `json:"position"`
	HasReservation bool                     `json:"has_reservation"`
	Outcome        string                   `json:"outcome"`
	AssignedUserID string                   `json:"assigned_user_id,omitempty"`
	Reservation    *reservation.Reservation `json:"reservation,omitempty"`
}

// ReturnResult pairs the completed return with what fulfillment did with
// the freed copy.
type ReturnResult struct {
	UserID      string            `json:"user_id"`
	ISBN        string            `json:"isbn"`
	ReturnedAt  time.Time         `json:"returned_at"`
	Fulfillment FulfillmentResult `json:"fulfillment"`
}
