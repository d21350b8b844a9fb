// internal/circulation/service.go
package circulation

import "context"

// RankingEntry counts completed loans per book.
type RankingEntry struct {
	ISBN  string `json:"isbn"`
	Loans int    `json:"loans"`
}

// Stats summarizes circulation activity.
type Stats struct {
	OpenLoans    int `json:"open_loans"`
	TotalLoans   int `json:"total_loans"`
	UsersOnFile  int `json:"users_on_file"`
	DistinctISBN int `json:"distinct_isbns"`
}

// Service defines the interface for the circulation service.
type Service interface {
	Load(ctx context.Context) error
	Borrow(ctx context.Context, userID, isbn string) (*Loan, error)
	Return(ctx context.Context, userID, isbn string) (*ReturnResult, error)
	Fulfill(ctx context.Context, isbn string) (*FulfillmentResult, error)
	HistoryForUser(ctx context.Context, userID string) ([]LoanRecord, error)
	LastLoan(ctx context.Context, userID string) (*LoanRecord, error)
	HasBorrowed(ctx context.Context, userID, isbn string) (bool, error)
	MostLoaned(ctx context.Context, limit int) []RankingEntry
	Stats(ctx context.Context) Stats
}
