// internal/reservation/service.go
package reservation

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrStockAvailable = errors.New("book has stock available, borrow it instead")
	ErrDuplicate      = errors.New("user already has a reservation for this book")
	ErrQueueFull      = errors.New("reservation queue is full")
	ErrNotInQueue     = errors.New("reservation not found in queue")
)

// PositionInfo reports where a reservation sits and a rough wait estimate
// based on the standard loan period.
type PositionInfo struct {
	Position      int           `json:"position"`
	AheadSameBook int           `json:"ahead_same_book"`
	EstimatedWait time.Duration `json:"estimated_wait"`
}

// RankingEntry counts waiting users per book.
type RankingEntry struct {
	ISBN    string `json:"isbn"`
	Waiting int    `json:"waiting"`
}

// Stats summarizes the shared queue.
type Stats struct {
	TotalWaiting  int        `json:"total_waiting"`
	DistinctBooks int        `json:"distinct_books"`
	DistinctUsers int        `json:"distinct_users"`
	Capacity      *int       `json:"capacity"`
	OldestWaiting *time.Time `json:"oldest_waiting,omitempty"`
}

// Service defines the interface for the reservation service.
type Service interface {
	Load(ctx context.Context) error
	Reserve(ctx context.Context, userID, isbn string) (*Reservation, error)
	Cancel(ctx context.Context, userID, isbn string) error
	ClearForBook(ctx context.Context, isbn string) (int, error)
	Position(ctx context.Context, userID, isbn string) (*PositionInfo, error)
	NextForBook(ctx context.Context, isbn string) (*Reservation, error)
	ListForUser(ctx context.Context, userID string) ([]Reservation, error)
	ListForBook(ctx context.Context, isbn string) ([]Reservation, error)
	ListAll(ctx context.Context) []Reservation
	Rankings(ctx context.Context, limit int) []RankingEntry
	Stats(ctx context.Context) Stats
}
