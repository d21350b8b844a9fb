// internal/reservation/implementation.go
package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"librastock/internal/inventory"
	"librastock/internal/membership"
)

// QueueFile is the collection name the queue persists under.
const QueueFile = "reservations"

// LoanPeriod is the standard checkout length used for wait estimates.
const LoanPeriod = 14 * 24 * time.Hour

// Store is the persistence collaborator.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// service implements the Service interface. It holds direct references to
// the inventory and registry state so the existence gates and the enqueue
// run under one critical section.
type service struct {
	mu    *sync.Mutex
	queue *Queue
	inv   *inventory.Inventory
	reg   *membership.Registry
	store Store
}

// NewService creates a new reservation service instance over the shared
// queue state.
func NewService(mu *sync.Mutex, queue *Queue, inv *inventory.Inventory, reg *membership.Registry, store Store) Service {
	return &service{mu: mu, queue: queue, inv: inv, reg: reg, store: store}
}

// Load replaces the in-memory queue from the persisted state.
func (s *service) Load(ctx context.Context) error {
	loaded := NewQueue(0)
	if err := s.store.Load(ctx, QueueFile, loaded); err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	*s.queue = *loaded
	return nil
}

// Reserve places a user at the tail of the waiting list. Reservations are
// only taken for exhausted books; a book with stock on the shelf is
// borrowed, not reserved.
func (s *service) Reserve(ctx context.Context, userID, isbn string) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(userID) {
		return nil, fmt.Errorf("reserve for %s: %w", userID, ErrUserNotFound)
	}
	book := s.inv.ByISBN(isbn)
	if book == nil {
		return nil, fmt.Errorf("reserve %s: %w", isbn, ErrBookNotFound)
	}
	if book.Available() {
		return nil, fmt.Errorf("reserve %s: %w", isbn, ErrStockAvailable)
	}
	if s.queue.Has(userID, book.ISBN) {
		return nil, fmt.Errorf("reserve %s: %w", isbn, ErrDuplicate)
	}

	ok, err := s.queue.Enqueue(userID, book.ISBN, time.Now())
	if err != nil {
		return nil, fmt.Errorf("reserve %s: %w", isbn, err)
	}
	if !ok {
		return nil, ErrQueueFull
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}

	rec := s.queue.All()[s.queue.Len()-1]
	return &rec, nil
}

// Cancel removes a waiting reservation.
func (s *service) Cancel(ctx context.Context, userID, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queue.Remove(userID, isbn) {
		return ErrNotInQueue
	}
	return s.save(ctx)
}

// ClearForBook drops every reservation for the book, typically after the
// book is removed from the catalog. The book is deliberately not required
// to still exist. Returns how many reservations were dropped.
func (s *service) ClearForBook(ctx context.Context, isbn string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := s.queue.RemoveAllForISBN(isbn)
	if dropped == 0 {
		return 0, nil
	}
	if err := s.save(ctx); err != nil {
		return dropped, err
	}
	return dropped, nil
}

// Position reports the global 1-based position plus how many users wait for
// the same book ahead of this one. The wait estimate assumes one standard
// loan period per user ahead, plus one for the copy out now.
func (s *service) Position(ctx context.Context, userID, isbn string) (*PositionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.queue.Position(userID, isbn)
	if pos == NotFound {
		return nil, ErrNotInQueue
	}

	ahead := 0
	for _, r := range s.queue.All()[:pos-1] {
		if r.ISBN == isbn {
			ahead++
		}
	}
	return &PositionInfo{
		Position:      pos,
		AheadSameBook: ahead,
		EstimatedWait: time.Duration(ahead+1) * LoanPeriod,
	}, nil
}

// NextForBook returns the reservation that would be served when a copy of
// the book comes back, without consuming it.
func (s *service) NextForBook(ctx context.Context, isbn string) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.queue.PeekNextForISBN(isbn)
	if r == nil {
		return nil, ErrNotInQueue
	}
	return r, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(userID) {
		return nil, ErrUserNotFound
	}
	return s.queue.ForUser(userID), nil
}

func (s *service) ListForBook(ctx context.Context, isbn string) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inv.ByISBN(isbn) == nil {
		return nil, ErrBookNotFound
	}
	return s.queue.ForISBN(isbn), nil
}

func (s *service) ListAll(ctx context.Context) []Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.All()
}

// Rankings returns the most-waited-for books, busiest first. Ties keep
// first-seen queue order.
func (s *service) Rankings(ctx context.Context, limit int) []RankingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	var order []string
	for _, r := range s.queue.All() {
		if _, seen := counts[r.ISBN]; !seen {
			order = append(order, r.ISBN)
		}
		counts[r.ISBN]++
	}

	entries := make([]RankingEntry, 0, len(order))
	for _, isbn := range order {
		entries = append(entries, RankingEntry{ISBN: isbn, Waiting: counts[isbn]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Waiting > entries[j].Waiting
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *service) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	books := make(map[string]struct{})
	users := make(map[string]struct{})
	for _, r := range s.queue.All() {
		st.TotalWaiting++
		books[r.ISBN] = struct{}{}
		users[r.UserID] = struct{}{}
		if st.OldestWaiting == nil || r.Timestamp.Before(*st.OldestWaiting) {
			ts := r.Timestamp
			st.OldestWaiting = &ts
		}
	}
	st.DistinctBooks = len(books)
	st.DistinctUsers = len(users)
	if c := s.queue.Capacity(); c > 0 {
		st.Capacity = &c
	}
	return st
}

// save persists the queue. Callers hold the mutex.
func (s *service) save(ctx context.Context) error {
	if err := s.store.Save(ctx, QueueFile, s.queue); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	return nil
}
