// internal/circulation/implementation.go
package circulation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"librastock/internal/inventory"
	"librastock/internal/membership"
	"librastock/internal/reservation"
)

// LoansFile is the collection name the loan history persists under.
const LoansFile = "loans"

// Store is the persistence collaborator.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// service implements the Service interface. Circulation touches all four
// state structures, so it holds them directly and runs every operation
// under the shared engine mutex; calling into the other services from here
// would re-enter the lock.
type service struct {
	mu    *sync.Mutex
	inv   *inventory.Inventory
	reg   *membership.Registry
	queue *reservation.Queue
	hist  *History
	store Store

	tracer       trace.Tracer
	loansTotal   metric.Int64Counter
	returnsTotal metric.Int64Counter
	fulfillments metric.Int64Counter
}

// NewService creates a new circulation service instance over the shared
// engine state.
func NewService(mu *sync.Mutex, inv *inventory.Inventory, reg *membership.Registry, queue *reservation.Queue, hist *History, store Store) Service {
	meter := otel.Meter("librastock/circulation")
	loans, _ := meter.Int64Counter("circulation.loans")
	returns, _ := meter.Int64Counter("circulation.returns")
	fulfills, _ := meter.Int64Counter("circulation.fulfillments")

	return &service{
		mu:           mu,
		inv:          inv,
		reg:          reg,
		queue:        queue,
		hist:         hist,
		store:        store,
		tracer:       otel.Tracer("librastock/circulation"),
		loansTotal:   loans,
		returnsTotal: returns,
		fulfillments: fulfills,
	}
}

// Load replaces the in-memory loan history from the persisted state.
func (s *service) Load(ctx context.Context) error {
	loaded := NewHistory(0)
	if err := s.store.Load(ctx, LoansFile, loaded); err != nil {
		return fmt.Errorf("load loans: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	*s.hist = *loaded
	return nil
}

// Borrow checks a copy out to the user: stock down one, open loans up one,
// and a record pushed onto the user's history.
func (s *service) Borrow(ctx context.Context, userID, isbn string) (*Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.reg.Get(userID)
	if user == nil {
		return nil, fmt.Errorf("borrow for %s: %w", userID, ErrUserNotFound)
	}
	if !user.Active {
		return nil, fmt.Errorf("borrow for %s: %w", userID, ErrUserInactive)
	}
	if !user.CanBorrow() {
		return nil, fmt.Errorf("borrow for %s: %w", userID, ErrLoanLimit)
	}
	book := s.inv.ByISBN(isbn)
	if book == nil {
		return nil, fmt.Errorf("borrow %s: %w", isbn, ErrBookNotFound)
	}
	if !book.DecrementStock() {
		return nil, fmt.Errorf("borrow %s: %w", isbn, ErrNoStock)
	}

	now := time.Now()
	rec := LoanRecord{LoanID: uuid.NewString(), ISBN: book.ISBN, Timestamp: now}
	ok, err := s.hist.ForUser(user.ID).Push(rec)
	if err != nil || !ok {
		book.IncrementStock()
		if err != nil {
			return nil, fmt.Errorf("borrow %s: %w", isbn, err)
		}
		return nil, fmt.Errorf("borrow %s: loan history is full", isbn)
	}
	user.ActiveLoans++

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.loansTotal.Add(ctx, 1)

	return &Loan{
		ID:         rec.LoanID,
		UserID:     user.ID,
		ISBN:       book.ISBN,
		BorrowedAt: now,
		DueAt:      now.Add(reservation.LoanPeriod),
	}, nil
}

// Return takes a copy back and immediately runs the fulfillment protocol
// on the freed stock, so a waiting reservation is served in the same
// critical section as the return.
func (s *service) Return(ctx context.Context, userID, isbn string) (*ReturnResult, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.return",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("book.isbn", isbn),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.reg.Get(userID)
	if user == nil {
		return nil, fmt.Errorf("return for %s: %w", userID, ErrUserNotFound)
	}
	book := s.inv.ByISBN(isbn)
	if book == nil {
		return nil, fmt.Errorf("return %s: %w", isbn, ErrBookNotFound)
	}
	st := s.hist.Known(user.ID)
	if st == nil || !st.Contains(book.ISBN) {
		return nil, fmt.Errorf("return %s: %w", isbn, ErrNotBorrowed)
	}
	if user.ActiveLoans <= 0 {
		return nil, fmt.Errorf("return %s: %w", isbn, ErrNoOpenLoans)
	}

	book.IncrementStock()
	user.ActiveLoans--

	result := s.fulfillLocked(ctx, book)
	span.SetAttributes(attribute.String("fulfillment.outcome", result.Outcome))

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.returnsTotal.Add(ctx, 1)
	s.fulfillments.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Outcome)))

	return &ReturnResult{
		UserID:      user.ID,
		ISBN:        book.ISBN,
		ReturnedAt:  time.Now(),
		Fulfillment: result,
	}, nil
}

// Fulfill runs the fulfillment protocol on a book without a return, for
// stock that arrives by other means. The book needs an available copy.
func (s *service) Fulfill(ctx context.Context, isbn string) (*FulfillmentResult, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.fulfill",
		trace.WithAttributes(attribute.String("book.isbn", isbn)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.inv.ByISBN(isbn)
	if book == nil {
		span.SetAttributes(attribute.String("fulfillment.outcome", OutcomeBookNotFound))
		return &FulfillmentResult{ISBN: isbn, Position: inventory.NotFound, Outcome: OutcomeBookNotFound}, nil
	}
	if !book.Available() {
		return nil, fmt.Errorf("fulfill %s: %w", isbn, ErrNoStock)
	}

	result := s.fulfillLocked(ctx, book)
	span.SetAttributes(attribute.String("fulfillment.outcome", result.Outcome))

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fulfillments.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Outcome)))
	return &result, nil
}

// fulfillLocked hands one available copy to the longest-waiting reservation
// for the book, if any. The reservation leaves the queue in the same step
// as the match, so no other caller can claim the record in between. A
// matched reservation is consumed even when its holder can no longer
// borrow; the copy goes back on the shelf instead of the holder keeping a
// dead claim at the head of the line. Callers hold the mutex and guarantee
// at least one copy in stock.
func (s *service) fulfillLocked(ctx context.Context, book *inventory.Book) FulfillmentResult {
	result := FulfillmentResult{
		ISBN:      book.ISBN,
		BookFound: true,
		Position:  inventory.BinarySearch(s.inv.Sorted(), book.ISBN),
	}

	rec := s.queue.DequeueMatching(book.ISBN)
	if rec == nil {
		result.Outcome = OutcomeNoReservation
		return result
	}
	result.HasReservation = true
	result.Reservation = rec

	// The copy is spoken for from this point.
	book.DecrementStock()

	user := s.reg.Get(rec.UserID)
	if user == nil || !user.CanBorrow() {
		book.IncrementStock()
		result.Outcome = OutcomeRestocked
		return result
	}

	loan := LoanRecord{LoanID: uuid.NewString(), ISBN: book.ISBN, Timestamp: time.Now()}
	if ok, err := s.hist.ForUser(user.ID).Push(loan); err != nil || !ok {
		book.IncrementStock()
		result.Outcome = OutcomeRestocked
		return result
	}
	user.ActiveLoans++
	result.Outcome = OutcomeAutoLoan
	result.AssignedUserID = user.ID
	s.loansTotal.Add(ctx, 1)
	return result
}

// HistoryForUser returns the user's loans most recent first.
func (s *service) HistoryForUser(ctx context.Context, userID string) ([]LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(userID) {
		return nil, ErrUserNotFound
	}
	st := s.hist.Known(userID)
	if st == nil {
		return []LoanRecord{}, nil
	}
	return st.All(), nil
}

// LastLoan returns the user's most recent loan record.
func (s *service) LastLoan(ctx context.Context, userID string) (*LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(userID) {
		return nil, ErrUserNotFound
	}
	st := s.hist.Known(userID)
	if st == nil || st.Len() == 0 {
		return nil, ErrNoOpenLoans
	}
	return st.Peek(), nil
}

// HasBorrowed reports whether the user's history contains the book.
func (s *service) HasBorrowed(ctx context.Context, userID, isbn string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(userID) {
		return false, ErrUserNotFound
	}
	st := s.hist.Known(userID)
	return st != nil && st.Contains(isbn), nil
}

// MostLoaned returns the most-borrowed books across all histories, busiest
// first. Ties sort by ISBN for a stable listing.
func (s *service) MostLoaned(ctx context.Context, limit int) []RankingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, id := range s.hist.Users() {
		for _, rec := range s.hist.Known(id).All() {
			counts[rec.ISBN]++
		}
	}

	entries := make([]RankingEntry, 0, len(counts))
	for isbn, n := range counts {
		entries = append(entries, RankingEntry{ISBN: isbn, Loans: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Loans != entries[j].Loans {
			return entries[i].Loans > entries[j].Loans
		}
		return entries[i].ISBN < entries[j].ISBN
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
	for _, u := range s.reg.All() {
		st.OpenLoans += u.ActiveLoans
	}
	isbns := make(map[string]struct{})
	for _, id := range s.hist.Users() {
		stack := s.hist.Known(id)
		st.UsersOnFile++
		st.TotalLoans += stack.Len()
		for _, rec := range stack.All() {
			isbns[rec.ISBN] = struct{}{}
		}
	}
	st.DistinctISBN = len(isbns)
	return st
}

// save persists every structure a circulation operation can touch: stock
// levels, open-loan counts, the reservation queue, and the histories.
// Callers hold the mutex.
func (s *service) save(ctx context.Context) error {
	books := s.inv.General()
	bookRecords := make([]inventory.Book, len(books))
	for i, b := range books {
		bookRecords[i] = *b
	}
	if err := s.store.Save(ctx, inventory.BooksFile, bookRecords); err != nil {
		return fmt.Errorf("save books: %w", err)
	}

	users := s.reg.All()
	userRecords := make([]membership.User, len(users))
	for i, u := range users {
		userRecords[i] = *u
	}
	if err := s.store.Save(ctx, membership.UsersFile, userRecords); err != nil {
		return fmt.Errorf("save users: %w", err)
	}

	if err := s.store.Save(ctx, reservation.QueueFile, s.queue); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	if err := s.store.Save(ctx, LoansFile, s.hist); err != nil {
		return fmt.Errorf("save loans: %w", err)
	}
	return nil
}
