// internal/inventory/implementation.go
package inventory

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// BooksFile is the collection name the inventory persists under. Only the
// general (load-order) view is saved; the sorted view is rebuilt on load.
const BooksFile = "books"

// Store is the persistence collaborator. The service saves after every
// mutating call; the inventory structure itself never performs I/O.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// service implements the Service interface. All state access runs under the
// engine-wide mutex shared with the other managers, so the dual-view
// invariant holds even with concurrent HTTP callers.
type service struct {
	mu    *sync.Mutex
	inv   *Inventory
	store Store
}

// NewService creates a new inventory service instance over the shared
// inventory state.
func NewService(mu *sync.Mutex, inv *Inventory, store Store) Service {
	return &service{mu: mu, inv: inv, store: store}
}

// Load replaces the in-memory views from the persisted load-order list.
func (s *service) Load(ctx context.Context) error {
	var records []Book
	if err := s.store.Load(ctx, BooksFile, &records); err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	books := make([]*Book, 0, len(records))
	for i := range records {
		b, err := NewBook(records[i])
		if err != nil {
			return fmt.Errorf("load books: record %d: %w", i, err)
		}
		books = append(books, b)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Load(books)
	return nil
}

// AddBook validates the record and adds it to both views.
func (s *service) AddBook(ctx context.Context, book Book) (*Book, error) {
	b, err := NewBook(book)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inv.Add(b); err != nil {
		return nil, fmt.Errorf("add %s: %w", b.ISBN, err)
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, isbn string) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.inv.ByISBN(isbn)
	if b == nil {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// UpdateBook edits non-key fields in place. Both views share the book
// pointer, so a single mutation keeps them in agreement.
func (s *service) UpdateBook(ctx context.Context, isbn string, update Update) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.inv.ByISBN(isbn)
	if b == nil {
		return nil, ErrBookNotFound
	}

	edited := *b
	if update.Title != nil {
		edited.Title = *update.Title
	}
	if update.Author != nil {
		edited.Author = *update.Author
	}
	if update.WeightKg != nil {
		edited.WeightKg = *update.WeightKg
	}
	if update.Value != nil {
		edited.Value = *update.Value
	}
	if update.Stock != nil {
		edited.Stock = *update.Stock
	}
	if update.Genre != nil {
		edited.Genre = *update.Genre
	}
	if update.Publisher != nil {
		edited.Publisher = *update.Publisher
	}
	if update.Year != nil {
		edited.Year = *update.Year
	}

	checked, err := NewBook(edited)
	if err != nil {
		return nil, err
	}
	*b = *checked

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) RemoveBook(ctx context.Context, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inv.Remove(isbn) {
		return ErrBookNotFound
	}
	return s.save(ctx)
}

func (s *service) ListBooks(ctx context.Context, sorted bool) []*Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sorted {
		return s.inv.Sorted()
	}
	return s.inv.General()
}

func (s *service) SearchTitle(ctx context.Context, title string) []*Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchByTitle(s.inv.general, title, false)
}

func (s *service) SearchAuthor(ctx context.Context, author string) []*Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchByAuthor(s.inv.general, author, false)
}

func (s *service) Available(ctx context.Context, author string) []*Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AvailableBooks(s.inv.general, author)
}

func (s *service) Report(ctx context.Context) []ValueReportEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ValueReport(s.inv.general)
}

func (s *service) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	st.TotalTitles = len(s.inv.general)
	for _, b := range s.inv.general {
		st.TotalStock += b.Stock
		st.TotalValue += b.Value * float64(b.Stock)
		st.TotalWeightKg += b.WeightKg * float64(b.Stock)
		if b.Available() {
			st.Available++
		} else {
			st.Exhausted++
		}
	}
	return st
}

func (s *service) Verify(ctx context.Context) ConsistencyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.VerifyConsistency()
}

// ImportCSV seeds the inventory from a CSV export, skipping duplicates.
// Returns the number of books added.
func (s *service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	books, err := ReadBooksCSV(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, b := range books {
		if err := s.inv.Add(b); err != nil {
			continue
		}
		added++
	}
	if added > 0 {
		if err := s.save(ctx); err != nil {
			return added, err
		}
	}
	return added, nil
}

// save persists the general view. Callers hold the mutex.
func (s *service) save(ctx context.Context) error {
	records := make([]Book, len(s.inv.general))
	for i, b := range s.inv.general {
		records[i] = *b
	}
	if err := s.store.Save(ctx, BooksFile, records); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}
