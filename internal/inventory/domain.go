// internal/inventory/domain.go
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyISBN     = errors.New("isbn cannot be empty")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrNegativeValue = errors.New("numeric fields cannot be negative")
	ErrDuplicateISBN = errors.New("book with this isbn already exists")
	ErrBookNotFound  = errors.New("book not found")
)

// Book represents one title in the library inventory. The ISBN uniquely
// identifies a book across both inventory views.
type Book struct {
	ISBN      string  `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	WeightKg  float64 `json:"weight_kg"`
	Value     float64 `json:"value"`
	Stock     int     `json:"stock"`
	Genre     string  `json:"genre,omitempty"`
	Publisher string  `json:"publisher,omitempty"`
	Year      int     `json:"year,omitempty"`
}

// NewBook validates and normalizes a book record. Identifiers are trimmed;
// blank ISBN/title and negative numeric fields are rejected.
func NewBook(b Book) (*Book, error) {
	b.ISBN = strings.TrimSpace(b.ISBN)
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
	b.Publisher = strings.TrimSpace(b.Publisher)

	if b.ISBN == "" {
		return nil, ErrEmptyISBN
	}
	if b.Title == "" {
		return nil, ErrEmptyTitle
	}
	if b.WeightKg < 0 {
		return nil, fmt.Errorf("%w: weight_kg=%v", ErrNegativeValue, b.WeightKg)
	}
	if b.Value < 0 {
		return nil, fmt.Errorf("%w: value=%v", ErrNegativeValue, b.Value)
	}
	if b.Stock < 0 {
		return nil, fmt.Errorf("%w: stock=%d", ErrNegativeValue, b.Stock)
	}
	if b.Genre == "" {
		b.Genre = "General"
	}
	return &b, nil
}

// Available reports whether at least one copy is in stock.
func (b *Book) Available() bool {
	return b.Stock > 0
}

// DecrementStock removes one copy from stock. Returns false if no copies
// remain.
func (b *Book) DecrementStock() bool {
	if b.Stock <= 0 {
		return false
	}
	b.Stock--
	return true
}

// IncrementStock returns one copy to stock.
func (b *Book) IncrementStock() {
	b.Stock++
}

func (b *Book) String() string {
	return fmt.Sprintf("ISBN: %s | Title: %s | Author: %s | Stock: %d",
		b.ISBN, b.Title, b.Author, b.Stock)
}
