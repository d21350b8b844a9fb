// internal/inventory/service.go
package inventory

import (
	"context"
	"io"
)

// Update carries a partial book edit. Nil fields are left unchanged. The
// ISBN itself is immutable through updates; replace the book to rekey it.
type Update struct {
	Title     *string  `json:"title,omitempty"`
	Author    *string  `json:"author,omitempty"`
	WeightKg  *float64 `json:"weight_kg,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
	Genre     *string  `json:"genre,omitempty"`
	Publisher *string  `json:"publisher,omitempty"`
	Year      *int     `json:"year,omitempty"`
}

// Stats summarizes the general inventory view.
type Stats struct {
	TotalTitles   int     `json:"total_titles"`
	TotalStock    int     `json:"total_stock"`
	TotalValue    float64 `json:"total_value"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	Available     int     `json:"available"`
	Exhausted     int     `json:"exhausted"`
}

// Service defines the interface for the inventory service.
type Service interface {
	Load(ctx context.Context) error
	AddBook(ctx context.Context, book Book) (*Book, error)
	GetBook(ctx context.Context, isbn string) (*Book, error)
	UpdateBook(ctx context.Context, isbn string, update Update) (*Book, error)
	RemoveBook(ctx context.Context, isbn string) error
	ListBooks(ctx context.Context, sorted bool) []*Book
	SearchTitle(ctx context.Context, title string) []*Book
	SearchAuthor(ctx context.Context, author string) []*Book
	Available(ctx context.Context, author string) []*Book
	Report(ctx context.Context) []ValueReportEntry
	Stats(ctx context.Context) Stats
	Verify(ctx context.Context) ConsistencyReport
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}
