// internal/inventory/search_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedFixture(t *testing.T) []*Book {
	t.Helper()
	var sorted []*Book
	for _, isbn := range []string{"100", "300", "500"} {
		sorted = InsertSorted(sorted, mustBook(t, isbn))
	}
	return sorted
}

func TestBinarySearchFindsPresentKey(t *testing.T) {
	sorted := sortedFixture(t)

	assert.Equal(t, 0, BinarySearch(sorted, "100"))
	assert.Equal(t, 1, BinarySearch(sorted, "300"))
	assert.Equal(t, 2, BinarySearch(sorted, "500"))
}

func TestBinarySearchMissReturnsNotFound(t *testing.T) {
	sorted := sortedFixture(t)

	assert.Equal(t, NotFound, BinarySearch(sorted, "250"))
	assert.Equal(t, NotFound, BinarySearch(nil, "100"))
}

func TestBinarySearchTrimsKey(t *testing.T) {
	sorted := sortedFixture(t)

	assert.Equal(t, 1, BinarySearch(sorted, "  300 "))
}

func TestSearchByTitleSubstring(t *testing.T) {
	books := []*Book{
		{ISBN: "1", Title: "The Go Programming Language", Author: "Donovan"},
		{ISBN: "2", Title: "Go in Action", Author: "Kennedy"},
		{ISBN: "3", Title: "Clean Code", Author: "Martin"},
	}

	got := SearchByTitle(books, "go", false)
	require.Len(t, got, 2)

	exact := SearchByTitle(books, "Clean Code", true)
	require.Len(t, exact, 1)
	assert.Equal(t, "3", exact[0].ISBN)
}

func TestAvailableBooksFiltersStockAndAuthor(t *testing.T) {
	books := []*Book{
		{ISBN: "1", Title: "A", Author: "Knuth", Stock: 2},
		{ISBN: "2", Title: "B", Author: "Knuth", Stock: 0},
		{ISBN: "3", Title: "C", Author: "Ritchie", Stock: 1},
	}

	got := AvailableBooks(books, "knuth")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ISBN)

	all := AvailableBooks(books, "")
	assert.Len(t, all, 2)
}
