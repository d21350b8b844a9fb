// internal/inventory/dualview_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBook(t *testing.T, isbn string) *Book {
	t.Helper()
	b, err := NewBook(Book{ISBN: isbn, Title: "Title " + isbn, Author: "Author", Value: 10, Stock: 1})
	require.NoError(t, err)
	return b
}

func TestInsertSortedKeepsOrder(t *testing.T) {
	var sorted []*Book
	for _, isbn := range []string{"100", "300", "500"} {
		sorted = InsertSorted(sorted, mustBook(t, isbn))
	}

	sorted = InsertSorted(sorted, mustBook(t, "400"))

	got := make([]string, len(sorted))
	for i, b := range sorted {
		got[i] = b.ISBN
	}
	assert.Equal(t, []string{"100", "300", "400", "500"}, got)
}

func TestInsertSortedTieGoesAfter(t *testing.T) {
	first := mustBook(t, "300")
	second := mustBook(t, "300")
	second.Title = "Second"

	sorted := InsertSorted(nil, first)
	sorted = InsertSorted(sorted, second)

	require.Len(t, sorted, 2)
	assert.Same(t, first, sorted[0])
	assert.Same(t, second, sorted[1])
}

func TestInsertionSortOrdersLoadedBooks(t *testing.T) {
	books := []*Book{mustBook(t, "500"), mustBook(t, "100"), mustBook(t, "300")}
	InsertionSort(books)

	assert.Equal(t, "100", books[0].ISBN)
	assert.Equal(t, "300", books[1].ISBN)
	assert.Equal(t, "500", books[2].ISBN)
}

func TestAddKeepsBothViews(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.Add(mustBook(t, "500")))
	require.NoError(t, inv.Add(mustBook(t, "100")))
	require.NoError(t, inv.Add(mustBook(t, "300")))

	general := inv.General()
	assert.Equal(t, "500", general[0].ISBN, "general view keeps load order")

	sorted := inv.Sorted()
	assert.Equal(t, "100", sorted[0].ISBN)
	assert.Equal(t, "500", sorted[2].ISBN)

	report := inv.VerifyConsistency()
	assert.True(t, report.Consistent)
}

func TestAddRejectsDuplicateISBN(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.Add(mustBook(t, "300")))

	err := inv.Add(mustBook(t, "300"))
	assert.ErrorIs(t, err, ErrDuplicateISBN)
	assert.Equal(t, 1, inv.Len())
}

func TestRemoveDropsFromBothViews(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.Add(mustBook(t, "100")))
	require.NoError(t, inv.Add(mustBook(t, "300")))

	assert.True(t, inv.Remove("100"))
	assert.False(t, inv.Remove("100"), "second remove finds nothing")

	assert.Nil(t, inv.ByISBN("100"))
	assert.Equal(t, 1, inv.Len())
	assert.True(t, inv.VerifyConsistency().Consistent)
}

func TestUpdateThroughSharedPointer(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.Add(mustBook(t, "300")))

	b := inv.ByISBN("300")
	require.NotNil(t, b)
	b.Stock = 7

	assert.Equal(t, 7, inv.Sorted()[0].Stock, "both views see the edit")
}
