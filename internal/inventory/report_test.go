// internal/inventory/report_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueReportDescendingWithPositions(t *testing.T) {
	books := []*Book{
		{ISBN: "1", Title: "Cheap", Value: 5},
		{ISBN: "2", Title: "Pricey", Value: 50},
		{ISBN: "3", Title: "Middle", Value: 20},
	}

	report := ValueReport(books)
	require.Len(t, report, 3)

	assert.Equal(t, 1, report[0].Position)
	assert.Equal(t, "2", report[0].Book.ISBN)
	assert.Equal(t, "3", report[1].Book.ISBN)
	assert.Equal(t, "1", report[2].Book.ISBN)

	assert.Equal(t, "Cheap", books[0].Title, "input left untouched")
}

func TestMergeSortIsStable(t *testing.T) {
	books := []*Book{
		{ISBN: "a", Value: 10},
		{ISBN: "b", Value: 10},
		{ISBN: "c", Value: 10},
	}

	sorted := MergeSort(books, func(x, y *Book) bool { return x.Value > y.Value })
	require.Len(t, sorted, 3)
	assert.Equal(t, "a", sorted[0].ISBN)
	assert.Equal(t, "b", sorted[1].ISBN)
	assert.Equal(t, "c", sorted[2].ISBN)
}
