// internal/inventory/report.go
package inventory

// MergeSort returns a new slice sorted by less, leaving the input untouched.
// Stable: equal elements keep their relative order. Used for reports only;
// the authoritative views are never resorted this way.
func MergeSort(books []*Book, less func(a, b *Book) bool) []*Book {
	out := make([]*Book, len(books))
	copy(out, books)
	mergeSort(out, 0, len(out)-1, less)
	return out
}

func mergeSort(books []*Book, lo, hi int, less func(a, b *Book) bool) {
	if lo >= hi {
		return
	}
	mid := (lo + hi) / 2
	mergeSort(books, lo, mid, less)
	mergeSort(books, mid+1, hi, less)
	merge(books, lo, mid, hi, less)
}

func merge(books []*Book, lo, mid, hi int, less func(a, b *Book) bool) {
	left := append([]*Book(nil), books[lo:mid+1]...)
	right := append([]*Book(nil), books[mid+1:hi+1]...)

	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		if !less(right[j], left[i]) {
			books[k] = left[i]
			i++
		} else {
			books[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		books[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		books[k] = right[j]
		j++
		k++
	}
}

// ValueReportEntry is one row of the value-sorted inventory report.
type ValueReportEntry struct {
	Position int   `json:"position"`
	Book     *Book `json:"book"`
}

// ValueReport sorts a copy of the books by value, highest first, and tags
// each row with its 1-based position.
func ValueReport(books []*Book) []ValueReportEntry {
	sorted := MergeSort(books, func(a, b *Book) bool { return a.Value > b.Value })

	report := make([]ValueReportEntry, len(sorted))
	for i, b := range sorted {
		report[i] = ValueReportEntry{Position: i + 1, Book: b}
	}
	return report
}
