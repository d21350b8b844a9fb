// internal/inventory/search.go
package inventory

import "strings"

// NotFound is the sentinel returned by BinarySearch on a miss. It is never a
// valid index.
const NotFound = -1

// BinarySearch locates a book by exact ISBN in a slice sorted ascending by
// ISBN, returning its index or NotFound. ISBNs are compared after trimming.
// ISBNs are unique by invariant; if duplicates sneak in, whichever match the
// halving lands on first is returned.
func BinarySearch(sorted []*Book, isbn string) int {
	target := strings.TrimSpace(isbn)

	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		cur := strings.TrimSpace(sorted[mid].ISBN)
		switch {
		case cur == target:
			return mid
		case cur < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return NotFound
}

// SearchByTitle linearly scans the general view for books whose title
// matches. Matching is case-insensitive; exact requires the full title,
// otherwise a substring suffices.
func SearchByTitle(books []*Book, title string, exact bool) []*Book {
	return searchByField(books, func(b *Book) string { return b.Title }, title, exact)
}

// SearchByAuthor linearly scans the general view for books whose author
// matches.
func SearchByAuthor(books []*Book, author string, exact bool) []*Book {
	return searchByField(books, func(b *Book) string { return b.Author }, author, exact)
}

func searchByField(books []*Book, field func(*Book) string, value string, exact bool) []*Book {
	needle := strings.ToLower(strings.TrimSpace(value))

	var matches []*Book
	for _, b := range books {
		hay := strings.ToLower(strings.TrimSpace(field(b)))
		if exact && hay == needle {
			matches = append(matches, b)
		} else if !exact && strings.Contains(hay, needle) {
			matches = append(matches, b)
		}
	}
	return matches
}

// AvailableBooks returns books with stock remaining, optionally filtered by
// author substring.
func AvailableBooks(books []*Book, author string) []*Book {
	var matches []*Book
	for _, b := range books {
		if !b.Available() {
			continue
		}
		if author != "" {
			hay := strings.ToLower(strings.TrimSpace(b.Author))
			if !strings.Contains(hay, strings.ToLower(strings.TrimSpace(author))) {
				continue
			}
		}
		matches = append(matches, b)
	}
	return matches
}
