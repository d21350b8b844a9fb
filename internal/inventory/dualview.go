// internal/inventory/dualview.go
package inventory

// Inventory holds the two master views over the same logical book set:
// the general view in load order, and the sorted view in ascending ISBN
// order. The general view is only ever appended to; the sorted view is
// only ever mutated through InsertSorted, which keeps binary search valid.
type Inventory struct {
	general []*Book
	sorted  []*Book
}

func NewInventory() *Inventory {
	return &Inventory{}
}

// Load replaces both views from an unsorted source, typically the persisted
// load-order list. The sorted view is rebuilt with a full insertion sort.
func (inv *Inventory) Load(books []*Book) {
	inv.general = make([]*Book, len(books))
	copy(inv.general, books)

	inv.sorted = make([]*Book, len(books))
	copy(inv.sorted, books)
	InsertionSort(inv.sorted)
}

// Add appends the book to the general view and insert-sorts it into the
// sorted view. Returns ErrDuplicateISBN if the ISBN is already present.
func (inv *Inventory) Add(b *Book) error {
	if BinarySearch(inv.sorted, b.ISBN) != NotFound {
		return ErrDuplicateISBN
	}
	inv.general = append(inv.general, b)
	inv.sorted = InsertSorted(inv.sorted, b)
	return nil
}

// Remove deletes the book from both views. Returns false if the ISBN is
// unknown.
func (inv *Inventory) Remove(isbn string) bool {
	pos := BinarySearch(inv.sorted, isbn)
	if pos == NotFound {
		return false
	}
	inv.sorted = append(inv.sorted[:pos], inv.sorted[pos+1:]...)
	for i, b := range inv.general {
		if b.ISBN == isbn {
			inv.general = append(inv.general[:i], inv.general[i+1:]...)
			break
		}
	}
	return true
}

// ByISBN answers "does this book exist, and where" against the sorted view.
// Binary search is the only sanctioned existence check.
func (inv *Inventory) ByISBN(isbn string) *Book {
	pos := BinarySearch(inv.sorted, isbn)
	if pos == NotFound {
		return nil
	}
	return inv.sorted[pos]
}

func (inv *Inventory) Len() int {
	return len(inv.general)
}

// General returns a copy of the load-order view.
func (inv *Inventory) General() []*Book {
	out := make([]*Book, len(inv.general))
	copy(out, inv.general)
	return out
}

// Sorted returns a copy of the ISBN-ordered view.
func (inv *Inventory) Sorted() []*Book {
	out := make([]*Book, len(inv.sorted))
	copy(out, inv.sorted)
	return out
}

// InsertSorted inserts the book before the first element whose ISBN is
// strictly greater, so equal keys keep insertion order. The input slice must
// already be sorted ascending by ISBN.
func InsertSorted(sorted []*Book, b *Book) []*Book {
	pos := len(sorted)
	for i, cur := range sorted {
		if cur.ISBN > b.ISBN {
			pos = i
			break
		}
	}
	sorted = append(sorted, nil)
	copy(sorted[pos+1:], sorted[pos:])
	sorted[pos] = b
	return sorted
}

// InsertionSort sorts the slice ascending by ISBN in place. Used once at
// load time; incremental adds go through InsertSorted instead.
func InsertionSort(books []*Book) {
	for i := 1; i < len(books); i++ {
		cur := books[i]
		j := i - 1
		for j >= 0 && books[j].ISBN > cur.ISBN {
			books[j+1] = books[j]
			j--
		}
		books[j+1] = cur
	}
}

// IsSorted reports whether the slice is non-decreasing by ISBN.
func IsSorted(books []*Book) bool {
	for i := 0; i+1 < len(books); i++ {
		if books[i].ISBN > books[i+1].ISBN {
			return false
		}
	}
	return true
}

// ConsistencyReport describes whether the two views still agree. A failed
// report indicates a bug, not bad user input, and should be surfaced
// prominently by callers.
type ConsistencyReport struct {
	Consistent   bool `json:"consistent"`
	SameCount    bool `json:"same_count"`
	SameSet      bool `json:"same_set"`
	SortedInTact bool `json:"sorted_intact"`
	GeneralCount int  `json:"general_count"`
	SortedCount  int  `json:"sorted_count"`
}

// VerifyConsistency checks that both views carry the same ISBN set and that
// the sorted view is actually sorted.
func (inv *Inventory) VerifyConsistency() ConsistencyReport {
	generalSet := make(map[string]struct{}, len(inv.general))
	for _, b := range inv.general {
		generalSet[b.ISBN] = struct{}{}
	}
	sortedSet := make(map[string]struct{}, len(inv.sorted))
	for _, b := range inv.sorted {
		sortedSet[b.ISBN] = struct{}{}
	}

	sameSet := len(generalSet) == len(sortedSet)
	if sameSet {
		for isbn := range generalSet {
			if _, ok := sortedSet[isbn]; !ok {
				sameSet = false
				break
			}
		}
	}

	r := ConsistencyReport{
		SameCount:    len(inv.general) == len(inv.sorted),
		SameSet:      sameSet,
		SortedInTact: IsSorted(inv.sorted),
		GeneralCount: len(inv.general),
		SortedCount:  len(inv.sorted),
	}
	r.Consistent = r.SameCount && r.SameSet && r.SortedInTact
	return r
}
