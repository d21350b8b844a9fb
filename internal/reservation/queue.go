// internal/reservation/queue.go
package reservation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyUserID = errors.New("user id cannot be empty")
	ErrEmptyISBN   = errors.New("isbn cannot be empty")
)

// NotFound is the sentinel returned by Position when no matching record
// exists.
const NotFound = -1

// Reservation is one waiting-list entry. A (user, isbn) pair appears at most
// once; the managers enforce that, the queue itself does not.
type Reservation struct {
	UserID    string    `json:"user_id"`
	ISBN      string    `json:"isbn"`
	Timestamp time.Time `json:"timestamp"`
}

// Queue is the single waiting list shared by every book. Records are
// appended at the tail and leave from the head, so FIFO order holds across
// titles, not per title. Callers filter by ISBN when they need the next
// record for one book. Not safe for concurrent use; the managers serialize
// access.
type Queue struct {
	records  []Reservation
	capacity int
}

// NewQueue creates an empty queue. A capacity of 0 means unbounded.
func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

// Enqueue appends a reservation at the tail. Blank identifiers are a caller
// contract violation and return an error; a full bounded queue returns
// false. Enqueue is not idempotent — callers pre-check Has to avoid
// duplicate (user, isbn) records.
func (q *Queue) Enqueue(userID, isbn string, at time.Time) (bool, error) {
	userID = strings.TrimSpace(userID)
	isbn = strings.TrimSpace(isbn)
	if userID == "" {
		return false, ErrEmptyUserID
	}
	if isbn == "" {
		return false, ErrEmptyISBN
	}
	if q.Full() {
		return false, nil
	}
	if at.IsZero() {
		at = time.Now()
	}
	q.records = append(q.records, Reservation{UserID: userID, ISBN: isbn, Timestamp: at})
	return true, nil
}

// Dequeue removes and returns the head: the earliest record system-wide,
// whatever its ISBN. Returns nil on an empty queue.
func (q *Queue) Dequeue() *Reservation {
	if len(q.records) == 0 {
		return nil
	}
	head := q.records[0]
	q.records = q.records[1:]
	return &head
}

// PeekNextForISBN returns the first record for the given ISBN without
// removing it, or nil when no one is waiting for that book.
func (q *Queue) PeekNextForISBN(isbn string) *Reservation {
	for i := range q.records {
		if q.records[i].ISBN == isbn {
			r := q.records[i]
			return &r
		}
	}
	return nil
}

// DequeueMatching removes and returns the first record for the given ISBN.
// This is the combined peek-then-dequeue the fulfillment protocol uses, so
// no caller can interleave between the check and the removal.
func (q *Queue) DequeueMatching(isbn string) *Reservation {
	for i := range q.records {
		if q.records[i].ISBN == isbn {
			r := q.records[i]
			q.records = append(q.records[:i], q.records[i+1:]...)
			return &r
		}
	}
	return nil
}

// Position returns the 1-based queue position of the (user, isbn) record,
// or NotFound.
func (q *Queue) Position(userID, isbn string) int {
	for i := range q.records {
		if q.records[i].UserID == userID && q.records[i].ISBN == isbn {
			return i + 1
		}
	}
	return NotFound
}

// Has reports whether a (user, isbn) record exists.
func (q *Queue) Has(userID, isbn string) bool {
	return q.Position(userID, isbn) != NotFound
}

// Remove cancels a reservation anywhere in the queue. Returns false if no
// matching record exists.
func (q *Queue) Remove(userID, isbn string) bool {
	for i := range q.records {
		if q.records[i].UserID == userID && q.records[i].ISBN == isbn {
			q.records = append(q.records[:i], q.records[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllForISBN drops every record for the book, for use when the book
// itself leaves the catalog. Returns how many records were dropped.
func (q *Queue) RemoveAllForISBN(isbn string) int {
	kept := q.records[:0]
	dropped := 0
	for _, r := range q.records {
		if r.ISBN == isbn {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	q.records = kept
	return dropped
}

// ForUser returns every record belonging to the user, oldest first.
func (q *Queue) ForUser(userID string) []Reservation {
	var out []Reservation
	for _, r := range q.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// ForISBN returns every record for the book, oldest first.
func (q *Queue) ForISBN(isbn string) []Reservation {
	var out []Reservation
	for _, r := range q.records {
		if r.ISBN == isbn {
			out = append(out, r)
		}
	}
	return out
}

// CountForISBN returns how many users wait for the book.
func (q *Queue) CountForISBN(isbn string) int {
	n := 0
	for _, r := range q.records {
		if r.ISBN == isbn {
			n++
		}
	}
	return n
}

// All returns a copy of the queue from head to tail.
func (q *Queue) All() []Reservation {
	out := make([]Reservation, len(q.records))
	copy(out, q.records)
	return out
}

func (q *Queue) Len() int {
	return len(q.records)
}

// Capacity returns the configured bound, 0 when unbounded.
func (q *Queue) Capacity() int {
	return q.capacity
}

func (q *Queue) Full() bool {
	return q.capacity > 0 && len(q.records) >= q.capacity
}

func (q *Queue) Clear() {
	q.records = q.records[:0]
}

type queueState struct {
	Records  []Reservation `json:"records"`
	Capacity *int          `json:"capacity"`
}

// MarshalJSON serializes the queue as {"records": [...], "capacity": null|n}.
func (q *Queue) MarshalJSON() ([]byte, error) {
	state := queueState{Records: q.records}
	if q.capacity > 0 {
		state.Capacity = &q.capacity
	}
	if state.Records == nil {
		state.Records = []Reservation{}
	}
	return json.Marshal(state)
}

func (q *Queue) UnmarshalJSON(data []byte) error {
	var state queueState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	q.records = state.Records
	q.capacity = 0
	if state.Capacity != nil {
		q.capacity = *state.Capacity
	}
	return nil
}
