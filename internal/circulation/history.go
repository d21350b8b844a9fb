// internal/circulation/history.go
package circulation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrEmptyISBN = errors.New("isbn cannot be empty")

// LoanRecord is one entry in a user's loan history.
type LoanRecord struct {
	LoanID    string    `json:"loan_id"`
	ISBN      string    `json:"isbn"`
	Timestamp time.Time `json:"timestamp"`
}

// Stack is a single user's loan history, newest on top. Records are never
// popped on return; the history is an append-only trail read most recent
// first.
type Stack struct {
	records  []LoanRecord
	capacity int
}

// NewStack creates an empty stack. A capacity of 0 means unbounded.
func NewStack(capacity int) *Stack {
	return &Stack{capacity: capacity}
}

// Push records a loan on top of the stack. A blank ISBN is a caller
// contract violation and returns an error; a full bounded stack returns
// false.
func (s *Stack) Push(rec LoanRecord) (bool, error) {
	rec.ISBN = strings.TrimSpace(rec.ISBN)
	if rec.ISBN == "" {
		return false, ErrEmptyISBN
	}
	if s.Full() {
		return false, nil
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	s.records = append(s.records, rec)
	return true, nil
}

// Pop removes and returns the most recent record, or nil when empty.
func (s *Stack) Pop() *LoanRecord {
	if len(s.records) == 0 {
		return nil
	}
	top := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	return &top
}

// Peek returns the most recent record without removing it, or nil.
func (s *Stack) Peek() *LoanRecord {
	if len(s.records) == 0 {
		return nil
	}
	top := s.records[len(s.records)-1]
	return &top
}

// All returns the history most recent first.
func (s *Stack) All() []LoanRecord {
	out := make([]LoanRecord, len(s.records))
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out
}

// Contains reports whether the user ever borrowed the book.
func (s *Stack) Contains(isbn string) bool {
	return s.CountISBN(isbn) > 0
}

// CountISBN returns how many times the book appears in the history.
func (s *Stack) CountISBN(isbn string) int {
	n := 0
	for _, rec := range s.records {
		if rec.ISBN == isbn {
			n++
		}
	}
	return n
}

func (s *Stack) Len() int {
	return len(s.records)
}

func (s *Stack) Full() bool {
	return s.capacity > 0 && len(s.records) >= s.capacity
}

type stackState struct {
	Records  []LoanRecord `json:"records"`
	Capacity *int         `json:"capacity"`
}

func (s *Stack) MarshalJSON() ([]byte, error) {
	state := stackState{Records: s.records}
	if s.capacity > 0 {
		state.Capacity = &s.capacity
	}
	if state.Records == nil {
		state.Records = []LoanRecord{}
	}
	return json.Marshal(state)
}

func (s *Stack) UnmarshalJSON(data []byte) error {
	var state stackState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.records = state.Records
	s.capacity = 0
	if state.Capacity != nil {
		s.capacity = *state.Capacity
	}
	return nil
}

// History holds one stack per user, created lazily on first loan.
type History struct {
	stacks   map[string]*Stack
	capacity int
}

// NewHistory creates an empty history. capacity bounds each per-user stack;
// 0 means unbounded.
func NewHistory(capacity int) *History {
	return &History{stacks: make(map[string]*Stack), capacity: capacity}
}

// ForUser returns the user's stack, creating it on first use.
func (h *History) ForUser(userID string) *Stack {
	st, ok := h.stacks[userID]
	if !ok {
		st = NewStack(h.capacity)
		h.stacks[userID] = st
	}
	return st
}

// Known returns the user's stack or nil, without creating one.
func (h *History) Known(userID string) *Stack {
	return h.stacks[userID]
}

// Drop discards a user's history.
func (h *History) Drop(userID string) {
	delete(h.stacks, userID)
}

// Users returns the IDs of every user with history.
func (h *History) Users() []string {
	out := make([]string, 0, len(h.stacks))
	for id := range h.stacks {
		out = append(out, id)
	}
	return out
}

func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.stacks)
}

func (h *History) UnmarshalJSON(data []byte) error {
	stacks := make(map[string]*Stack)
	if err := json.Unmarshal(data, &stacks); err != nil {
		return err
	}
	h.stacks = stacks
	return nil
}
