// internal/circulation/history_test.go
package circulation

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func push(t *testing.T, s *Stack, isbn string) {
	t.Helper()
	ok, err := s.Push(LoanRecord{LoanID: "L-" + isbn, ISBN: isbn})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPushValidatesISBN(t *testing.T) {
	s := NewStack(0)

	_, err := s.Push(LoanRecord{ISBN: "   "})
	assert.ErrorIs(t, err, ErrEmptyISBN)
	assert.Equal(t, 0, s.Len())
}

func TestPushRefusesWhenFull(t *testing.T) {
	s := NewStack(1)
	push(t, s, "100")

	ok, err := s.Push(LoanRecord{ISBN: "200"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestAllReturnsMostRecentFirst(t *testing.T) {
	s := NewStack(0)
	push(t, s, "100")
	push(t, s, "200")
	push(t, s, "300")

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "300", all[0].ISBN)
	assert.Equal(t, "100", all[2].ISBN)

	top := s.Peek()
	require.NotNil(t, top)
	assert.Equal(t, "300", top.ISBN)
	assert.Equal(t, 3, s.Len(), "peek does not consume")
}

func TestPopIsLIFO(t *testing.T) {
	s := NewStack(0)
	push(t, s, "100")
	push(t, s, "200")

	assert.Equal(t, "200", s.Pop().ISBN)
	assert.Equal(t, "100", s.Pop().ISBN)
	assert.Nil(t, s.Pop())
}

func TestContainsAndCount(t *testing.T) {
	s := NewStack(0)
	push(t, s, "100")
	push(t, s, "200")
	push(t, s, "100")

	assert.True(t, s.Contains("100"))
	assert.False(t, s.Contains("999"))
	assert.Equal(t, 2, s.CountISBN("100"))
}

func TestHistoryLazyPerUserStacks(t *testing.T) {
	h := NewHistory(0)

	assert.Nil(t, h.Known("U1"))

	st := h.ForUser("U1")
	require.NotNil(t, st)
	assert.Same(t, st, h.ForUser("U1"), "same stack on repeat access")
	assert.Same(t, st, h.Known("U1"))

	h.Drop("U1")
	assert.Nil(t, h.Known("U1"))
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	h := NewHistory(0)
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	_, err := h.ForUser("U1").Push(LoanRecord{LoanID: "L1", ISBN: "100", Timestamp: at})
	require.NoError(t, err)
	_, err = h.ForUser("U2").Push(LoanRecord{LoanID: "L2", ISBN: "200", Timestamp: at})
	require.NoError(t, err)

	data, err := json.Marshal(h)
	require.NoError(t, err)

	restored := NewHistory(0)
	require.NoError(t, json.Unmarshal(data, restored))

	require.NotNil(t, restored.Known("U1"))
	assert.Equal(t, h.Known("U1").All(), restored.Known("U1").All())
	assert.Equal(t, h.Known("U2").All(), restored.Known("U2").All())
}

func TestStackOrderReversesPushes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStack(0)
		n := rapid.IntRange(0, 40).Draw(t, "n")

		var pushed []string
		for i := 0; i < n; i++ {
			isbn := fmt.Sprintf("%d", rapid.IntRange(1, 999).Draw(t, "isbn"))
			ok, err := s.Push(LoanRecord{ISBN: isbn})
			if err != nil || !ok {
				t.Fatalf("Push(%q) = %v, %v", isbn, ok, err)
			}
			pushed = append(pushed, isbn)
		}

		all := s.All()
		if len(all) != len(pushed) {
			t.Fatalf("got %d records, pushed %d", len(all), len(pushed))
		}
		for i, rec := range all {
			if want := pushed[len(pushed)-1-i]; rec.ISBN != want {
				t.Fatalf("record %d: got %q, want %q", i, rec.ISBN, want)
			}
		}
	})
}
