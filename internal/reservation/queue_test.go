// internal/reservation/queue_test.go
package reservation

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func enqueue(t *testing.T, q *Queue, userID, isbn string) {
	t.Helper()
	ok, err := q.Enqueue(userID, isbn, time.Now())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEnqueueValidatesIdentifiers(t *testing.T) {
	q := NewQueue(0)

	_, err := q.Enqueue("", "300", time.Now())
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = q.Enqueue("U1", "  ", time.Now())
	assert.ErrorIs(t, err, ErrEmptyISBN)

	assert.Equal(t, 0, q.Len())
}

func TestEnqueueRefusesWhenFull(t *testing.T) {
	q := NewQueue(2)
	enqueue(t, q, "U1", "100")
	enqueue(t, q, "U2", "100")

	ok, err := q.Enqueue("U3", "100", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, q.Len())
}

func TestGlobalFIFOAcrossBooks(t *testing.T) {
	q := NewQueue(0)
	enqueue(t, q, "U1", "100")
	enqueue(t, q, "U2", "200")
	enqueue(t, q, "U1", "200")

	head := q.Dequeue()
	require.NotNil(t, head)
	assert.Equal(t, "U1", head.UserID)
	assert.Equal(t, "100", head.ISBN, "global head leaves first, whatever its book")
}

func TestDequeueMatchingSkipsOtherBooks(t *testing.T) {
	q := NewQueue(0)
	enqueue(t, q, "U1", "100")
	enqueue(t, q, "U2", "200")
	enqueue(t, q, "U3", "200")

	rec := q.DequeueMatching("200")
	require.NotNil(t, rec)
	assert.Equal(t, "U2", rec.UserID, "earliest waiter for the book wins")

	assert.Equal(t, 1, q.Position("U1", "100"), "unrelated record keeps its place")
	assert.Equal(t, 2, q.Position("U3", "200"))

	assert.Nil(t, q.DequeueMatching("999"))
}

func TestPeekDoesNotConsume(t *testing.T) {
	q := NewQueue(0)
	enqueue(t, q, "U1", "100")

	rec := q.PeekNextForISBN("100")
	require.NotNil(t, rec)
	assert.Equal(t, "U1", rec.UserID)
	assert.Equal(t, 1, q.Len())
}

func TestPositionAndRemove(t *testing.T) {
	q := NewQueue(0)
	enqueue(t, q, "U1", "100")
	enqueue(t, q, "U2", "100")

	assert.Equal(t, 2, q.Position("U2", "100"))
	assert.Equal(t, NotFound, q.Position("U2", "999"))

	assert.True(t, q.Remove("U1", "100"))
	assert.False(t, q.Remove("U1", "100"))
	assert.Equal(t, 1, q.Position("U2", "100"), "remaining record moves up")
}

func TestQueueJSONRoundTrip(t *testing.T) {
	q := NewQueue(5)
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ok, err := q.Enqueue("U1", "100", at)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = q.Enqueue("U2", "200", at.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	data, err := json.Marshal(q)
	require.NoError(t, err)

	restored := NewQueue(0)
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, q.All(), restored.All())
	assert.Equal(t, 5, restored.Capacity())
}

func TestDequeueOrderMatchesEnqueueOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := NewQueue(0)
		n := rapid.IntRange(0, 50).Draw(t, "n")

		var want []string
		for i := 0; i < n; i++ {
			userID := fmt.Sprintf("U%d", i)
			isbn := rapid.StringMatching(`[0-9]{1,3}`).Draw(t, "isbn")
			ok, err := q.Enqueue(userID, isbn, time.Now())
			if err != nil || !ok {
				t.Fatalf("Enqueue(%q, %q) = %v, %v", userID, isbn, ok, err)
			}
			want = append(want, userID)
		}

		for i, userID := range want {
			rec := q.Dequeue()
			if rec == nil || rec.UserID != userID {
				t.Fatalf("dequeue %d: got %+v, want user %q", i, rec, userID)
			}
		}
		if q.Dequeue() != nil {
			t.Fatalf("queue not empty after draining")
		}
	})
}
