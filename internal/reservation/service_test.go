// internal/reservation/service_test.go
package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librastock/internal/inventory"
	"librastock/internal/membership"
)

type memStore struct {
	saved map[string]any
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]any)}
}

func (m *memStore) Load(ctx context.Context, name string, v any) error { return nil }

func (m *memStore) Save(ctx context.Context, name string, v any) error {
	m.saved[name] = v
	return nil
}

type fixture struct {
	service Service
	queue   *Queue
	inv     *inventory.Inventory
	reg     *membership.Registry
	store   *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var mu sync.Mutex
	inv := inventory.NewInventory()
	reg := membership.NewRegistry()
	queue := NewQueue(0)
	store := newMemStore()

	require.NoError(t, inv.Add(&inventory.Book{ISBN: "100", Title: "In Stock", Stock: 2}))
	require.NoError(t, inv.Add(&inventory.Book{ISBN: "200", Title: "Exhausted", Stock: 0}))

	for _, id := range []string{"U1", "U2"} {
		u, err := membership.NewUser(membership.User{ID: id, Name: "User " + id, Email: id + "@example.com"})
		require.NoError(t, err)
		require.NoError(t, reg.Add(u))
	}

	return &fixture{
		service: NewService(&mu, queue, inv, reg, store),
		queue:   queue,
		inv:     inv,
		reg:     reg,
		store:   store,
	}
}

func TestReserveGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Reserve(ctx, "ghost", "200")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.service.Reserve(ctx, "U1", "999")
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = f.service.Reserve(ctx, "U1", "100")
	assert.ErrorIs(t, err, ErrStockAvailable)

	assert.Equal(t, 0, f.queue.Len())
}

func TestReserveEnqueuesAndRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)
	assert.Equal(t, "U1", rec.UserID)
	assert.Equal(t, "200", rec.ISBN)

	_, err = f.service.Reserve(ctx, "U1", "200")
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Equal(t, 1, f.queue.Len())
	assert.Contains(t, f.store.saved, QueueFile, "reservation persisted")
}

func TestPositionReportsWaitEstimate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)
	_, err = f.service.Reserve(ctx, "U2", "200")
	require.NoError(t, err)

	info, err := f.service.Position(ctx, "U2", "200")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Position)
	assert.Equal(t, 1, info.AheadSameBook)
	assert.Equal(t, 2*LoanPeriod, info.EstimatedWait)

	_, err = f.service.Position(ctx, "U1", "999")
	assert.ErrorIs(t, err, ErrNotInQueue)
}

func TestCancelRemovesReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)

	require.NoError(t, f.service.Cancel(ctx, "U1", "200"))
	assert.ErrorIs(t, f.service.Cancel(ctx, "U1", "200"), ErrNotInQueue)
	assert.Equal(t, 0, f.queue.Len())
}

func TestClearForBookDropsAllRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)
	_, err = f.service.Reserve(ctx, "U2", "200")
	require.NoError(t, err)

	dropped, err := f.service.ClearForBook(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 0, f.queue.Len())

	dropped, err = f.service.ClearForBook(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
}

func TestRankingsBusiestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.inv.Add(&inventory.Book{ISBN: "300", Title: "Also Out", Stock: 0}))

	_, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)
	_, err = f.service.Reserve(ctx, "U2", "200")
	require.NoError(t, err)
	_, err = f.service.Reserve(ctx, "U1", "300")
	require.NoError(t, err)

	rankings := f.service.Rankings(ctx, 0)
	require.Len(t, rankings, 2)
	assert.Equal(t, RankingEntry{ISBN: "200", Waiting: 2}, rankings[0])
	assert.Equal(t, RankingEntry{ISBN: "300", Waiting: 1}, rankings[1])

	top := f.service.Rankings(ctx, 1)
	assert.Len(t, top, 1)
}

func TestStatsCountsDistinct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Now()
	_, err := f.service.Reserve(ctx, "U1", "200")
	require.NoError(t, err)
	_, err = f.service.Reserve(ctx, "U2", "200")
	require.NoError(t, err)

	st := f.service.Stats(ctx)
	assert.Equal(t, 2, st.TotalWaiting)
	assert.Equal(t, 1, st.DistinctBooks)
	assert.Equal(t, 2, st.DistinctUsers)
	assert.Nil(t, st.Capacity)
	require.NotNil(t, st.OldestWaiting)
	assert.False(t, st.OldestWaiting.Before(start.Add(-time.Second)))
}
