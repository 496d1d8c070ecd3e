package session

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(ttl)
	now := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	created := s.Create(cart.State{BrandID: "brand-1", LocationID: "loc-1"})
	require.NotEmpty(t, created.ID)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	a := s.Create(cart.State{})
	b := s.Create(cart.State{})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	created := s.Create(cart.State{BrandID: "brand-1"})

	next, err := s.Update(created.ID, func(st cart.State) (cart.State, error) {
		return st.AddItem(cart.Item{
			LineID:    "l1",
			ID:        "prod-margherita",
			BasePrice: decimal.NewFromInt(89),
			Price:     decimal.NewFromInt(89),
			Quantity:  1,
		})
	})
	require.NoError(t, err)
	assert.Len(t, next.Items, 1)

	stored, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, next, stored)
}

func TestUpdateErrorDiscardsState(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	created := s.Create(cart.State{})

	boom := errors.New("validation failed")
	_, err := s.Update(created.ID, func(st cart.State) (cart.State, error) {
		st.BrandID = "mutated"
		return st, boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.BrandID, "failed action must not change the stored state")

	_, err = s.Update("missing", func(st cart.State) (cart.State, error) { return st, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	created := s.Create(cart.State{})

	s.Delete(created.ID)
	_, err := s.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is a no-op.
	s.Delete(created.ID)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	s, now := newTestStore(time.Hour)

	idle := s.Create(cart.State{})
	*now = now.Add(30 * time.Minute)
	fresh := s.Create(cart.State{})

	*now = now.Add(45 * time.Minute)
	s.sweep()

	_, err := s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound, "idle session past the TTL is swept")

	_, err = s.Get(fresh.ID)
	assert.NoError(t, err, "recently touched session survives")
}

func TestUpdateRefreshesTTL(t *testing.T) {
	s, now := newTestStore(time.Hour)
	created := s.Create(cart.State{})

	*now = now.Add(50 * time.Minute)
	_, err := s.Update(created.ID, func(st cart.State) (cart.State, error) { return st, nil })
	require.NoError(t, err)

	*now = now.Add(50 * time.Minute)
	s.sweep()

	_, err = s.Get(created.ID)
	assert.NoError(t, err, "update must reset the idle clock")
}
