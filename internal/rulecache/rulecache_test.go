package rulecache

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

type mockStandardRepo struct {
	standards []discount.Standard
	err       error
	calls     int
}

func (m *mockStandardRepo) ListActive(_ context.Context, _, _, _ string) ([]discount.Standard, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.standards, nil
}

func tenOff() []discount.Standard {
	return []discount.Standard{{
		ID:     "d1",
		Name:   "10% off",
		Kind:   discount.KindCart,
		Method: discount.MethodPercentage,
		Value:  decimal.NewFromInt(10),
	}}
}

func newTestCache(source discount.StandardRepository, ttl time.Duration) (*Cache, *time.Time) {
	c := New(source, ttl, zap.NewNop())
	now := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestListActiveCachesWithinTTL(t *testing.T) {
	repo := &mockStandardRepo{standards: tenOff()}
	c, now := newTestCache(repo, time.Minute)

	got, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, repo.calls)

	// Within the TTL the source is not consulted again.
	*now = now.Add(30 * time.Second)
	_, err = c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	// Past the TTL it is.
	*now = now.Add(31 * time.Second)
	_, err = c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestListActiveKeysByDeliveryType(t *testing.T) {
	repo := &mockStandardRepo{standards: tenOff()}
	c, _ := newTestCache(repo, time.Minute)

	_, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)
	_, err = c.ListActive(context.Background(), "brand-1", "loc-1", "pickup")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls, "each delivery type holds its own snapshot")
}

func TestListActiveServesStaleOnRefreshFailure(t *testing.T) {
	repo := &mockStandardRepo{standards: tenOff()}
	c, now := newTestCache(repo, time.Minute)

	_, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)

	repo.err = errors.New("db down")
	*now = now.Add(2 * time.Minute)

	got, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err, "a failed refresh must serve the stale snapshot")
	assert.Len(t, got, 1)
}

func TestListActiveFailsWithoutSnapshot(t *testing.T) {
	repo := &mockStandardRepo{err: errors.New("db down")}
	c, _ := newTestCache(repo, time.Minute)

	_, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	repo := &mockStandardRepo{standards: tenOff()}
	c, _ := newTestCache(repo, time.Minute)

	_, err := c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)

	c.Invalidate("brand-1", "loc-1", "delivery")

	_, err = c.ListActive(context.Background(), "brand-1", "loc-1", "delivery")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
