package rating

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/testutil"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

type countingReader struct {
	inner rating.ReviewReader
	calls int
}

func (r *countingReader) ApprovedStats(ctx context.Context, barberID uint) (rating.Rating, error) {
	r.calls++
	return r.inner.ApprovedStats(ctx, barberID)
}

type brokenCache struct{ rating.Cache }

func (brokenCache) Get(context.Context, uint) (rating.Rating, bool, error) {
	return rating.Rating{}, false, errors.New("redis down")
}

func (brokenCache) Set(context.Context, uint, rating.Rating, time.Duration) error {
	return errors.New("redis down")
}

func (brokenCache) Delete(context.Context, uint) error { return errors.New("redis down") }

func (brokenCache) Apply(context.Context, uint, rating.Op, int, time.Duration) (rating.Rating, bool, error) {
	return rating.Rating{}, false, errors.New("redis down")
}

type env struct {
	store  *testutil.MemStore
	cache  *cache.RatingMemory
	reader *countingReader
	agg    *Aggregator
	barber *models.Barber
	client *models.User
}

func newEnv() *env {
	e := &env{store: testutil.NewMemStore()}
	e.cache = cache.NewRatingMemory(timeutil.NewFixedClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	e.reader = &countingReader{inner: e.store.Reader().Reviews()}
	e.agg = NewAggregator(e.cache, e.reader, rating.DefaultTTL, zap.NewNop())
	e.barber = e.store.AddBarber("Bob")
	e.client = e.store.AddUser("ann", "+15550000", models.RoleClient)
	return e
}

func TestRatingScenario(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.store.AddReview(e.client.ID, e.barber.ID, 4, true)
	e.store.AddReview(e.client.ID, e.barber.ID, 4, true)

	r, err := e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.Rating{Avg: 4, Count: 2}, r)

	pending := e.store.AddReview(e.client.ID, e.barber.ID, 5, false)
	pending.IsApproved = true
	require.NoError(t, e.store.Reader().Reviews().SaveReview(ctx, pending))
	require.NoError(t, e.agg.OnApproved(ctx, e.barber.ID, 5))

	r, err = e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.3333333333, r.Avg, 1e-9)
	assert.Equal(t, int64(3), r.Count)
	assert.Equal(t, 1, e.reader.calls, "incremental path must not recompute")

	require.NoError(t, e.store.Reader().Reviews().DeleteReview(ctx, pending.ID))
	require.NoError(t, e.agg.OnDeleted(ctx, e.barber.ID, 5, true))

	r, err = e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, r.Avg, 1e-9)
	assert.Equal(t, int64(2), r.Count)
}

func TestRatingMissIsIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.store.AddReview(e.client.ID, e.barber.ID, 3, true)

	first, err := e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)
	require.NoError(t, e.cache.Delete(ctx, e.barber.ID))
	second, err := e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, e.reader.calls)
}

func TestRatingHitDoesNotTouchStore(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.agg.RatingFor(ctx, e.barber.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.reader.calls)
}

func TestApprovalWithoutCacheEntryRecomputes(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.store.AddReview(e.client.ID, e.barber.ID, 2, true)

	require.NoError(t, e.agg.OnApproved(ctx, e.barber.ID, 2))
	assert.Equal(t, 1, e.reader.calls)

	cached, ok, _ := e.cache.Get(ctx, e.barber.ID)
	require.True(t, ok)
	assert.Equal(t, rating.Rating{Avg: 2, Count: 1}, cached)
}

func TestDeletingUnapprovedReviewIsNoop(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.cache.Set(ctx, e.barber.ID, rating.Rating{Avg: 4, Count: 2}, time.Hour))

	require.NoError(t, e.agg.OnDeleted(ctx, e.barber.ID, 1, false))

	cached, _, _ := e.cache.Get(ctx, e.barber.ID)
	assert.Equal(t, rating.Rating{Avg: 4, Count: 2}, cached)
	assert.Zero(t, e.reader.calls)
}

func TestDeletingLastReviewResetsToZero(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.cache.Set(ctx, e.barber.ID, rating.Rating{Avg: 5, Count: 1}, time.Hour))

	require.NoError(t, e.agg.OnDeleted(ctx, e.barber.ID, 5, true))
	cached, _, _ := e.cache.Get(ctx, e.barber.ID)
	assert.Equal(t, rating.Rating{}, cached)
}

func TestBrokenCacheFallsBackToStore(t *testing.T) {
	store := testutil.NewMemStore()
	b := store.AddBarber("Bob")
	c := store.AddUser("ann", "1", models.RoleClient)
	store.AddReview(c.ID, b.ID, 5, true)
	agg := NewAggregator(brokenCache{}, store.Reader().Reviews(), time.Hour, zap.NewNop())

	r, err := agg.RatingFor(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.Rating{Avg: 5, Count: 1}, r)

	assert.NoError(t, agg.OnApproved(context.Background(), b.ID, 5))
}

func TestStoreFailureIsInfrastructure(t *testing.T) {
	e := newEnv()
	e.store.SetFailure(errors.New("db gone"))

	_, err := e.agg.RatingFor(context.Background(), e.barber.ID)
	assert.True(t, httperr.IsInfrastructure(err))
}

func TestIncrementalTracksStoreAcrossRandomHistory(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(99))
	reviews := e.store.Reader().Reviews()

	_, err := e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)

	var approved []*models.Review
	for step := 0; step < 200; step++ {
		if len(approved) == 0 || rng.Intn(3) > 0 {
			rv := e.store.AddReview(e.client.ID, e.barber.ID, rng.Intn(5)+1, true)
			approved = append(approved, rv)
			require.NoError(t, e.agg.OnApproved(ctx, e.barber.ID, rv.Rating))
		} else {
			i := rng.Intn(len(approved))
			rv := approved[i]
			approved = append(approved[:i], approved[i+1:]...)
			require.NoError(t, reviews.DeleteReview(ctx, rv.ID))
			require.NoError(t, e.agg.OnDeleted(ctx, e.barber.ID, rv.Rating, true))
		}

		cached, ok, _ := e.cache.Get(ctx, e.barber.ID)
		require.True(t, ok)
		want, err := reviews.ApprovedStats(ctx, e.barber.ID)
		require.NoError(t, err)
		require.Equal(t, want.Count, cached.Count, "step %d", step)
		require.InDelta(t, want.Avg, cached.Avg, 1e-9, "step %d", step)
	}
}

func TestForgetDropsCachedRating(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.store.AddReview(e.client.ID, e.barber.ID, 5, true)

	_, err := e.agg.RatingFor(ctx, e.barber.ID)
	require.NoError(t, err)
	require.NoError(t, e.agg.Forget(ctx, e.barber.ID))

	_, ok, err := e.cache.Get(ctx, e.barber.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, NewAggregator(brokenCache{}, e.reader, rating.DefaultTTL, zap.NewNop()).Forget(ctx, e.barber.ID))
}
