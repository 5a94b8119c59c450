package rating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

// Aggregator serves per-barber ratings cache-aside and keeps cached entries
// in step with review approvals and deletions. The review store is always
// authoritative: any cache problem degrades to a recompute.
type Aggregator struct {
	cache   rating.Cache
	reviews rating.ReviewReader
	ttl     time.Duration
	log     *zap.Logger
}

func NewAggregator(
	cache rating.Cache,
	reviews rating.ReviewReader,
	ttl time.Duration,
	log *zap.Logger,
) *Aggregator {
	if ttl <= 0 {
		ttl = rating.DefaultTTL
	}
	return &Aggregator{cache: cache, reviews: reviews, ttl: ttl, log: log}
}

func (a *Aggregator) RatingFor(ctx context.Context, barberID uint) (rating.Rating, error) {
	r, ok, err := a.cache.Get(ctx, barberID)
	switch {
	case err != nil:
		a.log.Warn("rating cache read failed", zap.Uint("barber_id", barberID), zap.Error(err))
	case ok:
		if err := a.cache.Touch(ctx, barberID, a.ttl); err != nil {
			a.log.Warn("rating cache touch failed", zap.Uint("barber_id", barberID), zap.Error(err))
		}
		a.log.Debug("rating served from cache", zap.Uint("barber_id", barberID))
		return r, nil
	}

	return a.recompute(ctx, barberID)
}

// OnApproved folds a newly approved review into the cached rating.
func (a *Aggregator) OnApproved(ctx context.Context, barberID uint, value int) error {
	return a.apply(ctx, barberID, rating.OpApprove, value)
}

// OnDeleted removes a deleted review from the cached rating. Unapproved
// reviews never counted, so they are ignored.
func (a *Aggregator) OnDeleted(ctx context.Context, barberID uint, value int, wasApproved bool) error {
	if !wasApproved {
		return nil
	}
	return a.apply(ctx, barberID, rating.OpRemove, value)
}

// Forget drops the cached rating of a barber that no longer exists.
func (a *Aggregator) Forget(ctx context.Context, barberID uint) error {
	return a.cache.Delete(ctx, barberID)
}

func (a *Aggregator) apply(ctx context.Context, barberID uint, op rating.Op, value int) error {
	r, ok, err := a.cache.Apply(ctx, barberID, op, value, a.ttl)
	if err == nil && ok {
		a.log.Info("rating updated in cache",
			zap.Uint("barber_id", barberID),
			zap.String("op", string(op)),
			zap.Float64("avg", r.Avg),
			zap.Int64("count", r.Count),
		)
		return nil
	}
	if err != nil {
		a.log.Warn("rating cache update failed, recomputing", zap.Uint("barber_id", barberID), zap.Error(err))
		if err := a.cache.Delete(ctx, barberID); err != nil {
			a.log.Warn("rating cache evict failed", zap.Uint("barber_id", barberID), zap.Error(err))
		}
	}

	_, err = a.recompute(ctx, barberID)
	return err
}

func (a *Aggregator) recompute(ctx context.Context, barberID uint) (rating.Rating, error) {
	r, err := a.reviews.ApprovedStats(ctx, barberID)
	if err != nil {
		return rating.Rating{}, httperr.Infra(err, "compute rating")
	}

	if err := a.cache.Set(ctx, barberID, r, a.ttl); err != nil {
		a.log.Warn("rating cache write failed", zap.Uint("barber_id", barberID), zap.Error(err))
	}
	a.log.Info("rating computed from store",
		zap.Uint("barber_id", barberID),
		zap.Float64("avg", r.Avg),
		zap.Int64("count", r.Count),
	)
	return r, nil
}
