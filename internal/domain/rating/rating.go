package rating

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached rating lives without being read.
const DefaultTTL = 24 * time.Hour

// Rating is the average and count of approved reviews for one barber.
type Rating struct {
	Avg   float64 `json:"avg_rating"`
	Count int64   `json:"reviews_count"`
}

// WithApproval folds one newly approved rating into r.
func (r Rating) WithApproval(value int) Rating {
	return Rating{
		Avg:   (r.Avg*float64(r.Count) + float64(value)) / float64(r.Count+1),
		Count: r.Count + 1,
	}
}

// WithRemoval takes one approved rating out of r. Removing the last one
// resets to zero.
func (r Rating) WithRemoval(value int) Rating {
	if r.Count <= 1 {
		return Rating{}
	}
	return Rating{
		Avg:   (r.Avg*float64(r.Count) - float64(value)) / float64(r.Count-1),
		Count: r.Count - 1,
	}
}

type Op string

const (
	OpApprove Op = "approve"
	OpRemove  Op = "remove"
)

// Cache holds derived ratings. Entries are disposable: a miss always means
// "recompute from the store".
type Cache interface {
	Get(ctx context.Context, barberID uint) (Rating, bool, error)
	Set(ctx context.Context, barberID uint, r Rating, ttl time.Duration) error
	// Touch resets the TTL of an existing entry.
	Touch(ctx context.Context, barberID uint, ttl time.Duration) error
	Delete(ctx context.Context, barberID uint) error
	// Apply atomically folds one rating into an existing entry and resets
	// its TTL. It reports false, leaving nothing behind, when the entry is
	// absent.
	Apply(ctx context.Context, barberID uint, op Op, value int, ttl time.Duration) (Rating, bool, error)
}

// ReviewReader computes the authoritative aggregate from approved reviews.
type ReviewReader interface {
	ApprovedStats(ctx context.Context, barberID uint) (Rating, error)
}
