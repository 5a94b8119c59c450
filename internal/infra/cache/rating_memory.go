package cache

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// RatingMemory is a process-local rating.Cache, used when Redis is disabled
// and in tests.
type RatingMemory struct {
	mu      sync.Mutex
	clock   timeutil.Clock
	entries map[uint]memEntry
}

type memEntry struct {
	r       rating.Rating
	expires time.Time
}

var _ rating.Cache = (*RatingMemory)(nil)

func NewRatingMemory(clock timeutil.Clock) *RatingMemory {
	return &RatingMemory{clock: clock, entries: map[uint]memEntry{}}
}

// live returns the entry if present and unexpired. Caller holds mu.
func (c *RatingMemory) live(barberID uint) (memEntry, bool) {
	e, ok := c.entries[barberID]
	if !ok {
		return memEntry{}, false
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.entries, barberID)
		return memEntry{}, false
	}
	return e, true
}

func (c *RatingMemory) Get(_ context.Context, barberID uint) (rating.Rating, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(barberID)
	return e.r, ok, nil
}

func (c *RatingMemory) Set(_ context.Context, barberID uint, r rating.Rating, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[barberID] = memEntry{r: r, expires: c.clock.Now().Add(ttl)}
	return nil
}

func (c *RatingMemory) Touch(_ context.Context, barberID uint, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.live(barberID); ok {
		e.expires = c.clock.Now().Add(ttl)
		c.entries[barberID] = e
	}
	return nil
}

func (c *RatingMemory) Delete(_ context.Context, barberID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, barberID)
	return nil
}

func (c *RatingMemory) Apply(_ context.Context, barberID uint, op rating.Op, value int, ttl time.Duration) (rating.Rating, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(barberID)
	if !ok {
		return rating.Rating{}, false, nil
	}
	if op == rating.OpApprove {
		e.r = e.r.WithApproval(value)
	} else {
		e.r = e.r.WithRemoval(value)
	}
	e.expires = c.clock.Now().Add(ttl)
	c.entries[barberID] = e
	return e.r, true, nil
}
