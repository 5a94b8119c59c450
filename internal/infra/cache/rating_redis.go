package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
)

// RatingRedis stores each barber's rating as a hash {avg, count}.
type RatingRedis struct {
	rdb *redis.Client
}

var _ rating.Cache = (*RatingRedis)(nil)

func NewRatingRedis(rdb *redis.Client) *RatingRedis {
	return &RatingRedis{rdb: rdb}
}

func ratingKey(barberID uint) string {
	return fmt.Sprintf("barber:rating:%d", barberID)
}

// applyScript folds one rating into an existing entry server-side, so two
// concurrent approvals cannot read the same (avg, count). Returns nil when
// the entry is missing or unreadable; the caller recomputes in that case.
var applyScript = redis.NewScript(`
	local key = KEYS[1]
	if redis.call('EXISTS', key) == 0 then
		return false
	end

	local avg = tonumber(redis.call('HGET', key, 'avg'))
	local count = tonumber(redis.call('HGET', key, 'count'))
	if avg == nil or count == nil then
		redis.call('DEL', key)
		return false
	end

	local value = tonumber(ARGV[1])
	local op = ARGV[2]
	local ttl = tonumber(ARGV[3])

	if op == 'approve' then
		avg = (avg * count + value) / (count + 1)
		count = count + 1
	elseif count > 1 then
		avg = (avg * count - value) / (count - 1)
		count = count - 1
	else
		avg = 0
		count = 0
	end

	local avgStr = string.format('%.17g', avg)
	local countStr = string.format('%d', count)
	redis.call('HSET', key, 'avg', avgStr, 'count', countStr)
	redis.call('EXPIRE', key, ttl)
	return { avgStr, countStr }
`)

func (c *RatingRedis) Get(ctx context.Context, barberID uint) (rating.Rating, bool, error) {
	vals, err := c.rdb.HGetAll(ctx, ratingKey(barberID)).Result()
	if err != nil {
		return rating.Rating{}, false, errors.Wrap(err, "redis hgetall")
	}
	if len(vals) == 0 {
		return rating.Rating{}, false, nil
	}

	r, err := parseRating(vals["avg"], vals["count"])
	if err != nil {
		// unreadable entry counts as a miss
		return rating.Rating{}, false, nil
	}
	return r, true, nil
}

func (c *RatingRedis) Set(ctx context.Context, barberID uint, r rating.Rating, ttl time.Duration) error {
	key := ratingKey(barberID)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"avg", strconv.FormatFloat(r.Avg, 'g', 17, 64),
			"count", strconv.FormatInt(r.Count, 10),
		)
		p.Expire(ctx, key, ttl)
		return nil
	})
	return errors.Wrap(err, "redis set rating")
}

func (c *RatingRedis) Touch(ctx context.Context, barberID uint, ttl time.Duration) error {
	return errors.Wrap(c.rdb.Expire(ctx, ratingKey(barberID), ttl).Err(), "redis expire")
}

func (c *RatingRedis) Delete(ctx context.Context, barberID uint) error {
	return errors.Wrap(c.rdb.Del(ctx, ratingKey(barberID)).Err(), "redis del")
}

func (c *RatingRedis) Apply(ctx context.Context, barberID uint, op rating.Op, value int, ttl time.Duration) (rating.Rating, bool, error) {
	res, err := applyScript.Run(ctx, c.rdb,
		[]string{ratingKey(barberID)},
		value, string(op), int64(ttl/time.Second),
	).Result()
	if errors.Is(err, redis.Nil) {
		return rating.Rating{}, false, nil
	}
	if err != nil {
		return rating.Rating{}, false, errors.Wrap(err, "redis apply rating")
	}

	pair, ok := res.([]interface{})
	if !ok || len(pair) != 2 {
		return rating.Rating{}, false, errors.Newf("unexpected script result %v", res)
	}
	avg, _ := pair[0].(string)
	count, _ := pair[1].(string)
	r, err := parseRating(avg, count)
	if err != nil {
		return rating.Rating{}, false, err
	}
	return r, true, nil
}

func parseRating(avg, count string) (rating.Rating, error) {
	a, err := strconv.ParseFloat(avg, 64)
	if err != nil {
		return rating.Rating{}, errors.Wrap(err, "parse avg")
	}
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return rating.Rating{}, errors.Wrap(err, "parse count")
	}
	return rating.Rating{Avg: a, Count: n}, nil
}
