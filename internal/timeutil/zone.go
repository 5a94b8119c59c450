package timeutil

import "time"

func IsValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to UTC for an unknown zone.
func Location(tz string) *time.Location {
	if IsValidTimezone(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// ClockFor returns RealClock for UTC (or no zone) and a ShopClock otherwise.
func ClockFor(tz string) Clock {
	if tz == "" || tz == "UTC" {
		return RealClock{}
	}
	return NewShopClock(tz)
}

// ShopClock reports the shop's wall time labelled as UTC, the same frame
// slot dates and HH:MM times are stored in.
type ShopClock struct {
	loc *time.Location
}

func NewShopClock(tz string) ShopClock {
	return ShopClock{loc: Location(tz)}
}

func (c ShopClock) Now() time.Time {
	return WallUTC(time.Now(), c.loc)
}

// WallUTC keeps t's wall clock in loc and drops the offset.
func WallUTC(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), time.UTC)
}
