package schedule

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// Interval is a half-open [Start, End) range within one day.
type Interval struct {
	Start timeutil.TimeOfDay
	End   timeutil.TimeOfDay
}

func (i Interval) Valid() bool {
	return i.Start.Valid() && i.End.Valid() && i.Start < i.End
}

// Overlaps reports whether a and b share any minute. Touching boundaries
// (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	switch {
	case b.Start <= a.Start && a.Start < b.End:
		return true
	case b.Start < a.End && a.End <= b.End:
		return true
	case a.Start <= b.Start && a.End >= b.End:
		return true
	}
	return false
}

// IntervalOf reads the stored bounds of a slot.
func IntervalOf(s *models.BarberSchedule) (Interval, error) {
	start, err := timeutil.ParseTimeOfDay(s.StartTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := timeutil.ParseTimeOfDay(s.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// StartsAt is the UTC instant the slot begins.
func StartsAt(s *models.BarberSchedule) (time.Time, error) {
	iv, err := IntervalOf(s)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.Combine(s.Date, iv.Start), nil
}

func Apply(s *models.BarberSchedule, date time.Time, iv Interval) {
	s.Date = timeutil.DateOf(date)
	s.StartTime = iv.Start.String()
	s.EndTime = iv.End.String()
}
