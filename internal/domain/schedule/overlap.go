package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// SlotReader is the part of Repository the validator needs.
type SlotReader interface {
	ListSlotsForDay(ctx context.Context, barberID uint, date time.Time) ([]models.BarberSchedule, error)
}

// OverlapValidator checks a candidate interval against every slot the
// barber has on that date, active or not.
type OverlapValidator struct {
	slots SlotReader
}

func NewOverlapValidator(slots SlotReader) *OverlapValidator {
	return &OverlapValidator{slots: slots}
}

// Overlaps reports whether iv intersects any slot of barberID on date.
// excludeID, when non-nil, skips that slot (used on update).
func (v *OverlapValidator) Overlaps(
	ctx context.Context,
	barberID uint,
	date time.Time,
	iv Interval,
	excludeID *uint,
) (bool, error) {

	existing, err := v.slots.ListSlotsForDay(ctx, barberID, date)
	if err != nil {
		return false, err
	}

	for i := range existing {
		s := &existing[i]
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		other, err := IntervalOf(s)
		if err != nil {
			return false, err
		}
		if Overlaps(iv, other) {
			return true, nil
		}
	}
	return false, nil
}
