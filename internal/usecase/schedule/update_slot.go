package schedule

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// Mode selects who is acting on a slot.
type Mode int

const (
	// AsBarber scopes the operation to the barber's own slots.
	AsBarber Mode = iota
	// AsAdmin acts on any slot.
	AsAdmin
)

type UpdateSlotInput struct {
	ActorID  uint
	Mode     Mode
	SlotID   uint
	BarberID uint // owner, checked in AsBarber mode

	Date     *time.Time
	Start    *timeutil.TimeOfDay
	End      *timeutil.TimeOfDay
	IsActive *bool

	// NewBarberID moves the slot to another barber. AsAdmin only.
	NewBarberID *uint
}

type UpdateSlot struct {
	uow   domain.UnitOfWork
	clock timeutil.Clock
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewUpdateSlot(
	uow domain.UnitOfWork,
	clock timeutil.Clock,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UpdateSlot {
	return &UpdateSlot{uow: uow, clock: clock, audit: audit, log: log}
}

func (uc *UpdateSlot) Execute(ctx context.Context, in UpdateSlotInput) (*models.BarberSchedule, error) {
	var (
		updated *models.BarberSchedule
		moved   *models.Appointment
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		slots := tx.Schedules()

		slot, err := slots.GetSlotForUpdate(ctx, in.SlotID)
		if err != nil {
			return httperr.Infra(err, "load slot")
		}
		// Loaded unscoped; ownership is asserted here so another barber's
		// slot looks exactly like a missing one.
		if slot == nil || (in.Mode == AsBarber && slot.BarberID != in.BarberID) {
			return sched.ErrSlotNotFound
		}

		ap, err := tx.Appointments().GetAppointmentBySlot(ctx, slot.ID)
		if err != nil {
			return httperr.Infra(err, "load slot appointment")
		}
		if ap != nil && in.Mode == AsBarber {
			return sched.ErrSlotAlreadyBooked
		}

		iv, err := sched.IntervalOf(slot)
		if err != nil {
			return httperr.Infra(err, "read slot bounds")
		}
		date := slot.Date
		if in.Date != nil {
			date = timeutil.DateOf(*in.Date)
		}
		if in.Start != nil {
			iv.Start = *in.Start
		}
		if in.End != nil {
			iv.End = *in.End
		}
		if !iv.Valid() {
			return sched.ErrInvalidInterval
		}
		if timeutil.Combine(date, iv.Start).Before(uc.clock.Now()) {
			return sched.ErrSlotInPast
		}

		target := slot.BarberID
		if in.Mode == AsAdmin && in.NewBarberID != nil {
			target = *in.NewBarberID
		}

		for _, id := range lockOrder(slot.BarberID, target) {
			ok, err := slots.LockBarber(ctx, id)
			if err != nil {
				return httperr.Infra(err, "lock barber")
			}
			if !ok {
				return sched.ErrBarberNotFound
			}
		}

		overlaps, err := sched.NewOverlapValidator(slots).Overlaps(ctx, target, date, iv, &slot.ID)
		if err != nil {
			return httperr.Infra(err, "check overlap")
		}
		if overlaps {
			return sched.ErrSlotOverlaps
		}

		if in.IsActive != nil {
			if ap != nil && *in.IsActive {
				return sched.ErrSlotAlreadyBooked
			}
			slot.IsActive = *in.IsActive
		}

		slot.BarberID = target
		sched.Apply(slot, date, iv)
		if err := slots.SaveSlot(ctx, slot); err != nil {
			return httperr.Infra(err, "save slot")
		}

		if ap != nil {
			ap.AppointmentTime = timeutil.Combine(date, iv.Start)
			ap.BarberID = target
			if err := tx.Appointments().UpdateAppointment(ctx, ap); err != nil {
				return httperr.Infra(err, "move appointment")
			}
			moved = ap
		}

		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Uint("schedule_id", updated.ID),
		zap.Uint("barber_id", updated.BarberID),
	}
	if moved != nil {
		fields = append(fields, zap.Uint("appointment_id", moved.ID), zap.Time("appointment_time", moved.AppointmentTime))
	}
	uc.log.Info("schedule updated", fields...)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "schedule_updated",
		Entity:   "schedule",
		EntityID: &updated.ID,
		Metadata: map[string]any{
			"barber_id":         updated.BarberID,
			"date":              updated.Date.Format(timeutil.DateLayout),
			"start":             updated.StartTime,
			"end":               updated.EndTime,
			"appointment_moved": moved != nil,
		},
	})

	return updated, nil
}

// lockOrder returns the distinct barber ids ascending, so concurrent moves
// between the same two barbers take their locks in the same order.
func lockOrder(ids ...uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
