package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

type CreateSlotInput struct {
	ActorID  uint
	BarberID uint
	Date     time.Time
	Start    timeutil.TimeOfDay
	End      timeutil.TimeOfDay
	IsActive *bool
}

type CreateSlot struct {
	uow   domain.UnitOfWork
	clock timeutil.Clock
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewCreateSlot(
	uow domain.UnitOfWork,
	clock timeutil.Clock,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateSlot {
	return &CreateSlot{uow: uow, clock: clock, audit: audit, log: log}
}

func (uc *CreateSlot) Execute(ctx context.Context, in CreateSlotInput) (*models.BarberSchedule, error) {
	iv := sched.Interval{Start: in.Start, End: in.End}
	if !iv.Valid() {
		return nil, sched.ErrInvalidInterval
	}

	date := timeutil.DateOf(in.Date)
	if timeutil.Combine(date, iv.Start).Before(uc.clock.Now()) {
		return nil, sched.ErrSlotInPast
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	slot := &models.BarberSchedule{BarberID: in.BarberID, IsActive: active}
	sched.Apply(slot, date, iv)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		slots := tx.Schedules()

		ok, err := slots.LockBarber(ctx, in.BarberID)
		if err != nil {
			return httperr.Infra(err, "lock barber")
		}
		if !ok {
			return sched.ErrBarberNotFound
		}

		overlaps, err := sched.NewOverlapValidator(slots).Overlaps(ctx, in.BarberID, date, iv, nil)
		if err != nil {
			return httperr.Infra(err, "check overlap")
		}
		if overlaps {
			return sched.ErrSlotOverlaps
		}

		if err := slots.CreateSlot(ctx, slot); err != nil {
			return httperr.Infra(err, "create slot")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("schedule created",
		zap.Uint("schedule_id", slot.ID),
		zap.Uint("barber_id", slot.BarberID),
		zap.String("date", slot.Date.Format(timeutil.DateLayout)),
		zap.String("start", slot.StartTime),
		zap.String("end", slot.EndTime),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &slot.ID,
		Metadata: map[string]any{
			"barber_id": slot.BarberID,
			"date":      slot.Date.Format(timeutil.DateLayout),
			"start":     slot.StartTime,
			"end":       slot.EndTime,
		},
	})

	return slot, nil
}
