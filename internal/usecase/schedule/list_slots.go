package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

type ListSlotsInput struct {
	BarberID     *uint
	StartDate    *time.Time
	EndDate      *time.Time
	UpcomingOnly bool
}

type ListSlots struct {
	uow   domain.UnitOfWork
	clock timeutil.Clock
}

func NewListSlots(uow domain.UnitOfWork, clock timeutil.Clock) *ListSlots {
	return &ListSlots{uow: uow, clock: clock}
}

func (uc *ListSlots) Execute(ctx context.Context, in ListSlotsInput) ([]models.BarberSchedule, error) {
	f := sched.Filter{
		BarberID:  in.BarberID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if in.UpcomingOnly {
		today := timeutil.DateOf(uc.clock.Now())
		f.UpcomingFrom = &today
	}

	slots, err := uc.uow.Reader().Schedules().ListSlots(ctx, f)
	if err != nil {
		return nil, httperr.Infra(err, "list slots")
	}
	return slots, nil
}
