package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

type ListInput struct {
	// ClientID restricts the list to one client's appointments.
	ClientID     *uint
	UpcomingOnly bool
	Skip         int
	Limit        int
}

type ListAppointments struct {
	uow   domain.UnitOfWork
	clock timeutil.Clock
}

func NewListAppointments(uow domain.UnitOfWork, clock timeutil.Clock) *ListAppointments {
	return &ListAppointments{uow: uow, clock: clock}
}

func (uc *ListAppointments) Execute(ctx context.Context, in ListInput) ([]models.Appointment, error) {
	f := appt.ListFilter{
		ClientID: in.ClientID,
		Offset:   max(in.Skip, 0),
		Limit:    in.Limit,
	}
	if f.Limit <= 0 || f.Limit > MaxLimit {
		f.Limit = DefaultLimit
	}
	if in.UpcomingOnly {
		now := uc.clock.Now()
		f.UpcomingFrom = &now
	}

	out, err := uc.uow.Reader().Appointments().ListAppointments(ctx, f)
	if err != nil {
		return nil, httperr.Infra(err, "list appointments")
	}
	return out, nil
}
