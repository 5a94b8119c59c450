package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

type CancelInput struct {
	ActorID       uint
	AppointmentID uint
}

// CancelAppointment deletes the appointment and returns its slot to the
// pool in one transaction.
type CancelAppointment struct {
	uow   domain.UnitOfWork
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewCancelAppointment(
	uow domain.UnitOfWork,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		uow:   uow,
		audit: audit,
		log:   log,
	}
}

func (uc *CancelAppointment) Execute(ctx context.Context, in CancelInput) error {
	var slotID uint

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		ap, err := tx.Appointments().GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return httperr.Infra(err, "load appointment")
		}
		if ap == nil {
			return appt.ErrAppointmentNotFound
		}

		// slot first, then appointment: same lock order as slot updates
		slot, err := tx.Schedules().GetSlotForUpdate(ctx, ap.ScheduleID)
		if err != nil {
			return httperr.Infra(err, "load slot")
		}
		if slot == nil {
			return appt.ErrScheduleNotFound
		}

		ap, err = tx.Appointments().GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return httperr.Infra(err, "lock appointment")
		}
		if ap == nil {
			return appt.ErrAppointmentNotFound
		}

		if err := tx.Appointments().DeleteAppointment(ctx, ap.ID); err != nil {
			return httperr.Infra(err, "delete appointment")
		}
		if err := tx.Schedules().ActivateSlot(ctx, slot.ID); err != nil {
			return httperr.Infra(err, "reactivate slot")
		}

		slotID = slot.ID
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info("appointment cancelled",
		zap.Uint("appointment_id", in.AppointmentID),
		zap.Uint("schedule_id", slotID),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &in.AppointmentID,
		Metadata: map[string]any{"schedule_id": slotID},
	})

	return nil
}
