package schedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

type DeleteSlotInput struct {
	ActorID  uint
	Mode     Mode
	SlotID   uint
	BarberID uint
}

type DeleteSlot struct {
	uow   domain.UnitOfWork
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewDeleteSlot(uow domain.UnitOfWork, audit *audit.Dispatcher, log *zap.Logger) *DeleteSlot {
	return &DeleteSlot{uow: uow, audit: audit, log: log}
}

func (uc *DeleteSlot) Execute(ctx context.Context, in DeleteSlotInput) error {
	var barberID uint

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		slot, err := tx.Schedules().GetSlotForUpdate(ctx, in.SlotID)
		if err != nil {
			return httperr.Infra(err, "load slot")
		}
		if slot == nil || (in.Mode == AsBarber && slot.BarberID != in.BarberID) {
			return sched.ErrSlotNotFound
		}
		if !slot.IsActive {
			return sched.ErrSlotBooked
		}

		if err := tx.Schedules().DeleteSlot(ctx, slot.ID); err != nil {
			return httperr.Infra(err, "delete slot")
		}
		barberID = slot.BarberID
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info("schedule deleted", zap.Uint("schedule_id", in.SlotID), zap.Uint("barber_id", barberID))

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &in.SlotID,
		Metadata: map[string]any{"barber_id": barberID},
	})
	return nil
}
