package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	SlotID uint
	// BarberID, when non-zero, must own the slot.
	BarberID uint
	Booker   appt.Booker
	// ByAdmin books on behalf of a walk-in: name and phone are always
	// required and no client account is linked.
	ByAdmin bool
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	uow          domain.UnitOfWork
	notifier     appt.Notifier
	clock        timeutil.Clock
	audit        *audit.Dispatcher
	log          *zap.Logger
	reminderLead time.Duration
}

func NewBookAppointment(
	uow domain.UnitOfWork,
	notifier appt.Notifier,
	clock timeutil.Clock,
	audit *audit.Dispatcher,
	log *zap.Logger,
	reminderLead time.Duration,
) *BookAppointment {
	if reminderLead <= 0 {
		reminderLead = appt.ReminderLead
	}
	return &BookAppointment{
		uow:          uow,
		notifier:     notifier,
		clock:        clock,
		audit:        audit,
		log:          log,
		reminderLead: reminderLead,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(ctx context.Context, in BookInput) (*models.Appointment, error) {
	var created models.Appointment

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {

		// --------------------------------------------------
		// 1. Slot, row-locked for the rest of the transaction
		// --------------------------------------------------
		slot, err := tx.Schedules().GetSlotForUpdate(ctx, in.SlotID)
		if err != nil {
			return httperr.Infra(err, "load slot")
		}
		if slot == nil || !slot.IsActive {
			return appt.ErrSlotUnavailable
		}
		if in.BarberID != 0 && slot.BarberID != in.BarberID {
			return appt.ErrSlotUnavailable
		}

		// --------------------------------------------------
		// 2. Identity
		// --------------------------------------------------
		contact, err := uc.resolveContact(ctx, tx, in)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 3. Appointment time
		// --------------------------------------------------
		at, err := sched.StartsAt(slot)
		if err != nil {
			return httperr.Infra(err, "read slot bounds")
		}

		// --------------------------------------------------
		// 4. Claim: insert + conditional deactivate
		// --------------------------------------------------
		ap := models.Appointment{
			ScheduleID:      slot.ID,
			BarberID:        slot.BarberID,
			ClientID:        contact.ClientID,
			ClientName:      contact.Name,
			ClientPhone:     contact.Phone,
			AppointmentTime: at,
			Status:          string(appt.InitialStatus()),
		}
		if err := tx.Appointments().CreateAppointment(ctx, &ap); err != nil {
			if httperr.IsUniqueViolation(err) {
				return appt.ErrSlotUnavailable
			}
			return httperr.Infra(err, "create appointment")
		}

		claimed, err := tx.Schedules().DeactivateSlot(ctx, slot.ID)
		if err != nil {
			return httperr.Infra(err, "deactivate slot")
		}
		if !claimed {
			return appt.ErrSlotUnavailable
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("appointment created",
		zap.Uint("appointment_id", created.ID),
		zap.Uint("schedule_id", created.ScheduleID),
		zap.Uint("barber_id", created.BarberID),
		zap.Time("appointment_time", created.AppointmentTime),
	)

	// --------------------------------------------------
	// 5. Notifications, after commit
	// --------------------------------------------------
	uc.notify(ctx, &created)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"schedule_id":      created.ScheduleID,
			"barber_id":        created.BarberID,
			"appointment_time": created.AppointmentTime,
			"by_admin":         in.ByAdmin,
		},
	})

	return &created, nil
}

func (uc *BookAppointment) resolveContact(ctx context.Context, tx domain.Tx, in BookInput) (appt.Contact, error) {
	if in.ByAdmin || !in.Booker.IsAuthenticated() {
		return appt.ContactFromDetails(in.Booker.Name, in.Booker.Phone)
	}

	user, err := tx.Users().GetUser(ctx, *in.Booker.UserID)
	if err != nil {
		return appt.Contact{}, httperr.Infra(err, "load user")
	}
	if user == nil {
		return appt.Contact{}, appt.ErrUserNotFound
	}
	return appt.ContactFromUser(user), nil
}

// notify never fails the booking: delivery problems are only logged.
func (uc *BookAppointment) notify(ctx context.Context, ap *models.Appointment) {
	if err := uc.notifier.SendNow(ctx, ap.ClientPhone, appt.ConfirmationMessage(ap.ClientName, ap.AppointmentTime)); err != nil {
		uc.log.Warn("confirmation sms not queued", zap.Uint("appointment_id", ap.ID), zap.Error(err))
	}

	delay, ok := appt.ReminderDelay(ap.AppointmentTime, uc.clock.Now(), uc.reminderLead)
	if !ok {
		return
	}
	if err := uc.notifier.SendAt(ctx, ap.ClientPhone, appt.ReminderMessage(ap.ClientName, ap.AppointmentTime), delay); err != nil {
		uc.log.Warn("reminder sms not queued", zap.Uint("appointment_id", ap.ID), zap.Error(err))
		return
	}
	uc.log.Info("reminder scheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.Time("send_at", ap.AppointmentTime.Add(-uc.reminderLead)),
	)
}
