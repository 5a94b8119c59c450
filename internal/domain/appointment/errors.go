package appointment

import "github.com/BruksfildServices01/barbershop-booking/internal/httperr"

var (
	ErrSlotUnavailable     = httperr.New(httperr.KindConflict, "slot_unavailable", "Selected time slot is not available")
	ErrContactRequired     = httperr.New(httperr.KindValidation, "contact_required", "Name and phone are required")
	ErrUserNotFound        = httperr.New(httperr.KindValidation, "user_not_found", "User not found")
	ErrAppointmentNotFound = httperr.New(httperr.KindNotFound, "appointment_not_found", "Appointment not found")
	ErrScheduleNotFound    = httperr.New(httperr.KindNotFound, "related_schedule_not_found", "Related schedule not found")
)
