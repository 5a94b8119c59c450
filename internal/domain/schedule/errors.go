package schedule

import "github.com/BruksfildServices01/barbershop-booking/internal/httperr"

var (
	ErrSlotNotFound      = httperr.New(httperr.KindNotFound, "schedule_not_found", "Schedule not found")
	ErrBarberNotFound    = httperr.New(httperr.KindNotFound, "barber_not_found", "Barber not found")
	ErrSlotInPast        = httperr.New(httperr.KindPastTime, "schedule_in_past", "Cannot create a schedule in the past")
	ErrSlotOverlaps      = httperr.New(httperr.KindConflict, "schedule_overlaps", "Schedule overlaps with an existing schedule")
	ErrSlotBooked        = httperr.New(httperr.KindConflict, "schedule_booked", "Cannot delete schedule: it is already booked")
	ErrSlotAlreadyBooked = httperr.New(httperr.KindConflict, "schedule_already_booked", "Schedule is already booked and cannot be changed")
	ErrInvalidInterval   = httperr.New(httperr.KindValidation, "invalid_interval", "End time must be after start time")
)
