package dto

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AppointmentDTO struct {
	ID              uint      `json:"id"`
	ScheduleID      uint      `json:"schedule_id"`
	BarberID        uint      `json:"barber_id"`
	ClientID        *uint     `json:"client_id"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	AppointmentTime time.Time `json:"appointment_time"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromAppointment(m models.Appointment) AppointmentDTO {
	var out AppointmentDTO
	_ = copier.Copy(&out, &m)
	return out
}

func FromAppointments(in []models.Appointment) []AppointmentDTO {
	return mapSlice(in, FromAppointment)
}
