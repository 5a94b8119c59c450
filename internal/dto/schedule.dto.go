package dto

import (
	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ScheduleDTO struct {
	ID        uint   `json:"id"`
	BarberID  uint   `json:"barber_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

func FromSchedule(m models.BarberSchedule) ScheduleDTO {
	var out ScheduleDTO
	_ = copier.CopyWithOption(&out, &m, dateOnly)
	return out
}

func FromSchedules(in []models.BarberSchedule) []ScheduleDTO {
	return mapSlice(in, FromSchedule)
}
