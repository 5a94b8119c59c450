package models

import "time"

// BarberSchedule is a bookable slot. StartTime and EndTime are "HH:MM"
// strings, so lexical order matches clock order.
type BarberSchedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"not null;index:idx_schedules_barber_date,priority:1" json:"barber_id"`

	Date      time.Time `gorm:"type:date;not null;index:idx_schedules_barber_date,priority:2" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`

	// No gorm default: a zero-value false must be written as-is.
	IsActive bool `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
