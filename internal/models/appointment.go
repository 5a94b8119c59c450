package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduleID uint           `gorm:"not null;uniqueIndex" json:"schedule_id"`
	Schedule   BarberSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	BarberID uint   `gorm:"not null;index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClientID *uint `gorm:"index" json:"client_id"`
	Client   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`

	AppointmentTime time.Time `gorm:"not null;index" json:"appointment_time"`
	Status          string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
