package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"not null;index" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	BarberID uint   `gorm:"not null;index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Rating     int    `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment    string `gorm:"type:text" json:"comment"`
	IsApproved bool   `gorm:"not null;default:false" json:"is_approved"`

	CreatedAt time.Time `json:"created_at"`
}
