package dto

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ReviewDTO struct {
	ID             uint      `json:"id"`
	ClientID       uint      `json:"client_id"`
	ClientUsername string    `json:"client_username,omitempty"`
	BarberID       uint      `json:"barber_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromReview(m models.Review) ReviewDTO {
	var out ReviewDTO
	_ = copier.Copy(&out, &m)
	out.ClientUsername = m.Client.Username
	return out
}

func FromReviews(in []models.Review) []ReviewDTO {
	return mapSlice(in, FromReview)
}
