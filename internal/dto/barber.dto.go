package dto

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
)

type BarberDTO struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	FullName     string  `json:"full_name"`
	AvatarURL    string  `json:"avatar_url"`
	AvgRating    float64 `json:"avg_rating"`
	ReviewsCount int64   `json:"reviews_count"`
}

// BarberProfileDTO is the unrated view used by the barber and admin screens.
type BarberProfileDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BarberDetailsDTO struct {
	BarberDTO
	Reviews []ReviewDTO `json:"reviews"`
}

type AvailableBarberDTO struct {
	BarberDTO
	Slots []ScheduleDTO `json:"available_slots"`
}

func FromBarber(m models.Barber, r rating.Rating) BarberDTO {
	var out BarberDTO
	_ = copier.Copy(&out, &m)
	out.AvgRating = r.Avg
	out.ReviewsCount = r.Count
	return out
}

func FromBarberProfile(m models.Barber) BarberProfileDTO {
	var out BarberProfileDTO
	_ = copier.Copy(&out, &m)
	return out
}

func FromBarbersWithRating(in []ucbarber.WithRating) []BarberDTO {
	return mapSlice(in, func(b ucbarber.WithRating) BarberDTO {
		return FromBarber(b.Barber, b.Rating)
	})
}

func FromBarberDetails(d ucbarber.Details) BarberDetailsDTO {
	return BarberDetailsDTO{
		BarberDTO: FromBarber(d.Barber, d.Rating),
		Reviews:   FromReviews(d.Reviews),
	}
}

func FromAvailable(in []ucbarber.WithSlots) []AvailableBarberDTO {
	return mapSlice(in, func(b ucbarber.WithSlots) AvailableBarberDTO {
		return AvailableBarberDTO{
			BarberDTO: FromBarber(b.Barber, b.Rating),
			Slots:     FromSchedules(b.Slots),
		}
	})
}
