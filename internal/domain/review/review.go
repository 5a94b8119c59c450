package review

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrReviewNotFound  = httperr.New(httperr.KindNotFound, "review_not_found", "Review not found")
	ErrAlreadyApproved = httperr.New(httperr.KindConflict, "review_already_approved", "Review already approved")
	ErrInvalidRating   = httperr.New(httperr.KindValidation, "invalid_rating", "Rating must be between 1 and 5")
)

func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

type ListFilter struct {
	ClientID       *uint
	BarberID       *uint
	OnlyApproved   bool
	OnlyUnapproved bool
	Offset         int
	Limit          int
}

// Repository reads return (nil, nil) when no row matches.
type Repository interface {
	rating.ReviewReader

	CreateReview(ctx context.Context, r *models.Review) error
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	GetReviewForUpdate(ctx context.Context, id uint) (*models.Review, error)
	SaveReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id uint) error
	// ListReviews preloads the reviewing client.
	ListReviews(ctx context.Context, f ListFilter) ([]models.Review, error)
}
