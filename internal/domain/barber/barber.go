package barber

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

var (
	ErrBarberNotFound   = httperr.New(httperr.KindNotFound, "barber_not_found", "Barber not found")
	ErrNoBarberProfile  = httperr.New(httperr.KindNotFound, "barber_profile_not_found", "Barber profile not found")
	ErrAlreadyBarber    = httperr.New(httperr.KindConflict, "barber_already_exists", "User already has a barber profile")
	ErrNoAvatar         = httperr.New(httperr.KindNotFound, "avatar_not_found", "Barber has no avatar to delete")
	ErrInvalidImageType = httperr.New(httperr.KindValidation, "invalid_image", "File must be an image")
)

// Repository reads return (nil, nil) when no row matches.
type Repository interface {
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
	ListBarbers(ctx context.Context) ([]models.Barber, error)
	CreateBarber(ctx context.Context, b *models.Barber) error
	SaveBarber(ctx context.Context, b *models.Barber) error
	// DeleteBarber removes the barber together with its appointments,
	// slots and reviews.
	DeleteBarber(ctx context.Context, id uint) error
}
