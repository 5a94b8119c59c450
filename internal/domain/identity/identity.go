package identity

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

var (
	ErrInvalidCredentials = httperr.New(httperr.KindValidation, "invalid_credentials", "Invalid username or password")
	ErrUsernameTaken      = httperr.New(httperr.KindConflict, "username_taken", "Username already registered")
	ErrUserNotFound       = httperr.New(httperr.KindNotFound, "user_not_found", "User not found")
)

// Repository reads return (nil, nil) when no row matches.
type Repository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
}
