package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type Filter struct {
	BarberID     *uint
	StartDate    *time.Time
	EndDate      *time.Time
	OnlyActive   bool
	UpcomingFrom *time.Time
}

// Repository reads return (nil, nil) when no row matches.
type Repository interface {
	// -------- Barber --------
	// LockBarber takes a row lock on the barber for the rest of the
	// transaction. Returns false when the barber does not exist.
	LockBarber(ctx context.Context, barberID uint) (bool, error)

	// -------- Slot (read) --------
	GetSlot(ctx context.Context, id uint) (*models.BarberSchedule, error)
	GetSlotForUpdate(ctx context.Context, id uint) (*models.BarberSchedule, error)
	ListSlotsForDay(ctx context.Context, barberID uint, date time.Time) ([]models.BarberSchedule, error)
	ListSlots(ctx context.Context, f Filter) ([]models.BarberSchedule, error)

	// -------- Slot (write) --------
	CreateSlot(ctx context.Context, s *models.BarberSchedule) error
	SaveSlot(ctx context.Context, s *models.BarberSchedule) error
	DeleteSlot(ctx context.Context, id uint) error

	// DeactivateSlot flips is_active to false only if it is currently true.
	// Returns false when no row changed.
	DeactivateSlot(ctx context.Context, id uint) (bool, error)
	ActivateSlot(ctx context.Context, id uint) error
}
