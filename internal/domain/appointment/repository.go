package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ListFilter struct {
	ClientID     *uint
	BarberID     *uint
	UpcomingFrom *time.Time
	Offset       int
	Limit        int
}

// Repository reads return (nil, nil) when no row matches.
type Repository interface {
	// -------- Appointment (create / delete) --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uint) error

	// -------- Appointment (read) --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentBySlot(ctx context.Context, slotID uint) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// -------- Appointment (slot move) --------
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
}
