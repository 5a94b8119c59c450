package domain

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
)

// Tx exposes the repositories bound to one session.
type Tx interface {
	Schedules() schedule.Repository
	Appointments() appointment.Repository
	Reviews() review.Repository
	Barbers() barber.Repository
	Users() identity.Repository
}

// UnitOfWork runs fn in a transaction. Returning an error from fn rolls
// back every write made through tx.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reader gives non-transactional access for queries.
	Reader() Tx
}
