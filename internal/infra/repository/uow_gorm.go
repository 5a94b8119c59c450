package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
)

// GormUnitOfWork runs use-case transactions on one *gorm.DB session.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, gormTx{db: tx})
	})
}

func (u *GormUnitOfWork) Reader() domain.Tx {
	return gormTx{db: u.db}
}

type gormTx struct {
	db *gorm.DB
}

func (t gormTx) Schedules() schedule.Repository       { return NewScheduleGormRepository(t.db) }
func (t gormTx) Appointments() appointment.Repository { return NewAppointmentGormRepository(t.db) }
func (t gormTx) Reviews() review.Repository           { return NewReviewGormRepository(t.db) }
func (t gormTx) Barbers() barber.Repository           { return NewBarberGormRepository(t.db) }
func (t gormTx) Users() identity.Repository           { return NewUserGormRepository(t.db) }

// Compile-time check
var _ domain.UnitOfWork = (*GormUnitOfWork)(nil)
