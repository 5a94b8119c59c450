package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type BarberGormRepository struct {
	db *gorm.DB
}

func NewBarberGormRepository(db *gorm.DB) *BarberGormRepository {
	return &BarberGormRepository{db: db}
}

func (r *BarberGormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	return first[models.Barber](r.db.WithContext(ctx), id)
}

func (r *BarberGormRepository) GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error) {
	return first[models.Barber](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *BarberGormRepository) ListBarbers(ctx context.Context) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *BarberGormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BarberGormRepository) SaveBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

// DeleteBarber deletes dependants first so the removal does not depend on
// how the foreign keys were migrated.
func (r *BarberGormRepository) DeleteBarber(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	for _, dep := range []any{&models.Appointment{}, &models.Review{}, &models.BarberSchedule{}} {
		if err := db.Where("barber_id = ?", id).Delete(dep).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.Barber{}, id).Error
}

// Compile-time check
var _ barber.Repository = (*BarberGormRepository)(nil)
