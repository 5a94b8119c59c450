package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx), id)
}

func (r *UserGormRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *UserGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserGormRepository) SaveUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Compile-time check
var _ identity.Repository = (*UserGormRepository)(nil)
