package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) ApprovedStats(ctx context.Context, barberID uint) (rating.Rating, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("barber_id = ? AND is_approved = ?", barberID, true).
		Scan(&row).Error; err != nil {
		return rating.Rating{}, err
	}
	return rating.Rating{Avg: row.Avg, Count: row.Count}, nil
}

func (r *ReviewGormRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
}

func (r *ReviewGormRepository) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return first[models.Review](r.db.WithContext(ctx), id)
}

func (r *ReviewGormRepository) GetReviewForUpdate(ctx context.Context, id uint) (*models.Review, error) {
	return first[models.Review](
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *ReviewGormRepository) SaveReview(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rv).Error
}

func (r *ReviewGormRepository) DeleteReview(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

func (r *ReviewGormRepository) ListReviews(ctx context.Context, f review.ListFilter) ([]models.Review, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Preload("Client")

	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.OnlyApproved {
		q = q.Where("is_approved = ?", true)
	}
	if f.OnlyUnapproved {
		q = q.Where("is_approved = ?", false)
	}

	var reviews []models.Review
	if err := paginate(q, f.Offset, f.Limit).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Compile-time check
var _ review.Repository = (*ReviewGormRepository)(nil)
