package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// Dates go to Postgres as "YYYY-MM-DD" text so the comparison happens on
// the date column type, independent of the session time zone.
func dateParam(t time.Time) string {
	return t.Format(timeutil.DateLayout)
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *ScheduleGormRepository) LockBarber(ctx context.Context, barberID uint) (bool, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", barberID).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// --------------------------------------------------
// Slot (read)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSlot(ctx context.Context, id uint) (*models.BarberSchedule, error) {
	return first[models.BarberSchedule](r.db.WithContext(ctx), id)
}

func (r *ScheduleGormRepository) GetSlotForUpdate(ctx context.Context, id uint) (*models.BarberSchedule, error) {
	return first[models.BarberSchedule](
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *ScheduleGormRepository) ListSlotsForDay(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]models.BarberSchedule, error) {

	var slots []models.BarberSchedule
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, dateParam(date)).
		Order("start_time ASC, id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) ListSlots(ctx context.Context, f schedule.Filter) ([]models.BarberSchedule, error) {
	q := r.db.WithContext(ctx).Model(&models.BarberSchedule{})

	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", dateParam(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", dateParam(*f.EndDate))
	}
	if f.OnlyActive {
		q = q.Where("is_active = ?", true)
	}
	if f.UpcomingFrom != nil {
		day := dateParam(*f.UpcomingFrom)
		q = q.Where(
			"(date > ?) OR (date = ? AND start_time >= ?)",
			day, day, timeutil.TimeOfDayOf(*f.UpcomingFrom).String(),
		)
	}

	var slots []models.BarberSchedule
	if err := q.Order("date ASC, start_time ASC, id ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Slot (write)
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSlot(ctx context.Context, s *models.BarberSchedule) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *ScheduleGormRepository) SaveSlot(ctx context.Context, s *models.BarberSchedule) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *ScheduleGormRepository) DeleteSlot(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BarberSchedule{}, id).Error
}

func (r *ScheduleGormRepository) DeactivateSlot(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BarberSchedule{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ScheduleGormRepository) ActivateSlot(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.BarberSchedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": true, "updated_at": time.Now().UTC()}).Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
