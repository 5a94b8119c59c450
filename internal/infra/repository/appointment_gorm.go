package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment (create / delete)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	return first[models.Appointment](r.db.WithContext(ctx), id)
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return first[models.Appointment](
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *AppointmentGormRepository) GetAppointmentBySlot(ctx context.Context, slotID uint) (*models.Appointment, error) {
	return first[models.Appointment](r.db.WithContext(ctx).Where("schedule_id = ?", slotID))
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f appointment.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.UpcomingFrom != nil {
		q = q.Where("appointment_time >= ?", *f.UpcomingFrom)
	}

	var apps []models.Appointment
	if err := paginate(q, f.Offset, f.Limit).
		Order("appointment_time ASC, id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (slot move)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

// Compile-time check
var _ appointment.Repository = (*AppointmentGormRepository)(nil)
