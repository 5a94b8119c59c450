package barber

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domainbarber "github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// RatingEvictor drops the cached rating of a removed barber.
type RatingEvictor interface {
	Forget(ctx context.Context, barberID uint) error
}

var errFullNameRequired = httperr.New(httperr.KindValidation, "full_name_required", "Full name is required")

func normalizeFullName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errFullNameRequired
	}
	return s, nil
}

// Removal describes a deleted barber. Upcoming counts the appointments at
// or after the moment of deletion that went away with it.
type Removal struct {
	Barber   models.Barber
	Upcoming int
}

type Manage struct {
	uow     domain.UnitOfWork
	ratings RatingEvictor
	avatars AvatarStore
	clock   timeutil.Clock
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewManage(
	uow domain.UnitOfWork,
	ratings RatingEvictor,
	avatars AvatarStore,
	clock timeutil.Clock,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Manage {
	return &Manage{uow: uow, ratings: ratings, avatars: avatars, clock: clock, audit: audit, log: log}
}

func (uc *Manage) Get(ctx context.Context, barberID uint) (*models.Barber, error) {
	b, err := uc.uow.Reader().Barbers().GetBarber(ctx, barberID)
	if err != nil {
		return nil, httperr.Infra(err, "load barber")
	}
	if b == nil {
		return nil, domainbarber.ErrBarberNotFound
	}
	return b, nil
}

// Rename changes the display name of a barber.
func (uc *Manage) Rename(ctx context.Context, actorID, barberID uint, fullName string) (*models.Barber, error) {
	fullName, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	var updated *models.Barber
	err = uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		b, err := tx.Barbers().GetBarber(ctx, barberID)
		if err != nil {
			return httperr.Infra(err, "load barber")
		}
		if b == nil {
			return domainbarber.ErrBarberNotFound
		}
		b.FullName = fullName
		if err := tx.Barbers().SaveBarber(ctx, b); err != nil {
			return httperr.Infra(err, "save barber")
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"full_name": fullName},
	})
	return updated, nil
}

// Delete removes a barber with every slot, appointment and review it owns,
// booked upcoming appointments included, and turns its user back into a
// client. Admin users keep their role.
func (uc *Manage) Delete(ctx context.Context, actorID, barberID uint) (*Removal, error) {
	now := uc.clock.Now()

	var removed Removal
	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		found, err := tx.Schedules().LockBarber(ctx, barberID)
		if err != nil {
			return httperr.Infra(err, "lock barber")
		}
		if !found {
			return domainbarber.ErrBarberNotFound
		}

		b, err := tx.Barbers().GetBarber(ctx, barberID)
		if err != nil {
			return httperr.Infra(err, "load barber")
		}
		if b == nil {
			return domainbarber.ErrBarberNotFound
		}

		upcoming, err := tx.Appointments().ListAppointments(ctx, appt.ListFilter{BarberID: &barberID, UpcomingFrom: &now})
		if err != nil {
			return httperr.Infra(err, "list barber appointments")
		}

		if err := tx.Barbers().DeleteBarber(ctx, barberID); err != nil {
			return httperr.Infra(err, "delete barber")
		}

		user, err := tx.Users().GetUser(ctx, b.UserID)
		if err != nil {
			return httperr.Infra(err, "load barber user")
		}
		if user != nil && user.Role == models.RoleBarber {
			user.Role = models.RoleClient
			if err := tx.Users().SaveUser(ctx, user); err != nil {
				return httperr.Infra(err, "update role")
			}
		}

		removed = Removal{Barber: *b, Upcoming: len(upcoming)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.ratings.Forget(ctx, barberID); err != nil {
		uc.log.Warn("rating cache not cleared", zap.Uint("barber_id", barberID), zap.Error(err))
	}
	if removed.Barber.AvatarURL != "" {
		if err := uc.avatars.Remove(ctx, removed.Barber.AvatarURL); err != nil {
			uc.log.Warn("avatar not removed", zap.Uint("barber_id", barberID), zap.Error(err))
		}
	}

	uc.log.Info("barber deleted",
		zap.Uint("barber_id", barberID),
		zap.Int("upcoming_appointments", removed.Upcoming),
	)
	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_deleted",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{
			"user_id":               removed.Barber.UserID,
			"upcoming_appointments": removed.Upcoming,
		},
	})
	return &removed, nil
}
