package barber

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	domainbarber "github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// RatingSource is the read side of the rating aggregator.
type RatingSource interface {
	RatingFor(ctx context.Context, barberID uint) (rating.Rating, error)
}

// AvatarStore keeps barber pictures and hands back a public URL.
type AvatarStore interface {
	Put(ctx context.Context, barberID uint, img io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

type WithRating struct {
	Barber models.Barber
	Rating rating.Rating
}

type Details struct {
	WithRating
	Reviews []models.Review
}

type WithSlots struct {
	WithRating
	Slots []models.BarberSchedule
}

// ======================================================
// PROFILE
// ======================================================

type GetProfile struct {
	uow domain.UnitOfWork
}

func NewGetProfile(uow domain.UnitOfWork) *GetProfile {
	return &GetProfile{uow: uow}
}

// Execute resolves the barber profile of a logged-in user.
func (uc *GetProfile) Execute(ctx context.Context, userID uint) (*models.Barber, error) {
	b, err := uc.uow.Reader().Barbers().GetBarberByUserID(ctx, userID)
	if err != nil {
		return nil, httperr.Infra(err, "load barber profile")
	}
	if b == nil {
		return nil, domainbarber.ErrNoBarberProfile
	}
	return b, nil
}

// ======================================================
// LIST / DETAILS / AVAILABLE
// ======================================================

type Directory struct {
	uow     domain.UnitOfWork
	ratings RatingSource
	clock   timeutil.Clock
}

func NewDirectory(uow domain.UnitOfWork, ratings RatingSource, clock timeutil.Clock) *Directory {
	return &Directory{uow: uow, ratings: ratings, clock: clock}
}

func (uc *Directory) List(ctx context.Context) ([]WithRating, error) {
	barbers, err := uc.uow.Reader().Barbers().ListBarbers(ctx)
	if err != nil {
		return nil, httperr.Infra(err, "list barbers")
	}

	out := make([]WithRating, 0, len(barbers))
	for _, b := range barbers {
		r, err := uc.ratings.RatingFor(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, WithRating{Barber: b, Rating: r})
	}
	return out, nil
}

func (uc *Directory) Details(ctx context.Context, barberID uint) (*Details, error) {
	reader := uc.uow.Reader()

	b, err := reader.Barbers().GetBarber(ctx, barberID)
	if err != nil {
		return nil, httperr.Infra(err, "load barber")
	}
	if b == nil {
		return nil, domainbarber.ErrBarberNotFound
	}

	reviews, err := reader.Reviews().ListReviews(ctx, review.ListFilter{BarberID: &barberID, OnlyApproved: true})
	if err != nil {
		return nil, httperr.Infra(err, "list reviews")
	}

	r, err := uc.ratings.RatingFor(ctx, barberID)
	if err != nil {
		return nil, err
	}

	return &Details{WithRating: WithRating{Barber: *b, Rating: r}, Reviews: reviews}, nil
}

// Available lists barbers that have at least one active slot starting now
// or later, with those slots.
func (uc *Directory) Available(ctx context.Context) ([]WithSlots, error) {
	now := uc.clock.Now()
	reader := uc.uow.Reader()

	slots, err := reader.Schedules().ListSlots(ctx, sched.Filter{OnlyActive: true, UpcomingFrom: &now})
	if err != nil {
		return nil, httperr.Infra(err, "list available slots")
	}

	byBarber := map[uint][]models.BarberSchedule{}
	for _, s := range slots {
		byBarber[s.BarberID] = append(byBarber[s.BarberID], s)
	}

	barbers, err := reader.Barbers().ListBarbers(ctx)
	if err != nil {
		return nil, httperr.Infra(err, "list barbers")
	}

	var out []WithSlots
	for _, b := range barbers {
		own, ok := byBarber[b.ID]
		if !ok {
			continue
		}
		r, err := uc.ratings.RatingFor(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, WithSlots{WithRating: WithRating{Barber: b, Rating: r}, Slots: own})
	}
	return out, nil
}

// ======================================================
// PROMOTE
// ======================================================

type Promote struct {
	uow   domain.UnitOfWork
	audit *audit.Dispatcher
}

func NewPromote(uow domain.UnitOfWork, audit *audit.Dispatcher) *Promote {
	return &Promote{uow: uow, audit: audit}
}

// Execute gives a user a barber profile and the barber role.
func (uc *Promote) Execute(ctx context.Context, actorID, userID uint, fullName string) (*models.Barber, error) {
	fullName, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	var created *models.Barber
	err = uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		user, err := tx.Users().GetUser(ctx, userID)
		if err != nil {
			return httperr.Infra(err, "load user")
		}
		if user == nil {
			return identity.ErrUserNotFound
		}

		existing, err := tx.Barbers().GetBarberByUserID(ctx, userID)
		if err != nil {
			return httperr.Infra(err, "load barber profile")
		}
		if existing != nil {
			return domainbarber.ErrAlreadyBarber
		}

		b := &models.Barber{UserID: userID, FullName: fullName}
		if err := tx.Barbers().CreateBarber(ctx, b); err != nil {
			return httperr.Infra(err, "create barber")
		}
		if user.Role != models.RoleAdmin {
			user.Role = models.RoleBarber
			if err := tx.Users().SaveUser(ctx, user); err != nil {
				return httperr.Infra(err, "update role")
			}
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &created.ID,
		Metadata: map[string]any{"user_id": userID},
	})
	return created, nil
}

// ======================================================
// AVATAR
// ======================================================

type Avatar struct {
	uow   domain.UnitOfWork
	store AvatarStore
	log   *zap.Logger
}

func NewAvatar(uow domain.UnitOfWork, store AvatarStore, log *zap.Logger) *Avatar {
	return &Avatar{uow: uow, store: store, log: log}
}

// Upload stores a new picture for the barber profile of userID.
func (uc *Avatar) Upload(ctx context.Context, userID uint, contentType string, img io.Reader) (*models.Barber, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domainbarber.ErrInvalidImageType
	}
	b, err := uc.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.replace(ctx, b, img)
}

// UploadFor stores a new picture for the barber with the given id.
func (uc *Avatar) UploadFor(ctx context.Context, barberID uint, contentType string, img io.Reader) (*models.Barber, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domainbarber.ErrInvalidImageType
	}
	b, err := uc.barber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	return uc.replace(ctx, b, img)
}

func (uc *Avatar) Remove(ctx context.Context, userID uint) (*models.Barber, error) {
	b, err := uc.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.clear(ctx, b)
}

func (uc *Avatar) RemoveFor(ctx context.Context, barberID uint) (*models.Barber, error) {
	b, err := uc.barber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	return uc.clear(ctx, b)
}

func (uc *Avatar) replace(ctx context.Context, b *models.Barber, img io.Reader) (*models.Barber, error) {
	url, err := uc.store.Put(ctx, b.ID, img)
	if err != nil {
		return nil, httperr.Infra(err, "store avatar")
	}

	previous := b.AvatarURL
	b.AvatarURL = url
	if err := uc.uow.Reader().Barbers().SaveBarber(ctx, b); err != nil {
		return nil, httperr.Infra(err, "save avatar url")
	}

	if previous != "" {
		if err := uc.store.Remove(ctx, previous); err != nil {
			uc.log.Warn("old avatar not removed", zap.Uint("barber_id", b.ID), zap.Error(err))
		}
	}
	return b, nil
}

func (uc *Avatar) clear(ctx context.Context, b *models.Barber) (*models.Barber, error) {
	if b.AvatarURL == "" {
		return nil, domainbarber.ErrNoAvatar
	}

	if err := uc.store.Remove(ctx, b.AvatarURL); err != nil {
		return nil, httperr.Infra(err, "remove avatar")
	}
	b.AvatarURL = ""
	if err := uc.uow.Reader().Barbers().SaveBarber(ctx, b); err != nil {
		return nil, httperr.Infra(err, "clear avatar url")
	}
	return b, nil
}

func (uc *Avatar) profile(ctx context.Context, userID uint) (*models.Barber, error) {
	b, err := uc.uow.Reader().Barbers().GetBarberByUserID(ctx, userID)
	if err != nil {
		return nil, httperr.Infra(err, "load barber profile")
	}
	if b == nil {
		return nil, domainbarber.ErrNoBarberProfile
	}
	return b, nil
}

func (uc *Avatar) barber(ctx context.Context, barberID uint) (*models.Barber, error) {
	b, err := uc.uow.Reader().Barbers().GetBarber(ctx, barberID)
	if err != nil {
		return nil, httperr.Infra(err, "load barber")
	}
	if b == nil {
		return nil, domainbarber.ErrBarberNotFound
	}
	return b, nil
}
