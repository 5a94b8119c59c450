package review

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	rv "github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// RatingSink is notified after review approvals and deletions commit.
type RatingSink interface {
	OnApproved(ctx context.Context, barberID uint, value int) error
	OnDeleted(ctx context.Context, barberID uint, value int, wasApproved bool) error
}

// ======================================================
// CREATE
// ======================================================

type CreateInput struct {
	ClientID uint
	BarberID uint
	Rating   int
	Comment  string
}

type CreateReview struct {
	uow   domain.UnitOfWork
	audit *audit.Dispatcher
}

func NewCreateReview(uow domain.UnitOfWork, audit *audit.Dispatcher) *CreateReview {
	return &CreateReview{uow: uow, audit: audit}
}

// Execute stores an unapproved review. It does not affect the rating until
// an admin approves it.
func (uc *CreateReview) Execute(ctx context.Context, in CreateInput) (*models.Review, error) {
	if !rv.ValidRating(in.Rating) {
		return nil, rv.ErrInvalidRating
	}

	review := &models.Review{
		ClientID: in.ClientID,
		BarberID: in.BarberID,
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		b, err := tx.Barbers().GetBarber(ctx, in.BarberID)
		if err != nil {
			return httperr.Infra(err, "load barber")
		}
		if b == nil {
			return barber.ErrBarberNotFound
		}
		if err := tx.Reviews().CreateReview(ctx, review); err != nil {
			return httperr.Infra(err, "create review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &review.ID,
		Metadata: map[string]any{"barber_id": review.BarberID, "rating": review.Rating},
	})
	return review, nil
}

// ======================================================
// APPROVE
// ======================================================

type ApproveReview struct {
	uow     domain.UnitOfWork
	ratings RatingSink
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewApproveReview(uow domain.UnitOfWork, ratings RatingSink, audit *audit.Dispatcher, log *zap.Logger) *ApproveReview {
	return &ApproveReview{uow: uow, ratings: ratings, audit: audit, log: log}
}

func (uc *ApproveReview) Execute(ctx context.Context, actorID, reviewID uint) (*models.Review, error) {
	var approved *models.Review

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		review, err := tx.Reviews().GetReviewForUpdate(ctx, reviewID)
		if err != nil {
			return httperr.Infra(err, "load review")
		}
		if review == nil {
			return rv.ErrReviewNotFound
		}
		if review.IsApproved {
			return rv.ErrAlreadyApproved
		}

		review.IsApproved = true
		if err := tx.Reviews().SaveReview(ctx, review); err != nil {
			return httperr.Infra(err, "approve review")
		}
		approved = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the approval is committed; a rating failure only leaves the cache cold
	if err := uc.ratings.OnApproved(ctx, approved.BarberID, approved.Rating); err != nil {
		uc.log.Error("rating update after approval failed", zap.Uint("review_id", approved.ID), zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "review_approved",
		Entity:   "review",
		EntityID: &approved.ID,
		Metadata: map[string]any{"barber_id": approved.BarberID, "rating": approved.Rating},
	})
	return approved, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteReview struct {
	uow     domain.UnitOfWork
	ratings RatingSink
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewDeleteReview(uow domain.UnitOfWork, ratings RatingSink, audit *audit.Dispatcher, log *zap.Logger) *DeleteReview {
	return &DeleteReview{uow: uow, ratings: ratings, audit: audit, log: log}
}

func (uc *DeleteReview) Execute(ctx context.Context, actorID, reviewID uint) error {
	var deleted models.Review

	err := uc.uow.Within(ctx, func(ctx context.Context, tx domain.Tx) error {
		review, err := tx.Reviews().GetReviewForUpdate(ctx, reviewID)
		if err != nil {
			return httperr.Infra(err, "load review")
		}
		if review == nil {
			return rv.ErrReviewNotFound
		}
		if err := tx.Reviews().DeleteReview(ctx, review.ID); err != nil {
			return httperr.Infra(err, "delete review")
		}
		deleted = *review
		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.ratings.OnDeleted(ctx, deleted.BarberID, deleted.Rating, deleted.IsApproved); err != nil {
		uc.log.Error("rating update after deletion failed", zap.Uint("review_id", deleted.ID), zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "review_deleted",
		Entity:   "review",
		EntityID: &deleted.ID,
		Metadata: map[string]any{
			"barber_id":    deleted.BarberID,
			"rating":       deleted.Rating,
			"was_approved": deleted.IsApproved,
		},
	})
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListInput struct {
	ClientID       *uint
	OnlyUnapproved bool
	Skip           int
	Limit          int
}

type ListReviews struct {
	uow domain.UnitOfWork
}

func NewListReviews(uow domain.UnitOfWork) *ListReviews {
	return &ListReviews{uow: uow}
}

func (uc *ListReviews) Execute(ctx context.Context, in ListInput) ([]models.Review, error) {
	f := rv.ListFilter{
		ClientID:       in.ClientID,
		OnlyUnapproved: in.OnlyUnapproved,
		Offset:         max(in.Skip, 0),
		Limit:          in.Limit,
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}

	out, err := uc.uow.Reader().Reviews().ListReviews(ctx, f)
	if err != nil {
		return nil, httperr.Infra(err, "list reviews")
	}
	return out, nil
}
