package bootstrap

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	ucappointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
	ucidentity "github.com/BruksfildServices01/barbershop-booking/internal/usecase/identity"
	ucrating "github.com/BruksfildServices01/barbershop-booking/internal/usecase/rating"
	ucreview "github.com/BruksfildServices01/barbershop-booking/internal/usecase/review"
	ucschedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		// identity
		// token expiry is an absolute instant, not shop wall time
		func(cfg *config.Config) *ucidentity.Tokens {
			return ucidentity.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL, timeutil.RealClock{})
		},
		ucidentity.NewRegister,
		ucidentity.NewLogin,

		// rating
		func(uow domain.UnitOfWork, c rating.Cache, cfg *config.Config, log *zap.Logger) *ucrating.Aggregator {
			return ucrating.NewAggregator(c, uow.Reader().Reviews(), cfg.Rating.CacheTTL, log)
		},
		func(a *ucrating.Aggregator) ucbarber.RatingSource { return a },
		func(a *ucrating.Aggregator) ucreview.RatingSink { return a },
		func(a *ucrating.Aggregator) ucbarber.RatingEvictor { return a },

		// schedules
		ucschedule.NewCreateSlot,
		ucschedule.NewUpdateSlot,
		ucschedule.NewDeleteSlot,
		ucschedule.NewListSlots,

		// appointments
		func(
			uow domain.UnitOfWork,
			n appt.Notifier,
			clock timeutil.Clock,
			d *audit.Dispatcher,
			log *zap.Logger,
			cfg *config.Config,
		) *ucappointment.BookAppointment {
			return ucappointment.NewBookAppointment(uow, n, clock, d, log, cfg.Booking.ReminderLead)
		},
		ucappointment.NewCancelAppointment,
		ucappointment.NewListAppointments,

		// reviews
		ucreview.NewCreateReview,
		ucreview.NewApproveReview,
		ucreview.NewDeleteReview,
		ucreview.NewListReviews,

		// barbers
		ucbarber.NewGetProfile,
		ucbarber.NewDirectory,
		ucbarber.NewPromote,
		ucbarber.NewAvatar,
		ucbarber.NewManage,
	),
)
