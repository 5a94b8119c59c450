package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/handlers"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/routes"
	ucidentity "github.com/BruksfildServices01/barbershop-booking/internal/usecase/identity"
)

var HTTPModule = fx.Module("http",
	fx.Provide(
		handlers.NewAuthHandler,
		handlers.NewMeHandler,
		handlers.NewBarberHandler,
		handlers.NewScheduleHandler,
		handlers.NewAppointmentHandler,
		handlers.NewReviewHandler,
		handlers.NewAuditLogsHandler,
		NewHealthHandler,
		NewBookingLimiter,
		NewEngine,
	),
	fx.Invoke(SeedAdmin, StartServer),
)

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *handlers.HealthHandler {
	var ping handlers.Pinger
	if rdb != nil {
		ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return handlers.NewHealthHandler(db, ping)
}

// NewBookingLimiter sweeps idle per-IP buckets for the life of the app.
func NewBookingLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.IPRateLimiter {
	l := middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go l.Run(ctx, time.Minute, middleware.LimiterIdleTTL)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return l
}

type routeParams struct {
	fx.In

	Cfg     *config.Config
	Log     *zap.Logger
	Tokens  *ucidentity.Tokens
	Limiter *middleware.IPRateLimiter

	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Me          *handlers.MeHandler
	Barbers     *handlers.BarberHandler
	Schedules   *handlers.ScheduleHandler
	Appointment *handlers.AppointmentHandler
	Reviews     *handlers.ReviewHandler
	AuditLogs   *handlers.AuditLogsHandler
}

func NewEngine(p routeParams) *gin.Engine {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.RegisterRoutes(r,
		routes.Handlers{
			Health:      p.Health,
			Auth:        p.Auth,
			Me:          p.Me,
			Barbers:     p.Barbers,
			Schedules:   p.Schedules,
			Appointment: p.Appointment,
			Reviews:     p.Reviews,
			AuditLogs:   p.AuditLogs,
		},
		routes.Guards{
			Tokens:       p.Tokens,
			BookingLimit: p.Limiter,
			Log:          p.Log,
		},
		gin.Recovery(),
		middleware.RequestLogger(p.Log),
		middleware.CORSMiddleware(p.Cfg.CORS),
	)
	return r
}

func SeedAdmin(lc fx.Lifecycle, cfg *config.Config, uow domain.UnitOfWork, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ucidentity.SeedAdmin(ctx, uow, log, cfg.Admin.Username, cfg.Admin.Password)
		},
	})
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("server running", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("server shutting down")
			err := srv.Shutdown(ctx)
			sentry.Flush(2 * time.Second)
			return err
		},
	})
}
