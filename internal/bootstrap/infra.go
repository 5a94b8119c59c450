package bootstrap

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-booking/internal/db"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/events"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/logger"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
		logger.New,
		NewClock,
	),
)

// NewClock is UTC unless APP_TIMEZONE opts into shop wall time.
func NewClock(cfg *config.Config) timeutil.Clock {
	return timeutil.ClockFor(cfg.Booking.Timezone)
}

var InfraModule = fx.Module("infra",
	fx.Provide(
		NewDB,
		NewRedis,
		NewRatingCache,
		NewQueueClient,
		NewNotifier,
		NewAvatarStore,
		NewAuditDispatcher,
		fx.Annotate(repository.NewGormUnitOfWork, fx.As(new(domain.UnitOfWork))),
	),
)

func NewDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

// NewRedis returns nil when Redis is disabled or unreachable at startup;
// the rating cache then falls back to process memory.
func NewRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, using in-memory rating cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return rdb.Close() }})
	return rdb
}

func NewRatingCache(rdb *redis.Client, clock timeutil.Clock) rating.Cache {
	if rdb == nil {
		return cache.NewRatingMemory(clock)
	}
	return cache.NewRatingRedis(rdb)
}

func queueOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.QueueDB,
	}
}

// NewQueueClient shares the Redis switch: no Redis, no task queue.
func NewQueueClient(lc fx.Lifecycle, cfg *config.Config, rdb *redis.Client) *asynq.Client {
	if rdb == nil {
		return nil
	}
	client := asynq.NewClient(queueOpt(cfg))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
	return client
}

func NewNotifier(client *asynq.Client, log *zap.Logger) appt.Notifier {
	if client == nil {
		return notify.NewDirectNotifier(notify.NewLogSender(log), log)
	}
	return notify.NewQueueNotifier(client, log)
}

func NewAvatarStore(cfg *config.Config, log *zap.Logger) ucbarber.AvatarStore {
	if cfg.S3.Bucket == "" {
		log.Info("avatar storage disabled: S3_BUCKET not set")
		return storage.DisabledStore{}
	}
	return storage.NewS3AvatarStore(
		storage.NewS3Client(cfg.S3),
		cfg.S3.Bucket,
		cfg.S3.Region,
		cfg.S3.PublicURL,
	)
}

// NewAuditDispatcher writes audit rows and, when AMQP_URL is set, mirrors
// appointment events to RabbitMQ.
func NewAuditDispatcher(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) *audit.Dispatcher {
	sinks := []audit.Sink{audit.New(db)}

	var publisher *events.Publisher
	if cfg.AMQP.URL != "" {
		publisher = events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, events.DialAMQP, log)
		sinks = append(sinks, publisher)
	}

	d := audit.NewDispatcher(log, sinks...)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := d.Close(ctx)
			if publisher != nil {
				_ = publisher.Close()
			}
			return err
		},
	})
	return d
}
