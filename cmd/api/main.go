package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/bootstrap"
)

func main() {
	initSentry()
	defer sentry.Flush(2 * time.Second)

	app := fx.New(
		bootstrap.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

// initSentry runs before the container so startup failures are reported too.
func initSentry() {
	_ = godotenv.Load()

	var env struct {
		DSN string `envconfig:"SENTRY_DSN"`
		Env string `envconfig:"APP_ENV" default:"development"`
	}
	if err := envconfig.Process("", &env); err != nil || env.DSN == "" {
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              env.DSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      env.Env,
	}); err != nil {
		log.Printf("sentry init failed: %v", err)
	}
}
