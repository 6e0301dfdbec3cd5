package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log := applog.Component("main")

	logCloser, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		// Keep running on stdout only.
		log.WithError(err).Warn("log setup failed")
	}

	err = run(cfg, log)
	if err != nil {
		log.WithError(err).Error("storefront stopped")
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until SIGINT/SIGTERM or a listener failure. Every resource it opens is
// closed before it returns.
func run(cfg config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.SeedIfEmpty(ctx, repos.NewProductRepo(db)); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	m := metrics.New(nil)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers)
		if err != nil {
			log.WithError(err).Warn("kafka unavailable, events disabled")
		} else {
			publisher = kp
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("close event publisher")
		}
	}()
	emitter := events.NewEmitter(publisher, events.Topics{
		Products: cfg.Kafka.ProductTopic,
		Orders:   cfg.Kafka.OrderTopic,
	}, m)

	deps := handlers.NewDeps(db, emitter, m, nil)
	app := handlers.NewApp(deps, handlers.AppOptions{RateLimitMax: cfg.RateLimitMax, AccessLog: true})

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case serveErr = <-errCh:
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("shutdown")
	}
	if serveErr != nil {
		return fmt.Errorf("listen: %w", serveErr)
	}
	log.Info("stopped")
	return nil
}
