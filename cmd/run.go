package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"betslip/config"
	"betslip/database"
	"betslip/events"
	"betslip/feed"
	"betslip/identity"
	"betslip/metrics"
	"betslip/pubsub"
	"betslip/repository"
	"betslip/service"
)

// App bundles the wired components the embedding surface (HTTP layer,
// debug console, tests) works with.
type App struct {
	BetSlips service.BetSlipService
	Stats    service.StatsService
	Sessions *identity.SessionManager
	Sync     *feed.Manager

	cleanup []func()
}

// NewApp wires all components from configuration
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.cleanup = append(app.cleanup, db.Close)
	log.Info("Database connection established")

	// Cross-session sync runs over Redis when configured; otherwise changes
	// only fan out inside this process
	var notifier events.Notifier
	if cfg.RedisAddr != "" {
		rdb, err := pubsub.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.cleanup = append(app.cleanup, func() { _ = rdb.Close() })
		notifier = pubsub.NewRedisNotifier(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("Redis change notifier initialized")
	} else {
		bus := events.NewBus()
		app.cleanup = append(app.cleanup, bus.Close)
		notifier = bus
		log.Info("In-process change notifier initialized")
	}

	app.Sessions = identity.NewSessionManager()

	uowFactory := repository.NewUnitOfWorkFactory(db, notifier)
	app.BetSlips = service.NewBetSlipService(uowFactory, app.Sessions)
	app.Stats = service.NewStatsService(uowFactory, app.Sessions)

	app.Sync = feed.NewManager(repository.NewBetRecordRepository(db), notifier, app.Sessions)

	srv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Ping(ctx)
	})
	app.cleanup = append(app.cleanup, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	})
	log.WithField("port", cfg.MetricsPort).Info("Metrics server started")

	return app, nil
}

// Close releases every resource the app holds, newest first
func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// Run initializes the application and blocks until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("Starting betslip tracker...")

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	go app.Sync.Run(ctx)
	go logUpdates(app.Sync)

	log.WithField("environment", cfg.Environment).Info("Betslip tracker is running")
	<-ctx.Done()

	log.Info("Shutting down...")

	return nil
}

// logUpdates consumes live sync emissions until the manager stops. The
// embedding application replaces this consumer with its own view layer.
func logUpdates(m *feed.Manager) {
	for update := range m.Updates() {
		if update.Err != nil {
			log.WithError(update.Err).Warn("Live sync channel terminated")
			continue
		}
		log.WithField("recordCount", len(update.Records)).Debug("Live sync snapshot")
	}
}
