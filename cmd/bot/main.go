package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/app"
	"gk_notification_bot/internal/domain/content"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/infra/config"
	idb "gk_notification_bot/internal/infra/database"
	"gk_notification_bot/internal/infra/httpapi"
	"gk_notification_bot/internal/infra/logger"
	"gk_notification_bot/internal/infra/markerstore"
	"gk_notification_bot/internal/infra/scheduler"
	"gk_notification_bot/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment":  cfg.Environment,
		"admin_id":     cfg.AdminTelegramID,
		"marker_store": cfg.MarkerStore,
		"timezone":     cfg.Timezone.String(),
	}).Info("Daily GK bot starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, mainLogger); err != nil {
		mainLogger.WithError(err).Fatal("Application stopped with error")
	}
	mainLogger.Info("Application shut down gracefully.")
}

func run(ctx context.Context, cfg *config.AppConfig, mainLogger *logrus.Entry) error {
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	if err := idb.Migrate(ctx, db); err != nil {
		return fmt.Errorf("could not apply schema: %w", err)
	}
	mainLogger.Info("Database connection established and schema applied.")

	markers, closeMarkers, err := newMarkerStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeMarkers()

	selector, err := content.NewSelector()
	if err != nil {
		return fmt.Errorf("could not load content pools: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Telegram handler error")
		},
	})
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	subscriberRepo := idb.NewPostgresSubscriberRepository(db)
	contentService := app.NewContentService(selector, nil)
	subscriberService := app.NewSubscriberService(subscriberRepo, cfg.AdminTelegramID)
	notifier := app.NewBroadcastNotifier(subscriberRepo, telegram.NewTelebotAdapter(bot), logger.Component("broadcast"))
	dispatcher := app.NewDailyDispatcher(contentService, markers, notifier, logger.Component("dispatcher"),
		app.WithPace(cfg.DispatchPace),
	)

	notifScheduler, err := scheduler.NewNotificationScheduler(dispatcher, logger.Component("scheduler"), scheduler.Config{
		Location:        cfg.Timezone,
		DailySpec:       cfg.CronSpecDaily,
		WakeupSpec:      cfg.CronSpecWakeup,
		RunOnStart:      cfg.RunOnStart,
		DispatchTimeout: cfg.DispatchTimeout,
	})
	if err != nil {
		return err
	}

	telegram.NewHandlers(ctx, subscriberService, contentService, dispatcher, cfg.DispatchTimeout, logger.Component("telegram")).Register(bot)

	server := httpapi.NewServer(httpapi.Deps{
		Content:    contentService,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Logger:     logger.Component("http"),
		APIToken:   cfg.APIToken,

		DispatchTimeout: cfg.DispatchTimeout,
	})

	notifScheduler.Start()
	defer notifScheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(cfg.HTTPAddr)
	})
	g.Go(func() error {
		mainLogger.Info("Starting Telegram poller")
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		mainLogger.Info("Shutting down application...")
		bot.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newMarkerStore opens the backend selected by MARKER_STORE.
func newMarkerStore(ctx context.Context, cfg *config.AppConfig, db *sql.DB) (notification.MarkerStore, func(), error) {
	log := logger.Component("markers")
	switch cfg.MarkerStore {
	case config.MarkerStoreRedis:
		store, err := markerstore.NewRedisStoreWithURL(cfg.RedisURL, cfg.MarkerTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not configure redis marker store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("could not reach redis: %w", err)
		}
		log.Info("Using redis marker store")
		return store, func() { _ = store.Close() }, nil
	case config.MarkerStoreMemory:
		log.Warn("Using in-memory marker store, markers do not survive restarts")
		return markerstore.NewMemoryStore(), func() {}, nil
	default:
		log.Info("Using postgres marker store")
		return idb.NewPostgresMarkerStore(db), func() {}, nil
	}
}
