package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/road-signs-bot/internal/config"
	"github.com/aliskhannn/road-signs-bot/internal/delivery/telegram"
	"github.com/aliskhannn/road-signs-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/road-signs-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/road-signs-bot/internal/logger"
	"github.com/aliskhannn/road-signs-bot/internal/repository"
	"github.com/aliskhannn/road-signs-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return err
	}
	lg.Info("catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("signs", catalog.Len()))

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
		SlowQuery:       cfg.DB.SlowQuery,
		Logger:          lg.Named("postgres"),
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	learnerService := service.NewLearnerService(
		postgres.NewTransactor(pool),
		func(tx pgx.Tx) service.LearnerRepository { return pgrepo.NewLearnerRepository(tx) },
		catalog,
		lg,
	)

	reminderService := service.NewReminderService(
		pgrepo.NewLearnerRepository(pool),
		catalog,
		service.ReminderConfig{
			Schedule:  cfg.Reminder.Schedule,
			IdleAfter: cfg.Reminder.IdleAfter,
			BatchSize: cfg.Reminder.BatchSize,
			PerSecond: cfg.Reminder.PerSecond,
		},
		lg,
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Debug
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start learning road signs"},
		{Command: "question", Description: "Show the current sign"},
		{Command: "progress", Description: "Show your progress"},
		{Command: "reminders", Description: "Turn reminders on or off"},
		{Command: "reset", Description: "Start over"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, learnerService, catalog, cfg.AssetsDir)
	reminderService.SetNotifier(handler)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Reminder.Enabled {
		g.Go(func() error { return reminderService.Start(ctx) })
	}

	g.Go(func() error {
		defer bot.StopReceivingUpdates()
		return handler.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}
