package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	ucbot "github.com/swkombat/ucbot"
	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/handler"
	"github.com/swkombat/ucbot/internal/health"
	"github.com/swkombat/ucbot/internal/jobs"
	"github.com/swkombat/ucbot/internal/middleware"
	"github.com/swkombat/ucbot/internal/repository"
	"github.com/swkombat/ucbot/internal/service"
	"github.com/swkombat/ucbot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Local development convenience; the file is absent in production
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(ucbot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(pool)
	compRepo := repository.NewCompetitionRepo(pool)
	withdrawalRepo := repository.NewWithdrawalRepo(pool)
	settingsRepo := repository.NewSettingsRepo(pool)

	// Handler and gate pointers for use in closures: both depend on the
	// bot instance, which does not exist until bot.New returns.
	var (
		h    *handler.Handler
		gate bot.Middleware
	)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			func(next bot.HandlerFunc) bot.HandlerFunc {
				return func(ctx context.Context, b *bot.Bot, update *models.Update) {
					// gate is set before Start; a no-op until then
					if gate == nil {
						next(ctx, b, update)
						return
					}
					gate(next)(ctx, b, update)
				}
			},
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleDefault(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize services
	checker := service.NewChecker(b, cfg.ChannelID, cfg.GroupID, cfg.MembershipRateLimit)
	gate = middleware.SubscriptionGate(checker, cfg.ChannelID, cfg.GroupID, cfg.YoutubeLink, me.Username)
	pending := service.NewPendingJoins()
	publisher := telegram.NewPublisher(b, cfg.ChannelID, cfg.GroupID)
	notifier := telegram.NewNotifier(b)
	drafts := service.NewDraftService()
	referrals := service.NewReferralService(userRepo, withdrawalRepo)
	comps := service.NewCompetitionService(compRepo, checker, publisher, pending)
	resolver := service.NewResolver(compRepo, publisher, notifier, notifier, cfg.AdminIDs,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	maintenance := service.NewMaintenance(compRepo, checker, publisher, notifier, resolver)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Referrals:   referrals,
		Comps:       comps,
		Drafts:      drafts,
		Checker:     checker,
		Notifier:    notifier,
		Settings:    settingsRepo,
		BotUsername: me.Username,
	})
	h.Register()

	// Background jobs
	scheduler := jobs.NewScheduler(maintenance, drafts, pending)
	if err := scheduler.Start(ctx); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	// Liveness probe for the hosting platform
	probe := health.NewServer(cfg.Port)
	probe.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		probe.Shutdown(shutdownCtx)
	}()

	// A crash past this point is worth telling the admins about: the bot
	// silently going dark is otherwise invisible to them.
	defer func() {
		if r := recover(); r != nil {
			notifyAdmins(b, cfg.AdminIDs, fmt.Sprintf("🚨 Bot ishdan chiqdi: %v", r))
			panic(r)
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}

func notifyAdmins(b *bot.Bot, adminIDs []int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, id := range adminIDs {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: id, Text: text})
	}
}
