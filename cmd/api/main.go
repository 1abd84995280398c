package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/soporteit/support-desk/internal/api/http"
	"github.com/soporteit/support-desk/internal/api/http/handlers"
	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/notification"
	"github.com/soporteit/support-desk/internal/observability"
	"github.com/soporteit/support-desk/internal/persistence"
	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/repository/memory"
	"github.com/soporteit/support-desk/internal/service"
	"github.com/soporteit/support-desk/internal/whatsapp"
	"github.com/soporteit/support-desk/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("support_desk")

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	repos := memory.NewSet()
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewPostgresSet(pg.PoolHandle())
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	sessions := auth.NewMemorySessionStore()
	if redis.Available {
		sessions = auth.NewRedisSessionStore(redis.Client)
	}

	if cfg.App.IsProduction() && cfg.Auth.AdminPassword == config.DefaultAdminPassword {
		logger.Warn("ADMIN_PASSWORD is the default; environment fallback login is disabled in production")
	}

	policy, err := auth.NewPolicy()
	if err != nil {
		logger.Fatal("failed to load permission policy", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.SessionSecret)
	dispatcher := events.NewAsyncDispatcher(logger)

	catalogService := service.NewCatalogService(repos.Catalog, logger)
	links := whatsapp.NewLinkBuilder(cfg.WhatsApp.DefaultRegion, cfg.WhatsApp.CompanyPhone)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.Tickets,
		CatalogRepo: repos.Catalog,
		Dispatcher:  dispatcher,
		Codes:       service.NewCodeGenerator(),
		Metrics:     metrics,
		Logger:      logger,
	})
	noteService := service.NewNoteService(repos.Tickets, repos.Notes)
	hoursService := service.NewWorkHoursService(repos.Tickets, repos.WorkHours)
	whatsappService := service.NewWhatsAppService(repos.Tickets, repos.Contacts, links)
	userService := service.NewUserService(repos.Users, cfg.Auth.BcryptCost)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   repos.Users,
		Sessions:   sessions,
		Tokens:     tokens,
		Logger:     logger,
		Production: cfg.App.IsProduction(),
	})

	renderer, err := notification.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse email templates", zap.Error(err))
	}
	notificationService := service.NewNotificationService(cfg.Notification, service.NotificationDependencies{
		Dispatcher: dispatcher,
		Renderer:   renderer,
		Mailer:     notification.NewMailer(cfg.Notification, logger),
		Catalog:    catalogService,
		WhatsApp:   whatsappService,
		Metrics:    metrics,
		Logger:     logger,
	})
	stopWorker := worker.StartNotificationWorker(dispatcher, notificationService, logger)

	if _, err := catalogService.SeedDefaults(ctx); err != nil {
		logger.Fatal("failed to seed service catalog", zap.Error(err))
	}
	if _, err := service.NewCredentialMigrator(repos.Users, cfg.Auth, logger).Run(ctx); err != nil {
		logger.Fatal("credential migration failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService, whatsappService),
		Notes:          handlers.NewNotesHandler(noteService),
		Hours:          handlers.NewHoursHandler(hoursService),
		WhatsApp:       handlers.NewWhatsAppHandler(whatsappService),
		Services:       handlers.NewServicesHandler(catalogService),
		Users:          handlers.NewUsersHandler(userService),
		Session:        handlers.NewSessionHandler(authService, handlers.CookieSettings{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessions, cfg.Auth.CookieName).WithAccounts(repos.Users),
		Policy:         policy,
		IntakeLimiter:  httptransport.NewIntakeLimiter(cfg.RateLimit, redis),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	stopWorker()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
