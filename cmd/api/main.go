package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pos-ticketing/internal/api/http"
	"github.com/spec-kit/pos-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/pos-ticketing/internal/auth"
	"github.com/spec-kit/pos-ticketing/internal/cache"
	"github.com/spec-kit/pos-ticketing/internal/concurrency"
	"github.com/spec-kit/pos-ticketing/internal/config"
	"github.com/spec-kit/pos-ticketing/internal/events"
	"github.com/spec-kit/pos-ticketing/internal/observability"
	"github.com/spec-kit/pos-ticketing/internal/persistence"
	"github.com/spec-kit/pos-ticketing/internal/repository"
	"github.com/spec-kit/pos-ticketing/internal/service"
	"github.com/spec-kit/pos-ticketing/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	ticketCache := cache.NewTicketCache(redis.Client, cfg.Cache.TTL())
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.RegisterCacheInvalidation(dispatcher, ticketCache, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		TagRepo:      tagRepo,
		TemplateRepo: templateRepo,
		Validator:    concurrency.NewTicketValidator(),
		Cache:        ticketCache,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	if templates, err := ticketService.ListTemplates(ctx); err != nil {
		logger.Warn("failed to load ticket templates", zap.Error(err))
	} else {
		logger.Info("ticket templates loaded", zap.Int("count", len(templates)))
	}

	authService := service.NewAuthService(*cfg, staffRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	staffHandler := handlers.NewStaffHandler(authService)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)
	templatesHandler := handlers.NewTemplatesHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Staff:          staffHandler,
		Tickets:        ticketsHandler,
		Templates:      templatesHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
