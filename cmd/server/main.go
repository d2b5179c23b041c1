package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/config/server"
	"FoodDelivery/internal/handler"
	"FoodDelivery/internal/logging"
	"FoodDelivery/internal/metrics"
	"FoodDelivery/internal/middleware"
	"FoodDelivery/internal/notifier"
	"FoodDelivery/internal/repository"
	"FoodDelivery/internal/security"
	"FoodDelivery/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
	visitorIdleTime = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "путь к yaml файлу конфигурации")
	envPath := flag.String("env", ".env", "путь к .env файлу")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		log.Fatalf("не удалось загрузить конфигурацию: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("не удалось создать логгер: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := server.SetupDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("не удалось подключиться к БД", zap.Error(err))
	}
	defer database.Close()

	httpServer, router := server.SetupServer(cfg, logger)

	userRepository := repository.NewUserRepository(database)
	jwtRepository := repository.NewJWTRepository(database)
	catalogRepository := repository.NewCatalogRepository(database)
	orderRepository := repository.NewOrderRepository(database)

	authenticationService := service.NewAuthenticationService(
		userRepository,
		jwtRepository,
		jwtRepository,
		security.NewJWTService(cfg.JWT),
		security.NewPasswordHasher(cfg.Security.BcryptCost, cfg.Security.HashWorkers),
		logger,
	)
	catalogService := service.NewCatalogService(catalogRepository)
	orderService := service.NewOrderService(orderRepository, catalogRepository, notifier.NewNotifier(cfg.Webhook, logger), logger)

	rateLimiter := middleware.NewIPRateLimiter(cfg.RateLimit)

	handler.RegisterRoutes(router, cfg.Server.BasePath, handler.Handlers{
		Auth:        handler.NewAuthenticationHandler(authenticationService, logger),
		Catalog:     handler.NewCatalogHandler(catalogService, logger),
		Orders:      handler.NewOrderHandler(orderService, logger),
		RateLimiter: rateLimiter,
		Logger:      logger,
	})

	runServer(ctx, httpServer, logger, func(ctx context.Context) {
		prune(ctx, authenticationService, rateLimiter, logger)
	}, cfg.Server.PruneInterval)

	orderService.Wait()
	logger.Info("сервер успешно остановлен")
}

// runServer обслуживает запросы и периодически вызывает pruneFn, пока не
// придёт сигнал остановки или сервер не упадёт.
func runServer(ctx context.Context, httpServer *http.Server, logger *zap.Logger, pruneFn func(context.Context), pruneInterval time.Duration) {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		logger.Info("сервер запущен", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if pruneInterval <= 0 {
			return nil
		}
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				pruneFn(groupCtx)
			}
		}
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("остановка сервера")

		shutDownCtx, shutDownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer shutDownCancel()

		if err := httpServer.Shutdown(shutDownCtx); err != nil {
			logger.Error("ошибка при остановке сервера", zap.Error(err))
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("ошибка работы сервера", zap.Error(err))
	}
}

// prune удаляет истёкшие refresh токены, записи об отозванных токенах и
// давно не активных посетителей rate limiter'а.
func prune(ctx context.Context, authenticationService *service.AuthenticationService, rateLimiter *middleware.IPRateLimiter, logger *zap.Logger) {
	refreshDeleted, revokedDeleted, err := authenticationService.PruneExpired(ctx)
	if err != nil {
		logger.Error("ошибка очистки истёкших токенов", zap.Error(err))
	}
	metrics.PrunedTokensTotal.WithLabelValues("refresh").Add(float64(refreshDeleted))
	metrics.PrunedTokensTotal.WithLabelValues("revoked").Add(float64(revokedDeleted))

	visitors := rateLimiter.Cleanup(visitorIdleTime)
	logger.Debug("очистка завершена",
		zap.Int64("refresh_deleted", refreshDeleted),
		zap.Int64("revoked_deleted", revokedDeleted),
		zap.Int("visitors_deleted", visitors),
	)
}
