package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/internal"
	"FoodDelivery/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// SetupDatabase подключается к БД и применяет миграции.
func SetupDatabase(ctx context.Context, cfg config.DatabaseConfig) (*internal.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	database, err := internal.NewDatabaseConnection(connectCtx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения: %w", err)
	}

	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}
	return database, nil
}

// SetupServer создаёт роутер с общими middleware и HTTP сервер поверх него.
// Маршруты API регистрируются на возвращённом роутере.
func SetupServer(cfg *config.Config, logger *zap.Logger) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Retry-After", "WWW-Authenticate"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return server, router
}
