package handler

import (
	"net/http"

	"FoodDelivery/internal/middleware"
	"FoodDelivery/internal/response"
	"FoodDelivery/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth        *AuthenticationHandler
	Catalog     *CatalogHandler
	Orders      *OrderHandler
	RateLimiter *middleware.IPRateLimiter
	Logger      *zap.Logger
}

// RegisterRoutes монтирует все маршруты API под basePath. Каталог открыт,
// заказы и /auth/me, /auth/logout требуют access токен.
func RegisterRoutes(router chi.Router, basePath string, handlers Handlers) {
	if basePath == "" {
		basePath = "/"
	}
	authenticate := security.JWTMiddleware(handlers.Auth.AuthenticationService, handlers.Logger)

	router.Route(basePath, func(r chi.Router) {
		r.Get("/health", func(writer http.ResponseWriter, request *http.Request) {
			response.JSON(writer, http.StatusOK, &SuccessResponse{Success: true})
		})
		r.Handle("/metrics", promhttp.Handler())

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if handlers.RateLimiter != nil {
					r.Use(middleware.RateLimit(handlers.RateLimiter, handlers.Logger))
				}
				r.Post("/register", handlers.Auth.Register)
				r.Post("/login", handlers.Auth.Login)
				r.Post("/refresh", handlers.Auth.RefreshToken)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/logout", handlers.Auth.Logout)
				r.Get("/me", handlers.Auth.Me)
			})
		})

		r.Get("/restaurants", handlers.Catalog.ListRestaurants)
		r.Get("/restaurants/{id}", handlers.Catalog.GetRestaurant)
		r.Get("/restaurants/{id}/menu", handlers.Catalog.GetMenu)
		r.Get("/categories", handlers.Catalog.ListCategories)

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", handlers.Orders.CreateOrder)
			r.Get("/", handlers.Orders.ListOrders)
			r.Get("/active", handlers.Orders.ActiveOrder)
			r.Get("/{id}", handlers.Orders.GetOrder)
		})
	})
}
