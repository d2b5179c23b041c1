package middleware

import (
	"net/http"
	"strconv"
	"time"

	"FoodDelivery/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const unmatchedRoute = "unmatched"

// RequestLogger пишет одну строку лога на запрос и обновляет HTTP метрики.
// Метка route берётся из шаблона маршрута chi, а не из пути, чтобы id в URL
// не раздували число временных рядов.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			wrapped := chimiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrapped, request)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)
			route := routePattern(request)

			metrics.HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(request.Method, route).Observe(duration.Seconds())

			fields := []zap.Field{
				zap.String("request_id", chimiddleware.GetReqID(request.Context())),
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", wrapped.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("remote_addr", request.RemoteAddr),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("запрос обработан", fields...)
			} else {
				logger.Info("запрос обработан", fields...)
			}
		})
	}
}

func routePattern(request *http.Request) string {
	routeContext := chi.RouteContext(request.Context())
	if routeContext == nil {
		return unmatchedRoute
	}
	if pattern := routeContext.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
