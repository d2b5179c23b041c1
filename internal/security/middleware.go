package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/metrics"
	"FoodDelivery/internal/model"
	"FoodDelivery/internal/response"

	"go.uber.org/zap"
)

// AccessVerifier описывает то, что нужно middleware от сервиса аутентификации.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, accessToken string) (*AccessClaims, error)
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// JWTMiddleware пропускает запрос дальше только с действующим access токеном.
// Пользователь перечитывается из БД, чтобы в контексте был актуальный профиль,
// а не снимок из токена.
func JWTMiddleware(verifier AccessVerifier, logger *zap.Logger) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(verifier, logger, next))
	}
}

func handleAuthentication(verifier AccessVerifier, logger *zap.Logger, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		accessToken, ok := bearerToken(request)
		if !ok {
			reject(writer, logger, apperror.ErrNoToken)
			return
		}

		claims, err := verifier.VerifyAccess(request.Context(), accessToken)
		if err != nil {
			reject(writer, logger, err)
			return
		}

		user, err := verifier.CurrentUser(request.Context(), claims.UserID)
		if err != nil {
			reject(writer, logger, fmt.Errorf("пользователь из токена не найден: %w", err))
			return
		}

		metrics.AuthEventsTotal.WithLabelValues("verify", "success").Inc()
		ctx := WithIdentity(request.Context(), user, claims, accessToken)
		next.ServeHTTP(writer, request.WithContext(ctx))
	}
}

func reject(writer http.ResponseWriter, logger *zap.Logger, err error) {
	_, code, _ := response.Classify(err)
	metrics.AuthEventsTotal.WithLabelValues("verify", code).Inc()
	response.Error(writer, logger, err)
}

func bearerToken(request *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := request.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
