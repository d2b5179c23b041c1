// Package response пишет JSON ответы API и переводит ошибки приложения в
// HTTP статус и машиночитаемый код.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"FoodDelivery/internal/apperror"

	"go.uber.org/zap"
)

// Коды ошибок, на которые опирается клиент. Клиент обновляет access токен
// только при CodeTokenExpired.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeNoToken               = "NO_TOKEN"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeTokenInvalid          = "TOKEN_INVALID"
	CodeTokenRevoked          = "TOKEN_REVOKED"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeRefreshTokenRequired  = "REFRESH_TOKEN_REQUIRED"
	CodeRefreshTokenExpired   = "REFRESH_TOKEN_EXPIRED"
	CodeRefreshTokenNotFound  = "REFRESH_TOKEN_NOT_FOUND"
	CodeNotFound              = "NOT_FOUND"
	CodeTooManyRequests       = "TOO_MANY_REQUESTS"
	CodeInternal              = "INTERNAL_ERROR"
	internalErrorMessage      = "internal server error"
)

// ErrorBody описывает тело ответа с ошибкой.
// swagger:model
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	{apperror.ErrValidation, http.StatusBadRequest, CodeValidation},
	{apperror.ErrDuplicateEmail, http.StatusConflict, CodeEmailTaken},
	{apperror.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{apperror.ErrNoToken, http.StatusUnauthorized, CodeNoToken},
	{apperror.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{apperror.ErrRefreshTokenRequired, http.StatusUnauthorized, CodeRefreshTokenRequired},
	{apperror.ErrRefreshTokenExpired, http.StatusUnauthorized, CodeRefreshTokenExpired},
	{apperror.ErrTokenInvalid, http.StatusForbidden, CodeTokenInvalid},
	{apperror.ErrTokenRevoked, http.StatusForbidden, CodeTokenRevoked},
	{apperror.ErrRefreshTokenNotFound, http.StatusForbidden, CodeRefreshTokenNotFound},
	{apperror.ErrUserNotFound, http.StatusForbidden, CodeUserNotFound},
	{apperror.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{apperror.ErrTooManyRequests, http.StatusTooManyRequests, CodeTooManyRequests},
}

// Classify возвращает статус, код и сообщение для клиента. Неизвестные
// ошибки превращаются в 500 без подробностей.
func Classify(err error) (int, string, string) {
	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, CodeValidation, validationErr.Error()
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.target.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternal, internalErrorMessage
}

func JSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

// Error пишет ошибку в формате ErrorBody. Ошибки 5xx логируются целиком.
func Error(writer http.ResponseWriter, logger *zap.Logger, err error) {
	status, code, message := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("ошибка обработки запроса", zap.Error(err))
	} else {
		logger.Debug("запрос отклонён", zap.String("code", code), zap.Error(err))
	}
	if status == http.StatusUnauthorized {
		writer.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	JSON(writer, status, ErrorBody{Success: false, Message: message, Code: code})
}
