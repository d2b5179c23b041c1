// Package apperror содержит ошибки, общие для репозиториев, сервисов и HTTP
// слоя. Нижние слои оборачивают их через fmt.Errorf("...: %w", err), HTTP слой
// переводит их в статус ответа.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ошибки репозиториев
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// ошибки аутентификации
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrNoToken              = errors.New("no token provided")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrValidation      = errors.New("validation error")
	ErrTooManyRequests = errors.New("too many requests")
)

// ValidationError описывает отклонённое поле запроса. errors.Is сопоставляет
// её с ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid создаёт ValidationError для поля field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
