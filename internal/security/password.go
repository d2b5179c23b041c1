package security

import (
	"context"
	"errors"
	"fmt"

	"FoodDelivery/internal/apperror"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher хэширует пароли bcrypt'ом. Не больше workers операций
// выполняются одновременно, остальные ждут своей очереди или отмены ctx.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewPasswordHasher(cost int, workers int) *PasswordHasher {
	if workers < 1 {
		workers = 1
	}
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

func (hasher *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := hasher.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("ожидание хэширования прервано: %w", err)
	}
	defer hasher.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования: %w", err)
	}
	return string(hash), nil
}

// Compare возвращает apperror.ErrInvalidCredentials, если пароль не подходит.
func (hasher *PasswordHasher) Compare(ctx context.Context, hash string, password string) error {
	if err := hasher.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("ожидание проверки пароля прервано: %w", err)
	}
	defer hasher.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperror.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	return nil
}
