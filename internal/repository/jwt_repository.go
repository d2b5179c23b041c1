package repository

import (
	"context"
	"fmt"
	"time"

	"FoodDelivery/internal"
	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"

	"github.com/google/uuid"
)

// JWTRepository хранит хэши выданных refresh токенов и отозванных access
// токенов.
type JWTRepository struct {
	*internal.Database
}

func NewJWTRepository(database *internal.Database) *JWTRepository {
	return &JWTRepository{database}
}

func (repository *JWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token_hash, expire_at, user_agent, ip_address)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	if token.UUID == "" {
		token.UUID = uuid.New().String()
	}

	_, err := repository.DB.ExecContext(ctx, query,
		token.UUID, token.UserID, token.TokenHash, token.ExpireAt, token.UserAgent, token.IpAddress)
	if err != nil {
		return fmt.Errorf("ошибка вставки данных в БД: %w", err)
	}

	return nil
}

func (repository *JWTRepository) ExistsRefreshToken(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2)`

	var exists bool
	if err := repository.DB.GetContext(ctx, &exists, query, userID, tokenHash); err != nil {
		return false, fmt.Errorf("ошибка поиска рефреш токена: %w", err)
	}

	return exists, nil
}

func (repository *JWTRepository) DeleteRefreshToken(ctx context.Context, userID int64, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`

	result, err := repository.DB.ExecContext(ctx, query, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("не удалось удалить рефреш токен: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("не удалось проверить, удален ли токен: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.ErrRefreshTokenNotFound
	}

	return nil
}

func (repository *JWTRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return repository.deleteExpired(ctx, `DELETE FROM refresh_tokens WHERE expire_at <= $1`, now)
}

func (repository *JWTRepository) RevokeToken(ctx context.Context, token *model.RevokedToken) error {
	query := `INSERT INTO revoked_tokens (token_hash, user_id, expire_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (token_hash) DO NOTHING`

	if _, err := repository.DB.ExecContext(ctx, query, token.TokenHash, token.UserID, token.ExpireAt); err != nil {
		return fmt.Errorf("не удалось отозвать токен: %w", err)
	}

	return nil
}

func (repository *JWTRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`

	var revoked bool
	if err := repository.DB.GetContext(ctx, &revoked, query, tokenHash); err != nil {
		return false, fmt.Errorf("ошибка проверки отзыва токена: %w", err)
	}

	return revoked, nil
}

func (repository *JWTRepository) DeleteExpiredRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	return repository.deleteExpired(ctx, `DELETE FROM revoked_tokens WHERE expire_at <= $1`, now)
}

func (repository *JWTRepository) deleteExpired(ctx context.Context, query string, now time.Time) (int64, error) {
	result, err := repository.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления просроченных токенов: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("не удалось получить число удаленных токенов: %w", err)
	}

	return deleted, nil
}
