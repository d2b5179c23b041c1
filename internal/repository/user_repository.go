package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"FoodDelivery/internal"
	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"
)

type UserRepository struct {
	*internal.Database
}

func NewUserRepository(database *internal.Database) *UserRepository {
	return &UserRepository{database}
}

func (repository *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query := `INSERT INTO users (name, email, phone, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`

	err := repository.DB.QueryRowxContext(ctx, query, user.Name, user.Email, user.Phone, user.PasswordHash).
		Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("ошибка вставки пользователя: %w", err)
	}

	return user, nil
}

func (repository *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, phone, password_hash, created_at FROM users WHERE email = $1`
	return repository.findOne(ctx, query, email)
}

func (repository *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, name, email, phone, password_hash, created_at FROM users WHERE id = $1`
	return repository.findOne(ctx, query, id)
}

func (repository *UserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User

	err := repository.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return &user, nil
}
