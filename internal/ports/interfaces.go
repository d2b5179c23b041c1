package ports

import (
	"context"
	"time"

	"FoodDelivery/internal/model"
	"FoodDelivery/internal/security"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type RefreshTokenRepositoryInterface interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	ExistsRefreshToken(ctx context.Context, userID int64, tokenHash string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int64, tokenHash string) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type RevokedTokenRepositoryInterface interface {
	RevokeToken(ctx context.Context, token *model.RevokedToken) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	DeleteExpiredRevokedTokens(ctx context.Context, now time.Time) (int64, error)
}

type CatalogRepositoryInterface interface {
	ListRestaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error)
	FindRestaurant(ctx context.Context, id int64) (*model.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error)
	FindMenuItems(ctx context.Context, ids []int64) ([]model.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]model.Order, error)
	FindOrder(ctx context.Context, userID int64, orderID int64) (*model.Order, error)
	FindActiveOrder(ctx context.Context, userID int64) (*model.Order, error)
}

type JWTServiceInterface interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*security.AccessClaims, error)
	ValidateRefreshToken(tokenString string) (*security.RefreshClaims, error)
}

type PasswordHasherInterface interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash string, password string) error
}

type OrderNotifierInterface interface {
	NotifyOrderCreated(ctx context.Context, order *model.Order) error
}
