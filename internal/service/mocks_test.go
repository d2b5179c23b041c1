package service

import (
	"context"
	"time"

	"FoodDelivery/internal/model"
	"FoodDelivery/internal/security"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*model.User)
	return created, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type MockJWTRepository struct {
	mock.Mock
}

func (m *MockJWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockJWTRepository) ExistsRefreshToken(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	args := m.Called(ctx, userID, tokenHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockJWTRepository) DeleteRefreshToken(ctx context.Context, userID int64, tokenHash string) error {
	return m.Called(ctx, userID, tokenHash).Error(0)
}

func (m *MockJWTRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockRevokedRepository struct {
	mock.Mock
}

func (m *MockRevokedRepository) RevokeToken(ctx context.Context, token *model.RevokedToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRevokedRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	args := m.Called(ctx, tokenHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevokedRepository) DeleteExpiredRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userID int64, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(userID int64) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockJWTService) ValidateAccessToken(tokenString string) (*security.AccessClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*security.AccessClaims)
	return claims, args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (*security.RefreshClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*security.RefreshClaims)
	return claims, args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(ctx context.Context, hash string, password string) error {
	return m.Called(ctx, hash, password).Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListRestaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error) {
	args := m.Called(ctx, filter)
	restaurants, _ := args.Get(0).([]model.Restaurant)
	return restaurants, args.Error(1)
}

func (m *MockCatalogRepository) FindRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	restaurant, _ := args.Get(0).(*model.Restaurant)
	return restaurant, args.Error(1)
}

func (m *MockCatalogRepository) ListMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *MockCatalogRepository) FindMenuItems(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if fn, ok := args.Get(0).(func(context.Context, *model.Order) *model.Order); ok {
		return fn(ctx, order), args.Error(1)
	}
	created, _ := args.Get(0).(*model.Order)
	return created, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) FindOrder(ctx context.Context, userID int64, orderID int64) (*model.Order, error) {
	args := m.Called(ctx, userID, orderID)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockOrderRepository) FindActiveOrder(ctx context.Context, userID int64) (*model.Order, error) {
	args := m.Called(ctx, userID)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOrderCreated(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}
