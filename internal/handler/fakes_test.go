package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int64]*model.User)}
}

func (m *memoryUsers) Create(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return nil, apperror.ErrDuplicateEmail
		}
	}
	m.nextID++
	created := *user
	created.Id = m.nextID
	created.CreatedAt = time.Now()
	m.users[created.Id] = &created
	return &created, nil
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *memoryUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *memoryUsers) delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memoryTokens struct {
	mu      sync.Mutex
	refresh map[string]model.RefreshToken
	revoked map[string]model.RevokedToken
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{
		refresh: make(map[string]model.RefreshToken),
		revoked: make(map[string]model.RevokedToken),
	}
}

func (m *memoryTokens) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[token.TokenHash] = *token
	return nil
}

func (m *memoryTokens) ExistsRefreshToken(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.refresh[tokenHash]
	return ok && token.UserID == userID, nil
}

func (m *memoryTokens) DeleteRefreshToken(ctx context.Context, userID int64, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.refresh[tokenHash]
	if !ok || token.UserID != userID {
		return apperror.ErrRefreshTokenNotFound
	}
	delete(m.refresh, tokenHash)
	return nil
}

func (m *memoryTokens) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for hash, token := range m.refresh {
		if !token.ExpireAt.After(now) {
			delete(m.refresh, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memoryTokens) RevokeToken(ctx context.Context, token *model.RevokedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[token.TokenHash]; !ok {
		m.revoked[token.TokenHash] = *token
	}
	return nil
}

func (m *memoryTokens) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenHash]
	return ok, nil
}

func (m *memoryTokens) DeleteExpiredRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for hash, token := range m.revoked {
		if !token.ExpireAt.After(now) {
			delete(m.revoked, hash)
			deleted++
		}
	}
	return deleted, nil
}

type memoryCatalog struct {
	restaurants []model.Restaurant
	menu        []model.MenuItem
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		restaurants: []model.Restaurant{
			{Id: 1, Name: "Pizza Roma", Cuisine: "Italian", Rating: 4.8, PriceRange: "$$", AvgDeliveryTime: 30},
			{Id: 2, Name: "Sushi Go", Cuisine: "Japanese", Rating: 4.5, PriceRange: "$$$", AvgDeliveryTime: 40},
		},
		menu: []model.MenuItem{
			{Id: 10, RestaurantId: 1, Name: "Margherita", Price: 550, Available: true},
			{Id: 11, RestaurantId: 1, Name: "Diavola", Price: 600, Available: true},
			{Id: 20, RestaurantId: 2, Name: "Ramen", Price: 450, Available: true},
		},
	}
}

func (m *memoryCatalog) ListRestaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error) {
	restaurants := []model.Restaurant{}
	for _, restaurant := range m.restaurants {
		if filter.Category != "" && restaurant.Cuisine != filter.Category {
			continue
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

func (m *memoryCatalog) FindRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	for _, restaurant := range m.restaurants {
		if restaurant.Id == id {
			found := restaurant
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *memoryCatalog) ListMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	for _, item := range m.menu {
		if item.RestaurantId == restaurantID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *memoryCatalog) FindMenuItems(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	for _, item := range m.menu {
		for _, id := range ids {
			if item.Id == id {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func (m *memoryCatalog) ListCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	categories := []string{}
	for _, restaurant := range m.restaurants {
		if !seen[restaurant.Cuisine] {
			seen[restaurant.Cuisine] = true
			categories = append(categories, restaurant.Cuisine)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

type memoryOrders struct {
	mu     sync.Mutex
	orders []model.Order
}

func (m *memoryOrders) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.Id = int64(len(m.orders) + 1)
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, *order)
	return order, nil
}

func (m *memoryOrders) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []model.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserId == userID {
			orders = append(orders, m.orders[i])
		}
	}
	return orders, nil
}

func (m *memoryOrders) FindOrder(ctx context.Context, userID int64, orderID int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.orders {
		if order.Id == orderID && order.UserId == userID {
			found := order
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *memoryOrders) FindActiveOrder(ctx context.Context, userID int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserId == userID && m.orders[i].Status.Active() {
			found := m.orders[i]
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}
