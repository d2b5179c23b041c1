package service

import (
	"context"
	"strings"

	"FoodDelivery/internal/model"
	"FoodDelivery/internal/ports"
)

type CatalogService struct {
	CatalogRepository ports.CatalogRepositoryInterface
}

func NewCatalogService(catalogRepository ports.CatalogRepositoryInterface) *CatalogService {
	return &CatalogService{CatalogRepository: catalogRepository}
}

func (service *CatalogService) ListRestaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return service.CatalogRepository.ListRestaurants(ctx, filter)
}

func (service *CatalogService) GetRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	return service.CatalogRepository.FindRestaurant(ctx, id)
}

// GetMenu возвращает ErrNotFound для несуществующего ресторана, а не пустое меню.
func (service *CatalogService) GetMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	if _, err := service.CatalogRepository.FindRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return service.CatalogRepository.ListMenu(ctx, restaurantID)
}

func (service *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return service.CatalogRepository.ListCategories(ctx)
}
