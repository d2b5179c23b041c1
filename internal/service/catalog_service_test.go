package service

import (
	"context"
	"testing"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListRestaurants_TrimsFilter(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalogService := NewCatalogService(catalog)

	catalog.On("ListRestaurants", mock.Anything, model.RestaurantFilter{Category: "Italian", Search: "roma"}).
		Return([]model.Restaurant{{Id: 1, Name: "Pizza Roma"}}, nil)

	restaurants, err := catalogService.ListRestaurants(context.Background(), model.RestaurantFilter{Category: " Italian ", Search: "roma "})
	require.NoError(t, err)
	assert.Len(t, restaurants, 1)
}

func TestGetMenu_UnknownRestaurant(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalogService := NewCatalogService(catalog)

	catalog.On("FindRestaurant", mock.Anything, int64(9)).Return(nil, apperror.ErrNotFound)

	_, err := catalogService.GetMenu(context.Background(), 9)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	catalog.AssertNotCalled(t, "ListMenu", mock.Anything, mock.Anything)
}

func TestGetMenu(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalogService := NewCatalogService(catalog)

	catalog.On("FindRestaurant", mock.Anything, int64(1)).Return(&model.Restaurant{Id: 1}, nil)
	catalog.On("ListMenu", mock.Anything, int64(1)).Return(menu()[:2], nil)

	items, err := catalogService.GetMenu(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
