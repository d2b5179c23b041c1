package handler

import (
	"context"
	"net/http"

	"FoodDelivery/internal/model"
	"FoodDelivery/internal/response"
	"FoodDelivery/internal/service"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	*service.CatalogService
	logger *zap.Logger
}

// swagger:model
type RestaurantsResponse struct {
	Success     bool               `json:"success"`
	Restaurants []model.Restaurant `json:"restaurants"`
}

// swagger:model
type RestaurantResponse struct {
	Success    bool              `json:"success"`
	Restaurant *model.Restaurant `json:"restaurant"`
}

// swagger:model
type MenuResponse struct {
	Success bool             `json:"success"`
	Items   []model.MenuItem `json:"items"`
}

// swagger:model
type CategoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService, logger}
}

// ListRestaurants godoc
// @Summary Список ресторанов
// @Description Рестораны по убыванию рейтинга. Пример запроса: GET /api/restaurants?category=Italian&search=roma
// @Tags Catalog
// @Produce json
// @Param category query string false "Кухня"
// @Param search query string false "Часть названия"
// @Success 200 {object} RestaurantsResponse
// @Router /restaurants [get]
func (handler *CatalogHandler) ListRestaurants(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	query := request.URL.Query()
	restaurants, err := handler.CatalogService.ListRestaurants(ctx, model.RestaurantFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
	})
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &RestaurantsResponse{Success: true, Restaurants: restaurants})
}

// GetRestaurant godoc
// @Summary Ресторан
// @Tags Catalog
// @Produce json
// @Param id path int true "ID ресторана"
// @Success 200 {object} RestaurantResponse
// @Failure 400 {object} response.ErrorBody "VALIDATION_ERROR"
// @Failure 404 {object} response.ErrorBody "NOT_FOUND"
// @Router /restaurants/{id} [get]
func (handler *CatalogHandler) GetRestaurant(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	id, err := idParam(request, "id")
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	restaurant, err := handler.CatalogService.GetRestaurant(ctx, id)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &RestaurantResponse{Success: true, Restaurant: restaurant})
}

// GetMenu godoc
// @Summary Меню ресторана
// @Tags Catalog
// @Produce json
// @Param id path int true "ID ресторана"
// @Success 200 {object} MenuResponse
// @Failure 404 {object} response.ErrorBody "NOT_FOUND"
// @Router /restaurants/{id}/menu [get]
func (handler *CatalogHandler) GetMenu(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	id, err := idParam(request, "id")
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	items, err := handler.CatalogService.GetMenu(ctx, id)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &MenuResponse{Success: true, Items: items})
}

// ListCategories godoc
// @Summary Категории (кухни)
// @Tags Catalog
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (handler *CatalogHandler) ListCategories(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	categories, err := handler.CatalogService.ListCategories(ctx)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &CategoriesResponse{Success: true, Categories: categories})
}
