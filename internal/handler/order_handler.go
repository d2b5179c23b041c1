package handler

import (
	"context"
	"net/http"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"
	"FoodDelivery/internal/response"
	"FoodDelivery/internal/security"
	"FoodDelivery/internal/service"

	"go.uber.org/zap"
)

type OrderHandler struct {
	*service.OrderService
	logger *zap.Logger
}

// OrderResponse содержит один заказ. Для /orders/active order может быть null.
// swagger:model
type OrderResponse struct {
	Success bool         `json:"success"`
	Order   *model.Order `json:"order"`
}

// swagger:model
type OrdersResponse struct {
	Success bool          `json:"success"`
	Orders  []model.Order `json:"orders"`
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService, logger}
}

// CreateOrder godoc
// @Summary Оформление заказа
// @Description Сумма считается на сервере по текущим ценам меню. Пример запроса: POST /api/orders с телом {"restaurantId": 1, "items": [{"menuItemId": 10, "quantity": 2}], "deliveryType": "delivery", "deliveryAddress": "ул. Ленина, 1"}
// @Tags Orders
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param request body model.CreateOrderInput true "Заказ"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} response.ErrorBody "VALIDATION_ERROR"
// @Failure 404 {object} response.ErrorBody "ресторан не найден"
// @Security ApiKeyAuth
// @Router /orders [post]
func (handler *OrderHandler) CreateOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	user, ok := security.UserFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, apperror.ErrNoToken)
		return
	}

	var input model.CreateOrderInput
	if err := decodeJSON(writer, request, &input, false); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	order, err := handler.OrderService.CreateOrder(ctx, user.Id, input)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusCreated, &OrderResponse{Success: true, Order: order})
}

// ListOrders godoc
// @Summary История заказов
// @Tags Orders
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} OrdersResponse
// @Security ApiKeyAuth
// @Router /orders [get]
func (handler *OrderHandler) ListOrders(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	user, ok := security.UserFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, apperror.ErrNoToken)
		return
	}

	orders, err := handler.OrderService.ListOrders(ctx, user.Id)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &OrdersResponse{Success: true, Orders: orders})
}

// ActiveOrder godoc
// @Summary Текущий незавершенный заказ
// @Tags Orders
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} OrderResponse "order равен null, если активного заказа нет"
// @Security ApiKeyAuth
// @Router /orders/active [get]
func (handler *OrderHandler) ActiveOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	user, ok := security.UserFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, apperror.ErrNoToken)
		return
	}

	order, err := handler.OrderService.ActiveOrder(ctx, user.Id)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &OrderResponse{Success: true, Order: order})
}

// GetOrder godoc
// @Summary Заказ
// @Description Чужой заказ возвращает 404, как и несуществующий.
// @Tags Orders
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param id path int true "ID заказа"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} response.ErrorBody "NOT_FOUND"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (handler *OrderHandler) GetOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	user, ok := security.UserFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, apperror.ErrNoToken)
		return
	}

	id, err := idParam(request, "id")
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	order, err := handler.OrderService.GetOrder(ctx, user.Id, id)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, &OrderResponse{Success: true, Order: order})
}
