package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/metrics"
	"FoodDelivery/internal/model"
	"FoodDelivery/internal/ports"

	"go.uber.org/zap"
)

const (
	maxItemQuantity  = 99
	maxCommentLength = 500
)

// OrderService оформляет заказы. Сумма заказа считается по текущим ценам меню,
// цены от клиента не принимаются.
type OrderService struct {
	OrderRepository   ports.OrderRepositoryInterface
	CatalogRepository ports.CatalogRepositoryInterface
	Notifier          ports.OrderNotifierInterface
	Logger            *zap.Logger
	notifications     sync.WaitGroup
}

func NewOrderService(
	orderRepository ports.OrderRepositoryInterface,
	catalogRepository ports.CatalogRepositoryInterface,
	notifier ports.OrderNotifierInterface,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		OrderRepository:   orderRepository,
		CatalogRepository: catalogRepository,
		Notifier:          notifier,
		Logger:            logger,
	}
}

func (service *OrderService) CreateOrder(ctx context.Context, userID int64, input model.CreateOrderInput) (*model.Order, error) {
	quantities, order, err := normalizeOrderInput(input)
	if err != nil {
		return nil, err
	}

	if _, err := service.CatalogRepository.FindRestaurant(ctx, input.RestaurantId); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(quantities))
	for _, item := range order.Items {
		ids = append(ids, item.MenuItemId)
	}

	menuItems, err := service.CatalogRepository.FindMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить позиции меню: %w", err)
	}
	byID := make(map[int64]model.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.Id] = item
	}

	for i := range order.Items {
		menuItem, ok := byID[order.Items[i].MenuItemId]
		if !ok || menuItem.RestaurantId != input.RestaurantId {
			return nil, apperror.Invalid("items", fmt.Sprintf("menu item %d does not belong to restaurant %d", order.Items[i].MenuItemId, input.RestaurantId))
		}
		if !menuItem.Available {
			return nil, apperror.Invalid("items", fmt.Sprintf("menu item %d is not available", menuItem.Id))
		}
		order.Items[i].Name = menuItem.Name
		order.Items[i].Price = menuItem.Price
		order.Total += menuItem.Price * int64(order.Items[i].Quantity)
	}

	order.UserId = userID
	order.RestaurantId = input.RestaurantId
	order.Status = model.OrderStatusCreated

	created, err := service.OrderRepository.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать заказ: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	service.Logger.Info("создан заказ",
		zap.Int64("order_id", created.Id),
		zap.Int64("user_id", userID),
		zap.Int64("total", created.Total),
	)
	service.notify(ctx, created)

	return created, nil
}

// notify отправляет уведомление в фоне, не задерживая ответ клиенту.
func (service *OrderService) notify(ctx context.Context, order *model.Order) {
	if service.Notifier == nil {
		return
	}

	service.notifications.Add(1)
	go func() {
		defer service.notifications.Done()
		if err := service.Notifier.NotifyOrderCreated(context.WithoutCancel(ctx), order); err != nil {
			service.Logger.Warn("ошибка отправки webhook", zap.Int64("order_id", order.Id), zap.Error(err))
		}
	}()
}

// Wait дожидается отправки всех начатых уведомлений.
func (service *OrderService) Wait() {
	service.notifications.Wait()
}

func (service *OrderService) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return service.OrderRepository.ListOrders(ctx, userID)
}

func (service *OrderService) GetOrder(ctx context.Context, userID int64, orderID int64) (*model.Order, error) {
	return service.OrderRepository.FindOrder(ctx, userID, orderID)
}

// ActiveOrder возвращает nil без ошибки, если активного заказа нет.
func (service *OrderService) ActiveOrder(ctx context.Context, userID int64) (*model.Order, error) {
	order, err := service.OrderRepository.FindActiveOrder(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	return order, err
}

// normalizeOrderInput проверяет тело запроса и сливает повторяющиеся позиции.
func normalizeOrderInput(input model.CreateOrderInput) (map[int64]int, *model.Order, error) {
	if input.RestaurantId <= 0 {
		return nil, nil, apperror.Invalid("restaurantId", "restaurantId is required")
	}
	if len(input.Items) == 0 {
		return nil, nil, apperror.Invalid("items", "order must contain at least one item")
	}

	deliveryType := strings.TrimSpace(input.DeliveryType)
	if deliveryType == "" {
		deliveryType = model.DeliveryTypeDelivery
	}
	if deliveryType != model.DeliveryTypeDelivery && deliveryType != model.DeliveryTypePickup {
		return nil, nil, apperror.Invalid("deliveryType", "deliveryType must be delivery or pickup")
	}

	address := strings.TrimSpace(input.DeliveryAddress)
	if deliveryType == model.DeliveryTypeDelivery && address == "" {
		return nil, nil, apperror.Invalid("deliveryAddress", "deliveryAddress is required for delivery")
	}

	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, nil, apperror.Invalid("comment", "comment must be at most 500 characters")
	}

	quantities := make(map[int64]int, len(input.Items))
	order := &model.Order{
		DeliveryType:    deliveryType,
		DeliveryAddress: address,
		Comment:         comment,
	}
	for _, item := range input.Items {
		if item.MenuItemId <= 0 {
			return nil, nil, apperror.Invalid("items", "menuItemId is required")
		}
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			return nil, nil, apperror.Invalid("items", "quantity must be between 1 and 99")
		}
		if _, seen := quantities[item.MenuItemId]; !seen {
			order.Items = append(order.Items, model.OrderItem{MenuItemId: item.MenuItemId})
		}
		quantities[item.MenuItemId] += item.Quantity
	}

	for i := range order.Items {
		quantity := quantities[order.Items[i].MenuItemId]
		if quantity > maxItemQuantity {
			return nil, nil, apperror.Invalid("items", "quantity must be between 1 and 99")
		}
		order.Items[i].Quantity = quantity
	}

	return quantities, order, nil
}
