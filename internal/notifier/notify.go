package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/internal/model"

	"go.uber.org/zap"
)

const orderCreatedEvent = "order_created"

type WebhookNotify struct {
	Event        string `json:"event"`
	OrderID      int64  `json:"orderId"`
	UserID       int64  `json:"userId"`
	RestaurantID int64  `json:"restaurantId"`
	Total        int64  `json:"total"`
	DeliveryType string `json:"deliveryType"`
	TimeStamp    string `json:"timestamp"`
}

// Notifier отправляет события о заказах на внешний webhook. Без URL
// уведомления не отправляются.
type Notifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewNotifier(cfg config.WebhookConfig, logger *zap.Logger) *Notifier {
	return &Notifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (notifier *Notifier) NotifyOrderCreated(ctx context.Context, order *model.Order) error {
	if notifier.url == "" {
		return nil
	}

	payload := &WebhookNotify{
		Event:        orderCreatedEvent,
		OrderID:      order.Id,
		UserID:       order.UserId,
		RestaurantID: order.RestaurantId,
		Total:        order.Total,
		DeliveryType: order.DeliveryType,
		TimeStamp:    order.CreatedAt.UTC().Format(time.RFC3339),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, notifier.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := notifier.client.Do(request)
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook ответил статусом %d", response.StatusCode)
	}

	notifier.logger.Debug("webhook успешно отправлен", zap.Int64("order_id", order.Id))
	return nil
}
