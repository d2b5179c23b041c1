package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"FoodDelivery/internal"
	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"

	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	*internal.Database
}

func NewOrderRepository(database *internal.Database) *OrderRepository {
	return &OrderRepository{database}
}

const orderColumns = `id, user_id, restaurant_id, status, delivery_type, delivery_address, comment, total, created_at`

// CreateOrder сохраняет заказ и его позиции в одной транзакции.
func (repository *OrderRepository) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	err := repository.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `INSERT INTO orders (user_id, restaurant_id, status, delivery_type, delivery_address, comment, total)
				  VALUES ($1, $2, $3, $4, $5, $6, $7)
				  RETURNING id, created_at`

		err := tx.QueryRowxContext(ctx, query,
			order.UserId, order.RestaurantId, order.Status, order.DeliveryType,
			order.DeliveryAddress, order.Comment, order.Total,
		).Scan(&order.Id, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("ошибка вставки заказа: %w", err)
		}

		for i := range order.Items {
			order.Items[i].OrderId = order.Id
		}

		itemsQuery := `INSERT INTO order_items (order_id, menu_item_id, name, price, quantity)
					   VALUES (:order_id, :menu_item_id, :name, :price, :quantity)`
		if _, err := tx.NamedExecContext(ctx, itemsQuery, order.Items); err != nil {
			return fmt.Errorf("ошибка вставки позиций заказа: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (repository *OrderRepository) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	orders := []model.Order{}
	if err := repository.DB.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка получения заказов: %w", err)
	}

	if err := repository.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// FindOrder ищет заказ пользователя. Чужой заказ неотличим от отсутствующего.
func (repository *OrderRepository) FindOrder(ctx context.Context, userID int64, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return repository.findOne(ctx, query, orderID, userID)
}

func (repository *OrderRepository) FindActiveOrder(ctx context.Context, userID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE user_id = $1 AND status <> $2
			  ORDER BY created_at DESC, id DESC
			  LIMIT 1`
	return repository.findOne(ctx, query, userID, model.OrderStatusCompleted)
}

func (repository *OrderRepository) findOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	var order model.Order
	if err := repository.DB.GetContext(ctx, &order, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заказа: %w", err)
	}

	orders := []model.Order{order}
	if err := repository.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

func (repository *OrderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]int, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].Id)
		byID[orders[i].Id] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(`SELECT order_id, menu_item_id, name, price, quantity
			  FROM order_items
			  WHERE order_id IN (?)
			  ORDER BY order_id, menu_item_id`, ids)
	if err != nil {
		return fmt.Errorf("ошибка построения запроса: %w", err)
	}

	var items []model.OrderItem
	if err := repository.DB.SelectContext(ctx, &items, repository.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("ошибка получения позиций заказа: %w", err)
	}

	for _, item := range items {
		if i, ok := byID[item.OrderId]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return nil
}
