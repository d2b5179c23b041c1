package model

import "time"

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusCooking    OrderStatus = "cooking"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
)

// Active сообщает, что заказ ещё не доставлен.
func (s OrderStatus) Active() bool {
	return s != OrderStatusCompleted
}

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

type Order struct {
	Id              int64       `db:"id" json:"id"`
	UserId          int64       `db:"user_id" json:"userId"`
	RestaurantId    int64       `db:"restaurant_id" json:"restaurantId"`
	Status          OrderStatus `db:"status" json:"status"`
	DeliveryType    string      `db:"delivery_type" json:"deliveryType"`
	DeliveryAddress string      `db:"delivery_address" json:"deliveryAddress"`
	Comment         string      `db:"comment" json:"comment"`
	Total           int64       `db:"total" json:"total"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	Items           []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	OrderId    int64  `db:"order_id" json:"-"`
	MenuItemId int64  `db:"menu_item_id" json:"menuItemId"`
	Name       string `db:"name" json:"name"`
	Price      int64  `db:"price" json:"price"`
	Quantity   int    `db:"quantity" json:"quantity"`
}

// CreateOrderInput описывает тело запроса на оформление заказа.
type CreateOrderInput struct {
	RestaurantId    int64            `json:"restaurantId"`
	Items           []OrderItemInput `json:"items"`
	DeliveryType    string           `json:"deliveryType"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Comment         string           `json:"comment"`
}

type OrderItemInput struct {
	MenuItemId int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}
