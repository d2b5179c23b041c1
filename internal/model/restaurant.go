package model

type Restaurant struct {
	Id              int64   `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	Description     string  `db:"description" json:"description"`
	Cuisine         string  `db:"cuisine" json:"cuisine"`
	Rating          float64 `db:"rating" json:"rating"`
	PriceRange      string  `db:"price_range" json:"priceRange"`
	AvgDeliveryTime int     `db:"avg_delivery_time" json:"avgDeliveryTime"`
	ImageURL        string  `db:"image_url" json:"imageUrl"`
}

type MenuItem struct {
	Id           int64  `db:"id" json:"id"`
	RestaurantId int64  `db:"restaurant_id" json:"restaurantId"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	Price        int64  `db:"price" json:"price"`
	ImageURL     string `db:"image_url" json:"imageUrl"`
	Available    bool   `db:"available" json:"available"`
}

// RestaurantFilter задаёт параметры поиска ресторанов. Пустые поля не учитываются.
type RestaurantFilter struct {
	Category string
	Search   string
}
