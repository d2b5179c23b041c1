package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"FoodDelivery/internal"
	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"

	"github.com/jmoiron/sqlx"
)

type CatalogRepository struct {
	*internal.Database
}

func NewCatalogRepository(database *internal.Database) *CatalogRepository {
	return &CatalogRepository{database}
}

const restaurantColumns = `r.id, r.name, r.description, c.name AS cuisine, r.rating,
			  r.price_range, r.avg_delivery_time, r.image_url`

// likeEscaper экранирует метасимволы LIKE, чтобы поиск шёл по подстроке буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (repository *CatalogRepository) ListRestaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "c.name = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, likeEscaper.Replace(filter.Search))
		conditions = append(conditions, "r.name ILIKE '%' || $"+strconv.Itoa(len(args))+` || '%' ESCAPE '\'`)
	}

	query := `SELECT ` + restaurantColumns + `
			  FROM restaurants r
			  JOIN categories c ON c.id = r.category_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.rating DESC, r.id"

	restaurants := []model.Restaurant{}
	if err := repository.DB.SelectContext(ctx, &restaurants, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка получения ресторанов: %w", err)
	}

	return restaurants, nil
}

func (repository *CatalogRepository) FindRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + `
			  FROM restaurants r
			  JOIN categories c ON c.id = r.category_id
			  WHERE r.id = $1`

	var restaurant model.Restaurant
	if err := repository.DB.GetContext(ctx, &restaurant, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения ресторана: %w", err)
	}

	return &restaurant, nil
}

func (repository *CatalogRepository) ListMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	query := `SELECT id, restaurant_id, name, description, price, image_url, available
			  FROM menu_items
			  WHERE restaurant_id = $1
			  ORDER BY id`

	items := []model.MenuItem{}
	if err := repository.DB.SelectContext(ctx, &items, query, restaurantID); err != nil {
		return nil, fmt.Errorf("ошибка получения меню: %w", err)
	}

	return items, nil
}

func (repository *CatalogRepository) FindMenuItems(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	if len(ids) == 0 {
		return items, nil
	}

	query, args, err := sqlx.In(`SELECT id, restaurant_id, name, description, price, image_url, available
			  FROM menu_items
			  WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса: %w", err)
	}

	if err := repository.DB.SelectContext(ctx, &items, repository.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("ошибка получения позиций меню: %w", err)
	}

	return items, nil
}

func (repository *CatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := repository.DB.SelectContext(ctx, &categories, `SELECT name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}

	return categories, nil
}
