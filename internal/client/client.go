// Package client реализует Go клиент API доставки еды. Client хранит сессию явно,
// без глобального состояния, и прозрачно обновляет истёкший access токен.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FoodDelivery/internal/model"
)

type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
}

// NewClient создаёт клиента для API с базовым адресом вида
// http://localhost:5000/api.
func NewClient(baseURL string, store TokenStore, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")

	session, err := NewSession(baseURL, store, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		session: session,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &Transport{Session: session},
		},
	}, nil
}

func (client *Client) Session() *Session {
	return client.session
}

type authResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

func (client *Client) Register(ctx context.Context, input model.RegisterInput) (*model.User, error) {
	var out authResponse
	if err := client.do(ctx, http.MethodPost, "/auth/register", input, &out); err != nil {
		return nil, err
	}
	if err := client.session.SetTokens(Tokens{AccessToken: out.Token, RefreshToken: out.RefreshToken}); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (client *Client) Login(ctx context.Context, email string, password string) (*model.User, error) {
	var out authResponse
	err := client.do(ctx, http.MethodPost, "/auth/login", model.LoginInput{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if err := client.session.SetTokens(Tokens{AccessToken: out.Token, RefreshToken: out.RefreshToken}); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout просит сервер отозвать токены, но локальные токены удаляет в любом
// случае. Ошибка возвращается, только если не удалось очистить хранилище.
func (client *Client) Logout(ctx context.Context) error {
	tokens := client.session.Tokens()
	if tokens.AccessToken != "" {
		body := map[string]string{"refreshToken": tokens.RefreshToken}
		_ = client.do(ctx, http.MethodPost, "/auth/logout", body, nil)
	}
	return client.session.Clear()
}

// Refresh принудительно обновляет access токен.
func (client *Client) Refresh(ctx context.Context) error {
	_, err := client.session.Refresh(ctx, client.session.AccessToken())
	return err
}

func (client *Client) Me(ctx context.Context) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := client.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (client *Client) Restaurants(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	path := "/restaurants"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out struct {
		Restaurants []model.Restaurant `json:"restaurants"`
	}
	if err := client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Restaurants, nil
}

func (client *Client) Restaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	var out struct {
		Restaurant *model.Restaurant `json:"restaurant"`
	}
	if err := client.do(ctx, http.MethodGet, "/restaurants/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return out.Restaurant, nil
}

func (client *Client) Menu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	var out struct {
		Items []model.MenuItem `json:"items"`
	}
	path := "/restaurants/" + strconv.FormatInt(restaurantID, 10) + "/menu"
	if err := client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (client *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := client.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (client *Client) CreateOrder(ctx context.Context, input model.CreateOrderInput) (*model.Order, error) {
	var out struct {
		Order *model.Order `json:"order"`
	}
	if err := client.do(ctx, http.MethodPost, "/orders", input, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (client *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Orders []model.Order `json:"orders"`
	}
	if err := client.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// ActiveOrder возвращает nil, если незавершённого заказа нет.
func (client *Client) ActiveOrder(ctx context.Context) (*model.Order, error) {
	var out struct {
		Order *model.Order `json:"order"`
	}
	if err := client.do(ctx, http.MethodGet, "/orders/active", nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (client *Client) Order(ctx context.Context, id int64) (*model.Order, error) {
	var out struct {
		Order *model.Order `json:"order"`
	}
	if err := client.do(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (client *Client) do(ctx context.Context, method string, path string, in any, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ошибка преобразования в json: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	var request *http.Request
	var err error
	if body != nil {
		request, err = http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	} else {
		request, err = http.NewRequestWithContext(ctx, method, client.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	return nil
}
