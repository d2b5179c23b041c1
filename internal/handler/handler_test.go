package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/internal/middleware"
	"FoodDelivery/internal/response"
	"FoodDelivery/internal/security"
	"FoodDelivery/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	router    http.Handler
	users     *memoryUsers
	tokens    *memoryTokens
	jwtConfig config.JWTConfig
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "food-delivery-test",
	}
}

func newTestAPI(t *testing.T, limiter *middleware.IPRateLimiter) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	api := &testAPI{
		users:     newMemoryUsers(),
		tokens:    newMemoryTokens(),
		jwtConfig: testJWTConfig(),
	}
	catalog := newMemoryCatalog()

	authService := service.NewAuthenticationService(
		api.users, api.tokens, api.tokens,
		security.NewJWTService(api.jwtConfig),
		security.NewPasswordHasher(bcrypt.MinCost, 2),
		logger,
	)
	orderService := service.NewOrderService(&memoryOrders{}, catalog, nil, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, "/api", Handlers{
		Auth:        NewAuthenticationHandler(authService, logger),
		Catalog:     NewCatalogHandler(service.NewCatalogService(catalog), logger),
		Orders:      NewOrderHandler(orderService, logger),
		RateLimiter: limiter,
		Logger:      logger,
	})
	api.router = router
	return api
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	}
	return recorder, decoded
}

func (api *testAPI) register(t *testing.T, email string) (string, string) {
	t.Helper()
	recorder, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Anna", "email": email, "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	return body["token"].(string), body["refreshToken"].(string)
}

func TestRegisterThenMe(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "A", "email": "a@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, response.CodeValidation, body["code"])

	recorder, body = api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "A", "email": "a@x.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "passwordHash")

	recorder, body = api.do(t, http.MethodGet, "/api/auth/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	me := body["user"].(map[string]any)
	assert.Equal(t, user["id"], me["id"])
	assert.Equal(t, "A", me["name"])
	assert.Equal(t, "a@x.com", me["email"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t, nil)
	api.register(t, "a@x.com")

	recorder, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Anna", "email": "a@x.com", "password": "Secret123",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, response.CodeEmailTaken, body["code"])
}

func TestRegister_InvalidJSON(t *testing.T) {
	api := newTestAPI(t, nil)

	request := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), response.CodeValidation)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, nil)
	api.register(t, "a@x.com")

	recorder, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com", "password": "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, response.CodeInvalidCredentials, body["code"])
	assert.NotContains(t, body, "token")

	recorder, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ghost@x.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, response.CodeInvalidCredentials, body["code"])

	recorder, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = api.do(t, http.MethodGet, "/api/auth/me", body["token"].(string), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestExpiredTokenRefreshAndReplay(t *testing.T) {
	api := newTestAPI(t, nil)
	_, refreshToken := api.register(t, "a@x.com")

	expiredConfig := api.jwtConfig
	expiredConfig.AccessTokenTTL = -time.Minute
	expired, err := security.NewJWTService(expiredConfig).GenerateAccessToken(1, "a@x.com")
	require.NoError(t, err)

	recorder, body := api.do(t, http.MethodGet, "/api/orders", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, response.CodeTokenExpired, body["code"])

	recorder, body = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refreshToken})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, body, "refreshToken")

	recorder, _ = api.do(t, http.MethodGet, "/api/orders", body["token"].(string), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRefresh_Failures(t *testing.T) {
	api := newTestAPI(t, nil)
	accessToken, _ := api.register(t, "a@x.com")

	expiredConfig := api.jwtConfig
	expiredConfig.RefreshTokenTTL = -time.Minute
	expiredRefresh, _, err := security.NewJWTService(expiredConfig).GenerateRefreshToken(1)
	require.NoError(t, err)

	notStored, _, err := security.NewJWTService(api.jwtConfig).GenerateRefreshToken(1)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"no body", nil, http.StatusUnauthorized, response.CodeRefreshTokenRequired},
		{"empty token", map[string]any{"refreshToken": ""}, http.StatusUnauthorized, response.CodeRefreshTokenRequired},
		{"garbage", map[string]any{"refreshToken": "not-a-jwt"}, http.StatusForbidden, response.CodeTokenInvalid},
		{"access token", map[string]any{"refreshToken": accessToken}, http.StatusForbidden, response.CodeTokenInvalid},
		{"expired", map[string]any{"refreshToken": expiredRefresh}, http.StatusUnauthorized, response.CodeRefreshTokenExpired},
		{"not stored", map[string]any{"refreshToken": notStored}, http.StatusForbidden, response.CodeRefreshTokenNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := api.do(t, http.MethodPost, "/api/auth/refresh", "", tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestLogout_RevokesAccessAndRefresh(t *testing.T) {
	api := newTestAPI(t, nil)
	accessToken, refreshToken := api.register(t, "a@x.com")
	_, otherDeviceRefresh := func() (string, string) {
		recorder, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com", "password": "Secret123"})
		require.Equal(t, http.StatusOK, recorder.Code)
		return body["token"].(string), body["refreshToken"].(string)
	}()

	recorder, body := api.do(t, http.MethodPost, "/api/auth/logout", accessToken, map[string]any{"refreshToken": refreshToken})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, body["success"])

	recorder, body = api.do(t, http.MethodGet, "/api/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, response.CodeTokenRevoked, body["code"])

	recorder, body = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refreshToken})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, response.CodeRefreshTokenNotFound, body["code"])

	recorder, _ = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": otherDeviceRefresh})
	assert.Equal(t, http.StatusOK, recorder.Code, "сессия другого устройства продолжает работать")
}

func TestLogout_WithoutBodyKeepsRefreshToken(t *testing.T) {
	api := newTestAPI(t, nil)
	accessToken, refreshToken := api.register(t, "a@x.com")

	recorder, _ := api.do(t, http.MethodPost, "/api/auth/logout", accessToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refreshToken})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t, nil)

	for _, path := range []string{"/api/auth/me", "/api/orders", "/api/orders/active", "/api/orders/1"} {
		recorder, body := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
		assert.Equal(t, response.CodeNoToken, body["code"], path)
	}
}

func TestMe_DeletedUser(t *testing.T) {
	api := newTestAPI(t, nil)
	accessToken, _ := api.register(t, "a@x.com")
	api.users.delete(1)

	recorder, body := api.do(t, http.MethodGet, "/api/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, response.CodeUserNotFound, body["code"])
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	api := newTestAPI(t, middleware.NewIPRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1}))

	recorder, _ := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@x.com", "password": "Secret123"})
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, response.CodeTooManyRequests, body["code"])

	recorder, _ = api.do(t, http.MethodGet, "/api/restaurants", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code, "каталог не ограничивается")
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder, body := api.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, body["success"])
}
