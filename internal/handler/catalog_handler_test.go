package handler

import (
	"net/http"
	"testing"

	"FoodDelivery/internal/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRestaurants(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder, body := api.do(t, http.MethodGet, "/api/restaurants", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["restaurants"], 2)

	recorder, body = api.do(t, http.MethodGet, "/api/restaurants?category=Japanese", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	restaurants := body["restaurants"].([]any)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Sushi Go", restaurants[0].(map[string]any)["name"])
}

func TestGetRestaurant(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"found", "/api/restaurants/1", http.StatusOK, ""},
		{"missing", "/api/restaurants/99", http.StatusNotFound, response.CodeNotFound},
		{"bad id", "/api/restaurants/abc", http.StatusBadRequest, response.CodeValidation},
		{"negative id", "/api/restaurants/-1", http.StatusBadRequest, response.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := api.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestGetMenu(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder, body := api.do(t, http.MethodGet, "/api/restaurants/1/menu", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["items"], 2)

	recorder, _ = api.do(t, http.MethodGet, "/api/restaurants/99/menu", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListCategories(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder, body := api.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []any{"Italian", "Japanese"}, body["categories"])
}
