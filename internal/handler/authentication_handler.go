package handler

import (
	"context"
	"net/http"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/metrics"
	"FoodDelivery/internal/model"
	"FoodDelivery/internal/response"
	"FoodDelivery/internal/security"
	"FoodDelivery/internal/service"

	"go.uber.org/zap"
)

type AuthenticationHandler struct {
	*service.AuthenticationService
	logger *zap.Logger
}

// AuthResponse возвращается при регистрации и входе
// swagger:model
type AuthResponse struct {
	Success bool `json:"success"`
	model.TokensPair
	User *model.User `json:"user"`
}

// RefreshTokenRequest содержит refresh токен в json формате
// swagger:model
type RefreshTokenRequest struct {
	// Refresh токен
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse содержит новый access токен
// swagger:model
type RefreshTokenResponse struct {
	Success bool `json:"success"`
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"token"`
}

// CurrentUserResponse содержит профиль текущего пользователя
// swagger:model
type CurrentUserResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

func NewAuthenticationHandler(authenticationService *service.AuthenticationService, logger *zap.Logger) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, logger}
}

// Register godoc
// @Summary Регистрация
// @Description Создает пользователя и возвращает пару токенов. Пример запроса: POST /api/auth/register с телом {"name": "Анна", "email": "a@x.com", "password": "Secret123"}
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RegisterInput true "Данные пользователя"
// @Success 201 {object} AuthResponse "пользователь создан"
// @Failure 400 {object} response.ErrorBody "VALIDATION_ERROR"
// @Failure 409 {object} response.ErrorBody "EMAIL_TAKEN"
// @Router /auth/register [post]
func (handler *AuthenticationHandler) Register(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	var input model.RegisterInput
	if err := decodeJSON(writer, request, &input, false); err != nil {
		handler.fail(writer, "register", err)
		return
	}

	result, err := handler.AuthenticationService.Register(ctx, input, clientMeta(request))
	if err != nil {
		handler.fail(writer, "register", err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "success").Inc()
	response.JSON(writer, http.StatusCreated, &AuthResponse{Success: true, TokensPair: result.TokensPair, User: result.User})
}

// Login godoc
// @Summary Вход
// @Description Проверяет email и пароль и возвращает пару токенов. Пример запроса: POST /api/auth/login с телом {"email": "a@x.com", "password": "Secret123"}
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginInput true "Email и пароль"
// @Success 200 {object} AuthResponse "успешный вход"
// @Failure 400 {object} response.ErrorBody "VALIDATION_ERROR"
// @Failure 401 {object} response.ErrorBody "INVALID_CREDENTIALS"
// @Router /auth/login [post]
func (handler *AuthenticationHandler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	var input model.LoginInput
	if err := decodeJSON(writer, request, &input, false); err != nil {
		handler.fail(writer, "login", err)
		return
	}

	result, err := handler.AuthenticationService.Login(ctx, input, clientMeta(request))
	if err != nil {
		handler.fail(writer, "login", err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	response.JSON(writer, http.StatusOK, &AuthResponse{Success: true, TokensPair: result.TokensPair, User: result.User})
}

// RefreshToken обновляет access токен
// @Summary Обновление access токена
// @Description Выдает новый access токен по refresh токену. Пример запроса: POST /api/auth/refresh с телом {"refreshToken": "<refresh_token>"}
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh токен в теле запроса"
// @Success 200 {object} RefreshTokenResponse "новый access токен"
// @Failure 401 {object} response.ErrorBody "REFRESH_TOKEN_REQUIRED или REFRESH_TOKEN_EXPIRED"
// @Failure 403 {object} response.ErrorBody "TOKEN_INVALID или REFRESH_TOKEN_NOT_FOUND"
// @Router /auth/refresh [post]
func (handler *AuthenticationHandler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	var refreshTokenRequest RefreshTokenRequest
	if err := decodeJSON(writer, request, &refreshTokenRequest, true); err != nil {
		handler.fail(writer, "refresh", err)
		return
	}

	accessToken, err := handler.AuthenticationService.RotateAccess(ctx, refreshTokenRequest.RefreshToken)
	if err != nil {
		handler.fail(writer, "refresh", err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("refresh", "success").Inc()
	response.JSON(writer, http.StatusOK, &RefreshTokenResponse{Success: true, AccessToken: accessToken})
}

// Logout godoc
// @Summary Выход из аккаунта
// @Description Отзывает текущий access токен. Если в теле передан refresh токен, он тоже удаляется. Пример запроса: POST /api/auth/logout с заголовком Authorization: Bearer <access_token>
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param request body RefreshTokenRequest false "Refresh токен этого устройства"
// @Success 200 {object} SuccessResponse "Успешный выход"
// @Failure 401 {object} response.ErrorBody "NO_TOKEN или TOKEN_EXPIRED"
// @Failure 403 {object} response.ErrorBody "TOKEN_INVALID или TOKEN_REVOKED"
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (handler *AuthenticationHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	user, ok := security.UserFromContext(ctx)
	accessToken, hasToken := security.AccessTokenFromContext(ctx)
	if !ok || !hasToken {
		handler.fail(writer, "logout", apperror.ErrNoToken)
		return
	}

	var refreshTokenRequest RefreshTokenRequest
	if err := decodeJSON(writer, request, &refreshTokenRequest, true); err != nil {
		handler.fail(writer, "logout", err)
		return
	}

	if err := handler.AuthenticationService.Logout(ctx, accessToken, user.Id, refreshTokenRequest.RefreshToken); err != nil {
		handler.fail(writer, "logout", err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("logout", "success").Inc()
	response.JSON(writer, http.StatusOK, &SuccessResponse{Success: true})
}

// Me godoc
// @Summary Текущий пользователь
// @Description Возвращает профиль пользователя, перечитанный из БД. Пример запроса: GET /api/auth/me с заголовком Authorization: Bearer <access_token>
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} CurrentUserResponse "Успешный ответ"
// @Failure 401 {object} response.ErrorBody "Пользователь не авторизован или токен истек"
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (handler *AuthenticationHandler) Me(writer http.ResponseWriter, request *http.Request) {
	user, ok := security.UserFromContext(request.Context())
	if !ok {
		response.Error(writer, handler.logger, apperror.ErrNoToken)
		return
	}

	response.JSON(writer, http.StatusOK, &CurrentUserResponse{Success: true, User: user})
}

func (handler *AuthenticationHandler) fail(writer http.ResponseWriter, event string, err error) {
	_, code, _ := response.Classify(err)
	metrics.AuthEventsTotal.WithLabelValues(event, code).Inc()
	response.Error(writer, handler.logger, err)
}
