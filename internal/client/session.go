package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"FoodDelivery/internal/response"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired означает, что refresh токен больше не принимается и
// нужно войти заново.
var ErrSessionExpired = errors.New("session expired, please log in again")

const refreshTimeout = 10 * time.Second

// Session владеет токенами клиента и обновляет access токен. Одновременные
// запросы на обновление сливаются в один вызов /auth/refresh.
type Session struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu     sync.RWMutex
	tokens Tokens
	// generation растёт при каждой замене или очистке токенов. Обновление
	// записывает результат, только если поколение не изменилось.
	generation uint64
	group      singleflight.Group
}

// NewSession загружает сохранённые токены из store. httpClient используется
// только для /auth/refresh и не должен сам обновлять токены.
func NewSession(baseURL string, store TokenStore, httpClient *http.Client) (*Session, error) {
	tokens, err := store.Load()
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: refreshTimeout}
	}
	return &Session{
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      store,
		tokens:     tokens,
	}, nil
}

func (session *Session) Tokens() Tokens {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.tokens
}

func (session *Session) AccessToken() string {
	return session.Tokens().AccessToken
}

func (session *Session) SetTokens(tokens Tokens) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.generation++
	session.tokens = tokens
	return session.store.Save(tokens)
}

func (session *Session) Clear() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.clearLocked()
}

func (session *Session) clearLocked() error {
	session.generation++
	session.tokens = Tokens{}
	return session.store.Clear()
}

func (session *Session) snapshot() (Tokens, uint64) {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.tokens, session.generation
}

// Refresh возвращает access токен, которым можно заменить staleAccessToken.
// Если токен уже обновил другой запрос, сеть не используется.
func (session *Session) Refresh(ctx context.Context, staleAccessToken string) (string, error) {
	if token, ok := session.superseded(staleAccessToken); ok {
		return token, nil
	}

	result, err, _ := session.group.Do("refresh", func() (any, error) {
		if token, ok := session.superseded(staleAccessToken); ok {
			return token, nil
		}
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return session.refresh(refreshCtx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (session *Session) superseded(staleAccessToken string) (string, bool) {
	current := session.AccessToken()
	return current, current != "" && current != staleAccessToken
}

// refresh вызывает /auth/refresh. Любая неудача завершает сессию: токены
// удаляются, ошибка совпадает с ErrSessionExpired. Если пока шёл запрос
// сессию очистили или заменили, результат отбрасывается: после очистки
// возвращается ErrSessionExpired, после нового входа его access токен.
func (session *Session) refresh(ctx context.Context) (string, error) {
	tokens, generation := session.snapshot()
	if tokens.RefreshToken == "" {
		return "", session.expire(generation, nil)
	}

	token, err := session.rotate(ctx, tokens.RefreshToken)
	if err != nil {
		return "", session.expire(generation, err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.generation != generation {
		if session.tokens.AccessToken != "" {
			return session.tokens.AccessToken, nil
		}
		return "", ErrSessionExpired
	}

	session.generation++
	session.tokens.AccessToken = token
	if err := session.store.Save(session.tokens); err != nil {
		return "", err
	}
	return token, nil
}

func (session *Session) rotate(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, session.baseURL+"/auth/refresh", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := session.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("не удалось обновить токен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("неверный ответ /auth/refresh: %w", err)
	}
	if body.Token == "" {
		return "", errors.New("сервер не вернул access токен")
	}
	return body.Token, nil
}

// expire очищает сессию, если её не успели заменить новым входом.
func (session *Session) expire(generation uint64, cause error) error {
	errs := []error{ErrSessionExpired}
	if cause != nil {
		errs = append(errs, cause)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.generation == generation {
		if err := session.clearLocked(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// APIError описывает ошибку, которую вернул сервер.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var body response.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
