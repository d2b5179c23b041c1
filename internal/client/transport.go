package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"FoodDelivery/internal/response"
)

// Transport подставляет access токен сессии в каждый запрос. На ответ 401
// TOKEN_EXPIRED он обновляет токен и повторяет запрос ровно один раз.
type Transport struct {
	Session *Session
	Base    http.RoundTripper
}

func (transport *Transport) base() http.RoundTripper {
	if transport.Base == nil {
		return http.DefaultTransport
	}
	return transport.Base
}

// RoundTrip не меняет исходный запрос: тело читается один раз и
// подставляется в клоны.
func (transport *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	getBody, err := replayableBody(request)
	if request.Body != nil {
		defer request.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	accessToken := transport.Session.AccessToken()
	first, err := withToken(request, getBody, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := transport.base().RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || accessToken == "" {
		return resp, err
	}

	expired, err := isTokenExpired(resp)
	if err != nil || !expired {
		return resp, err
	}
	resp.Body.Close()

	newToken, err := transport.Session.Refresh(request.Context(), accessToken)
	if err != nil {
		return nil, err
	}

	replay, err := withToken(request, getBody, newToken)
	if err != nil {
		return nil, err
	}
	return transport.base().RoundTrip(replay)
}

// withToken клонирует запрос со свежим телом и заголовком Authorization.
func withToken(request *http.Request, getBody func() (io.ReadCloser, error), accessToken string) (*http.Request, error) {
	clone := request.Clone(request.Context())
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, fmt.Errorf("не удалось повторить тело запроса: %w", err)
		}
		clone.Body = body
		clone.GetBody = getBody
	}
	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return clone, nil
}

// replayableBody возвращает источник тела для повторной отправки. Если у
// запроса нет GetBody, тело читается в память.
func replayableBody(request *http.Request) (func() (io.ReadCloser, error), error) {
	if request.Body == nil || request.Body == http.NoBody {
		return nil, nil
	}
	if request.GetBody != nil {
		return request.GetBody, nil
	}

	data, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тела запроса: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

// isTokenExpired читает код ошибки и возвращает тело ответа на место.
func isTokenExpired(resp *http.Response) (bool, error) {
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return false, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	var body response.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return false, nil
	}
	return body.Code == response.CodeTokenExpired, nil
}
