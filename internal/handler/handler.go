package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"

	"github.com/go-chi/chi/v5"
)

const (
	requestTimeout  = 3 * time.Second
	maxRequestBytes = 1 << 20
)

// SuccessResponse возвращается, когда данных в ответе нет.
// swagger:model
type SuccessResponse struct {
	Success bool `json:"success"`
}

// decodeJSON читает тело запроса в dst. Пустое тело допустимо, только если
// allowEmpty.
func decodeJSON(writer http.ResponseWriter, request *http.Request, dst any, allowEmpty bool) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxRequestBytes)
	err := json.NewDecoder(request.Body).Decode(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return apperror.Invalid("", "request body is required")
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperror.Invalid("", "request body is too large")
	}
	return apperror.Invalid("", "invalid JSON body")
}

func idParam(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Invalid(name, name+" must be a positive integer")
	}
	return id, nil
}

func clientMeta(request *http.Request) model.ClientMeta {
	ip, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		ip = request.RemoteAddr
	}
	return model.ClientMeta{UserAgent: request.UserAgent(), IpAddress: ip}
}
