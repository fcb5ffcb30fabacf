package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/logger"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

// handleServiceError пишет ответ для ошибки сервиса. Наружу уходит только
// Message бизнес-ошибки, причина остаётся в логах.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	var busErr *service.BusinessError
	if !errors.As(err, &busErr) {
		logger.Error("HTTP: Неизвестная ошибка Service", err,
			zap.String("path", r.URL.Path),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, defaultMessage)
		return
	}

	statusCode := mapBusinessErrorToHTTP(busErr.Code)
	message := busErr.Message
	if message == "" {
		message = defaultMessage
	}

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", busErr.Code),
		zap.Int("http_status", statusCode),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, statusCode, message)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeInvalidInput:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeStoreUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
