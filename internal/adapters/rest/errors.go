package rest

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
)

// Сообщения об ошибках для клиента
const (
	msgMissingParameter = "Required parameter is missing."
	msgInvalidParameter = "Invalid request parameters."
	msgUnauthorized     = "Unauthorized access."
	msgTimeout          = "Request timeout."
	msgInternal         = "An internal server error occurred."
	msgPropertyNotFound = "Property not found."
)

// translateError сопоставляет ошибке HTTP-статус и тело ответа.
// Детали внутренних ошибок клиенту не отдаются.
func translateError(err error) (int, ErrorResponse) {
	var detail string
	var detailed *domain.DetailedError
	if errors.As(err, &detailed) {
		detail = detailed.Detail
	}

	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest, ErrorResponse{Message: msgMissingParameter, Details: detail}
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, ErrorResponse{Message: msgInvalidParameter, Details: detail}
	case errors.Is(err, domain.ErrInvalidOperation):
		msg := detail
		if msg == "" {
			msg = err.Error()
		}
		return http.StatusNotFound, ErrorResponse{Message: msg}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Message: msgUnauthorized}
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, ErrorResponse{Message: msgTimeout}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: msgInternal}
	}
}

// WriteError логирует ошибку и отвечает телом {message, details?, traceId}
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := translateError(err)
	body.TraceID = contextkeys.TraceIDFromContext(r.Context())

	logger := contextkeys.LoggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, port.Fields{"status_code": status})
	} else {
		logger.Warn("Request rejected", port.Fields{"status_code": status, "error": err.Error()})
	}

	RespondWithJSON(w, status, body)
}

// WriteNotFound - ответ для отсутствующего объекта
func WriteNotFound(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusNotFound, ErrorResponse{
		Message: msgPropertyNotFound,
		TraceID: contextkeys.TraceIDFromContext(r.Context()),
	})
}

// RecoverMiddleware превращает панику обработчика в ответ 500 с trace id.
// Должен стоять после LoggerMiddleware.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger := contextkeys.LoggerFromContext(r.Context())
			logger.Error("Panic recovered", fmt.Errorf("panic: %v", rec), port.Fields{
				"stack": string(debug.Stack()),
			})
			RespondWithJSON(w, http.StatusInternalServerError, ErrorResponse{
				Message: msgInternal,
				TraceID: contextkeys.TraceIDFromContext(r.Context()),
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// TimeoutMiddleware ограничивает время обработки запроса. Истекший контекст
// доходит до хранилища, и обработчик отвечает 408 через WriteError.
func TimeoutMiddleware(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
