// errors стандартизирует ответы об ошибках HTTP-слоя шлюза.
// На вход — ошибка (сентинели клиента апстрима, мутатора реакций или
// контекста), на выход:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Ничего фатального здесь нет: любая ошибка деградирует до ответа с
// кодом, страница остаётся рабочей.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keepselvesreal/xai-community-gateway/internal/client"
	"github.com/keepselvesreal/xai-community-gateway/internal/reactions"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidArgument — локальная ошибка разбора входных данных хендлером.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - известный сентинель — маппится по таблице ниже;
//   - всё прочее - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — таблица маппинга сентинелей в HTTP/FE-код/сообщение:
//   - ErrInvalidArgument (битые входные/query/тело) -> 400
//   - client.ErrUnauthenticated, reactions.ErrUnauthenticated -> 401
//   - client.ErrForbidden -> 403
//   - client.ErrNotFound -> 404
//   - client.ErrConflict -> 409
//   - reactions.ErrInFlight -> 429 (та же реакция ещё в полёте)
//   - context.Canceled -> 499 (клиент закрыл соединение)
//   - context.DeadlineExceeded -> 504 (таймаут запроса к апстриму)
//   - client.ErrUnavailable -> 503 (апстрим недоступен)
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, client.ErrInvalidArgument),
		errors.Is(err, reactions.ErrUnknownKind):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, client.ErrUnauthenticated), errors.Is(err, reactions.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, client.ErrForbidden):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, client.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case errors.Is(err, reactions.ErrInFlight):
		return http.StatusTooManyRequests, "reaction_in_flight", "reaction already in flight"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case errors.Is(err, client.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
