package client

import (
	"errors"
	"net/http"
)

// Сентинельные ошибки клиента апстрима. HTTP-слой шлюза (internal/errors)
// маппит их обратно в статусы и коды для фронта.
var (
	// ErrInvalidArgument — апстрим отверг входные данные (400/422).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — нет/просрочен токен (401).
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — нет прав на операцию (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — сущность отсутствует (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт состояния/дубликат (409).
	ErrConflict = errors.New("conflict")
	// ErrUnavailable — апстрим недоступен или отвечает 5xx/429.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrInternal — прочие ошибки (битый ответ, неожиданный статус).
	ErrInternal = errors.New("internal")
)

// errorFromStatus — маппинг HTTP-статуса апстрима в сентинель.
func errorFromStatus(code int) error {
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return ErrInvalidArgument
	case code == http.StatusUnauthorized:
		return ErrUnauthenticated
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusTooManyRequests:
		return ErrUnavailable
	case code >= 500:
		return ErrUnavailable
	default:
		return ErrInternal
	}
}
