package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/keepselvesreal/xai-community-gateway/internal/cache"
	"github.com/keepselvesreal/xai-community-gateway/internal/client"
	"github.com/keepselvesreal/xai-community-gateway/internal/client/transport"
	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	"github.com/keepselvesreal/xai-community-gateway/internal/reactions"
)

// Handlers агрегирует зависимости HTTP-слоя: клиент апстрима, мутатор
// реакций и (опциональный) кэш страниц ленты.
type Handlers struct {
	API       client.API
	Reactions *reactions.Mutator

	Cache    cache.PageCache // nil — кэш выключен
	CacheTTL time.Duration
}

func New(api client.API, m *reactions.Mutator, c cache.PageCache, ttl time.Duration) *Handlers {
	return &Handlers{API: api, Reactions: m, Cache: c, CacheTTL: ttl}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// viewerFrom — идентичность зрителя для состояния реакций.
// Шлюз не валидирует токен (это забота бэкенда), но использует его как
// ключ пары (зритель, пост): пустая строка означает анонима.
func viewerFrom(r *http.Request) string {
	if v, ok := r.Context().Value(transport.CtxAuthToken).(string); ok {
		return v
	}
	return ""
}

// invalidArgument — локальная ошибка разбора входных данных -> 400.
func invalidArgument() error {
	return apierrors.ErrInvalidArgument
}
