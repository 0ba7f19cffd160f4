package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/keepselvesreal/xai-community-gateway/internal/client/transport"
)

// RequestID гарантирует каждому запросу сквозной X-Request-Id: входящий
// заголовок переиспользуется, иначе генерируется 32-символьный hex id.
// Id дублируется в заголовок ответа (фронт прикладывает его к багрепортам),
// в заголовок запроса (его читает errors.WriteError) и в контекст по ключу
// transport.CtxRequestID — оттуда его подхватывает metadata-обёртка
// исходящего клиента, так что апстрим видит тот же id.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = genID()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), transport.CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
