package transport

import (
	"net/http"

	"github.com/google/uuid"
)

// Metadata — добавляет в исходящий запрос заголовки:
//   - X-Request-Id (из контекста; если нет — генерируется новый),
//   - Authorization: Bearer <token> (если есть в контексте),
//   - User-Agent (если передан параметром).
//
// Запрос клонируется: RoundTripper не имеет права мутировать оригинал.
func Metadata(userAgent string) Wrapper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			out := req.Clone(req.Context())

			rid := ""
			if v := req.Context().Value(CtxRequestID); v != nil {
				rid, _ = v.(string)
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			out.Header.Set("X-Request-Id", rid)

			if v := req.Context().Value(CtxAuthToken); v != nil {
				if tok, _ := v.(string); tok != "" {
					out.Header.Set("Authorization", "Bearer "+tok)
				}
			}

			if userAgent != "" {
				out.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(out)
		})
	}
}
