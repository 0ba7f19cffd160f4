package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// Logging — логирование исходящих вызовов к апстриму.
// Пишет одну финальную запись уровня Info: msg="upstream",
// method/path/status/dur (+request_id, если Metadata уже проставил
// заголовок).
//
// Безопасность: payload и заголовки авторизации не логируются.
func Logging(base *slog.Logger) Wrapper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			dur := time.Since(start)

			l := base
			if l == nil {
				l = slog.Default()
			}
			if rid := req.Header.Get("X-Request-Id"); rid != "" {
				l = l.With(slog.String("request_id", rid))
			}

			if err != nil {
				l.Warn("upstream",
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
					slog.String("err", err.Error()),
					slog.Duration("dur", dur),
				)
				return nil, err
			}

			l.Info("upstream",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", resp.StatusCode),
				slog.Duration("dur", dur),
			)

			return resp, nil
		})
	}
}
