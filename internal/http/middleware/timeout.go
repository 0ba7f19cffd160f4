package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ставит общий дедлайн обработки запроса; через контекст он
// дотягивается до исходящих вызовов апстрима. Уже установленный
// (например, более строгий) deadline не перетирается; d<=0 выключает
// мидлвар целиком.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
