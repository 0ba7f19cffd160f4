package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	logctx "github.com/keepselvesreal/xai-community-gateway/pkg/log"
)

// Recover — внешний мидлвар цепочки: паника любого слоя ниже
// логируется и превращается в обычный 500/internal конверт.
// Причина паники на клиент не отдаётся.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					apierrors.WriteError(w, r, fmt.Errorf("internal"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
