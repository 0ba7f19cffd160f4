package transport

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Timeout навешивает дедлайн d на исходящий вызов, если у контекста
// запроса дедлайна ещё нет.
//
// Контракт:
//  1. d <= 0 — запрос проходит без изменений;
//  2. у контекста уже есть deadline — оставляем как есть;
//  3. иначе — context.WithTimeout(ctx, d); cancel выполняется при
//     закрытии тела ответа (раньше нельзя: тело ещё читают).
func Timeout(d time.Duration) Wrapper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if d <= 0 {
				return next.RoundTrip(req)
			}

			if _, ok := req.Context().Deadline(); ok {
				return next.RoundTrip(req)
			}

			ctx, cancel := context.WithTimeout(req.Context(), d)

			resp, err := next.RoundTrip(req.Clone(ctx))
			if err != nil {
				cancel()
				return nil, err
			}

			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		})
	}
}

// cancelBody откладывает cancel контекста до закрытия тела ответа.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
