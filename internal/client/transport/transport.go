// transport — набор http.RoundTripper-обёрток для исходящих вызовов
// к апстрим-API (аналог цепочки клиентских интерсепторов:
// metadata -> timeout -> logging).
package transport

import "net/http"

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
	CtxAuthToken CtxKey = "auth_token"
)

// Wrapper — обёртка над http.RoundTripper.
type Wrapper func(http.RoundTripper) http.RoundTripper

// Chain навешивает обёртки на base в порядке перечисления:
// первая в списке оказывается внешней.
func Chain(base http.RoundTripper, ws ...Wrapper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(ws) - 1; i >= 0; i-- {
		base = ws[i](base)
	}

	return base
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
