// client — типизированный клиент внешнего REST API комьюнити (apiClient).
//
// Контракт ответов фиксирован одним конвертом на ресурс
// ({"post": ...}, {"posts": [...]}, {"comments": [...]}); вариативность
// полей внутри записей (id/_id, отсутствующий stats) выправляется на
// границе internal/models (convert.go).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/keepselvesreal/xai-community-gateway/internal/client/transport"
	"github.com/keepselvesreal/xai-community-gateway/internal/config"
	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// API — операции апстрима, которые потребляют хендлеры и мутатор реакций.
// Интерфейс мокается (mockgen -source=./internal/client/client.go).
type API interface {
	ListPosts(ctx context.Context, req models.ListPostsRequest) (*models.ListPostsResponse, error)
	GetPost(ctx context.Context, slug string) (*models.Post, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, slug string, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, slug string) error

	LikePost(ctx context.Context, slug string) (*models.ReactionResult, error)
	DislikePost(ctx context.Context, slug string) (*models.ReactionResult, error)
	BookmarkPost(ctx context.Context, slug string) (*models.ReactionResult, error)

	ListComments(ctx context.Context, slug string) ([]models.Comment, error)
	CreateComment(ctx context.Context, slug string, req models.CreateCommentRequest) ([]models.Comment, error)
	UpdateComment(ctx context.Context, slug, id string, req models.UpdateCommentRequest) ([]models.Comment, error)
	DeleteComment(ctx context.Context, slug, id string) ([]models.Comment, error)

	ListListings(ctx context.Context, req models.ListListingsRequest) (*models.ListListingsResponse, error)
	GetListing(ctx context.Context, slug string) (*models.Listing, error)
	CreateListing(ctx context.Context, req models.CreateListingRequest) (*models.Listing, error)
	CreateInquiry(ctx context.Context, slug string, req models.CreateInquiryRequest) (*models.Inquiry, error)
	ListReviews(ctx context.Context, slug string) (*models.ListReviewsResponse, error)
	CreateReview(ctx context.Context, slug string, req models.CreateReviewRequest) (*models.Review, error)
}

// Client — HTTP-реализация API поверх цепочки transport
// (metadata -> timeout -> logging).
type Client struct {
	http    *http.Client
	baseURL *url.URL
}

var _ API = (*Client)(nil)

// New собирает клиент по конфигурации апстрима.
func New(cfg config.UpstreamConfig, log *slog.Logger) (*Client, error) {
	const op = "internal/client/New"

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: parse base_url: %w", op, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base_url %q must be absolute", op, cfg.BaseURL)
	}

	rt := transport.Chain(http.DefaultTransport,
		transport.Metadata(cfg.UserAgent),
		transport.Timeout(cfg.Timeout),
		transport.Logging(log),
	)

	return &Client{
		http:    &http.Client{Transport: rt},
		baseURL: base,
	}, nil
}

// do — единая точка исходящего вызова: сериализация входа, маппинг
// статуса в сентинель, декодирование конверта ответа в out (если задан).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	const op = "internal/client/do"

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: new_request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Сетевые ошибки и отмены заворачиваются как есть: context.*
		// остаются различимыми через errors.Is по цепочке.
		return fmt.Errorf("%s: %s %s: %w", op, method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s %s: status %d: %w", op, method, path, resp.StatusCode, errorFromStatus(resp.StatusCode))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w: %v", op, ErrInternal, err)
	}

	return nil
}
