package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/keepselvesreal/xai-community-gateway/internal/cache"
	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	"github.com/keepselvesreal/xai-community-gateway/internal/models"
	"github.com/keepselvesreal/xai-community-gateway/pkg/log"
)

// ListPosts — лента раздела.
// Для анонимных запросов страницы кэшируются в Redis (в строках нет
// ничего персонального); для авторизованных кэш пропускается, потому
// что user_reaction зависит от зрителя.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	var req models.ListPostsRequest

	req.Type = models.PostType(r.URL.Query().Get("type"))
	if req.Type == "" {
		req.Type = models.PostTypeBoard
	}

	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, invalidArgument())
			return
		}

		req.PageSize = int32(n)
	}

	req.PageToken = r.URL.Query().Get("page_token")

	cacheable := h.Cache != nil && viewerFrom(r) == ""
	key := cache.FeedKey(string(req.Type), req.PageSize, req.PageToken)

	if cacheable {
		if raw, ok, err := h.Cache.Get(r.Context(), key); err != nil {
			// Кэш деградирует молча: лента важнее.
			log.From(r.Context()).Warn("feed_cache_get", slog.String("err", err.Error()))
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(raw)
			return
		}
	}

	resp, err := h.API.ListPosts(r.Context(), req)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if cacheable {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.Cache.Set(r.Context(), key, raw, h.CacheTTL); err != nil {
				log.From(r.Context()).Warn("feed_cache_set", slog.String("err", err.Error()))
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPost — пост без комментариев.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	post, err := h.API.GetPost(r.Context(), slug)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.Reactions.Seed(viewerFrom(r), slug, *post)

	writeJSON(w, http.StatusOK, post)
}

// GetPostPage — детальная страница: пост и дерево комментариев
// запрашиваются у апстрима конкурентно и склеиваются в один ответ.
func (h *Handlers) GetPostPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	ctx := r.Context()

	type postRes struct {
		post *models.Post
		err  error
	}
	type commentsRes struct {
		comments []models.Comment
		err      error
	}

	postCh := make(chan postRes, 1)
	commCh := make(chan commentsRes, 1)

	go func() {
		p, err := h.API.GetPost(ctx, slug)
		postCh <- postRes{post: p, err: err}
	}()
	go func() {
		cs, err := h.API.ListComments(ctx, slug)
		commCh <- commentsRes{comments: cs, err: err}
	}()

	pr := <-postCh
	cr := <-commCh

	// Первая ошибка рушит всю страницу: половинчатый ответ хуже честного отказа.
	if pr.err != nil {
		apierrors.WriteError(w, r, pr.err)
		return
	}
	if cr.err != nil {
		apierrors.WriteError(w, r, cr.err)
		return
	}

	h.Reactions.Seed(viewerFrom(r), slug, *pr.post)

	writeJSON(w, http.StatusOK, models.PostPage{
		Post:     *pr.post,
		Comments: cr.comments,
	})
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in models.CreatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	if in.Title == "" || in.Content == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	post, err := h.API.CreatePost(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	var in models.UpdatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	post, err := h.API.UpdatePost(r.Context(), slug, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	if err := h.API.DeletePost(r.Context(), slug); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
