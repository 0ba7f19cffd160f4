package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keepselvesreal/xai-community-gateway/internal/http/handlers"
	"github.com/keepselvesreal/xai-community-gateway/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.AuthBearer(),         // вынимаем Bearer токен в контекст для исходящих вызовов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// posts
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/posts/{slug}/full", h.GetPostPage)
	r.Patch("/posts/{slug}", h.UpdatePost)
	r.Delete("/posts/{slug}", h.DeletePost)

	// reactions
	r.Post("/posts/{slug}/reactions/{kind}", h.React)
	r.Get("/posts/{slug}/reactions", h.ReactionState)

	// comments
	r.Get("/posts/{slug}/comments", h.ListComments)
	r.Post("/posts/{slug}/comments", h.CreateComment)
	r.Patch("/posts/{slug}/comments/{id}", h.UpdateComment)
	r.Delete("/posts/{slug}/comments/{id}", h.DeleteComment)

	// services marketplace
	r.Get("/services", h.ListListings)
	r.Post("/services", h.CreateListing)
	r.Get("/services/{slug}", h.GetListing)
	r.Post("/services/{slug}/inquiries", h.CreateInquiry)
	r.Get("/services/{slug}/reviews", h.ListReviews)
	r.Post("/services/{slug}/reviews", h.CreateReview)
}
