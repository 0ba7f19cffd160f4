package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// Комментарии всегда отдаются деревом целиком: после любой мутации
// апстрим возвращает свежее дерево, и шлюз транслирует его как есть.

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	comments, err := h.API.ListComments(r.Context(), slug)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CommentsResponse{Comments: comments})
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	var in models.CreateCommentRequest
	if err := decodeStrict(r, &in); err != nil || in.Content == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	comments, err := h.API.CreateComment(r.Context(), slug, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.CommentsResponse{Comments: comments})
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := chi.URLParam(r, "id")
	if slug == "" || id == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	var in models.UpdateCommentRequest
	if err := decodeStrict(r, &in); err != nil || in.Content == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	comments, err := h.API.UpdateComment(r.Context(), slug, id, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CommentsResponse{Comments: comments})
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := chi.URLParam(r, "id")
	if slug == "" || id == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	comments, err := h.API.DeleteComment(r.Context(), slug, id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// Удаление тоже возвращает дерево: сервер мог пометить узел
	// is_deleted вместо физического удаления.
	writeJSON(w, http.StatusOK, models.CommentsResponse{Comments: comments})
}
