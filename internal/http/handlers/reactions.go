package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/keepselvesreal/xai-community-gateway/internal/client"
	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	"github.com/keepselvesreal/xai-community-gateway/internal/reactions"
)

// React — один клик по реакции: POST /posts/{slug}/reactions/{kind}.
//
// Ответ — состояние реакций поста для зрителя после сверки с сервером.
// Отказ апстрима откатывает локальное состояние и уходит наверх как
// обычная ошибка: повторный клик разрешён сразу.
func (h *Handlers) React(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	kind := reactions.Kind(chi.URLParam(r, "kind"))

	state, err := h.Reactions.Apply(r.Context(), viewerFrom(r), slug, kind)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// ReactionState — текущее состояние реакций без мутации:
// GET /posts/{slug}/reactions.
func (h *Handlers) ReactionState(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	viewer := viewerFrom(r)
	if viewer == "" {
		apierrors.WriteError(w, r, reactions.ErrUnauthenticated)
		return
	}

	state, ok := h.Reactions.State(viewer, slug)
	if !ok {
		// Состояние сеется при загрузке детальной страницы.
		apierrors.WriteError(w, r, client.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
