package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/keepselvesreal/xai-community-gateway/internal/errors"
	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// Маркетплейс услуг: объявления, заявки, отзывы.

func (h *Handlers) ListListings(w http.ResponseWriter, r *http.Request) {
	var req models.ListListingsRequest

	req.Category = models.ListingCategory(r.URL.Query().Get("category"))

	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, invalidArgument())
			return
		}

		req.PageSize = int32(n)
	}

	req.PageToken = r.URL.Query().Get("page_token")

	resp, err := h.API.ListListings(r.Context(), req)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	listing, err := h.API.GetListing(r.Context(), slug)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	var in models.CreateListingRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	if in.Company.Name == "" || in.Company.Contact == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	listing, err := h.API.CreateListing(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

func (h *Handlers) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	var in models.CreateInquiryRequest
	if err := decodeStrict(r, &in); err != nil || in.Message == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	inq, err := h.API.CreateInquiry(r.Context(), slug, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, inq)
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	resp, err := h.API.ListReviews(r.Context(), slug)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	var in models.CreateReviewRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	if in.Rating < 1 || in.Rating > 5 {
		apierrors.WriteError(w, r, invalidArgument())
		return
	}

	review, err := h.API.CreateReview(r.Context(), slug, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}
