package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// Конверты маркетплейса услуг.
type wireListingEnvelope struct {
	Listing models.WireListing `json:"listing"`
}

type wireListingListEnvelope struct {
	Listings      []models.WireListing `json:"listings"`
	NextPageToken string               `json:"next_page_token"`
}

type wireInquiryEnvelope struct {
	Inquiry models.Inquiry `json:"inquiry"`
}

type wireReviewEnvelope struct {
	Review models.Review `json:"review"`
}

type wireReviewListEnvelope struct {
	Reviews []models.Review `json:"reviews"`
}

func (c *Client) ListListings(ctx context.Context, req models.ListListingsRequest) (*models.ListListingsResponse, error) {
	q := url.Values{}
	if req.Category != "" {
		q.Set("category", string(req.Category))
	}
	if req.PageSize > 0 {
		q.Set("page_size", strconv.FormatInt(int64(req.PageSize), 10))
	}
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}

	var env wireListingListEnvelope
	if err := c.do(ctx, http.MethodGet, "services", q, nil, &env); err != nil {
		return nil, err
	}

	return &models.ListListingsResponse{
		Listings:      models.ListingsFromWire(env.Listings),
		NextPageToken: env.NextPageToken,
	}, nil
}

func (c *Client) GetListing(ctx context.Context, slug string) (*models.Listing, error) {
	var env wireListingEnvelope
	if err := c.do(ctx, http.MethodGet, "services/"+slug, nil, nil, &env); err != nil {
		return nil, err
	}

	listing := models.ListingFromWire(env.Listing)
	return &listing, nil
}

func (c *Client) CreateListing(ctx context.Context, req models.CreateListingRequest) (*models.Listing, error) {
	var env wireListingEnvelope
	if err := c.do(ctx, http.MethodPost, "services", nil, req, &env); err != nil {
		return nil, err
	}

	listing := models.ListingFromWire(env.Listing)
	return &listing, nil
}

func (c *Client) CreateInquiry(ctx context.Context, slug string, req models.CreateInquiryRequest) (*models.Inquiry, error) {
	var env wireInquiryEnvelope
	if err := c.do(ctx, http.MethodPost, "services/"+slug+"/inquiries", nil, req, &env); err != nil {
		return nil, err
	}

	return &env.Inquiry, nil
}

func (c *Client) ListReviews(ctx context.Context, slug string) (*models.ListReviewsResponse, error) {
	var env wireReviewListEnvelope
	if err := c.do(ctx, http.MethodGet, "services/"+slug+"/reviews", nil, nil, &env); err != nil {
		return nil, err
	}

	return &models.ListReviewsResponse{Reviews: env.Reviews}, nil
}

func (c *Client) CreateReview(ctx context.Context, slug string, req models.CreateReviewRequest) (*models.Review, error) {
	var env wireReviewEnvelope
	if err := c.do(ctx, http.MethodPost, "services/"+slug+"/reviews", nil, req, &env); err != nil {
		return nil, err
	}

	return &env.Review, nil
}
