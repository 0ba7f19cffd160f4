package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// Конверты ответов апстрима по постам.
type wirePostEnvelope struct {
	Post models.WirePost `json:"post"`
}

type wirePostListEnvelope struct {
	Posts         []models.WirePost `json:"posts"`
	NextPageToken string            `json:"next_page_token"`
}

func (c *Client) ListPosts(ctx context.Context, req models.ListPostsRequest) (*models.ListPostsResponse, error) {
	q := url.Values{}
	if req.Type != "" {
		q.Set("type", string(req.Type))
	}
	if req.PageSize > 0 {
		q.Set("page_size", strconv.FormatInt(int64(req.PageSize), 10))
	}
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}

	var env wirePostListEnvelope
	if err := c.do(ctx, http.MethodGet, "posts", q, nil, &env); err != nil {
		return nil, err
	}

	return &models.ListPostsResponse{
		Posts:         models.PostsFromWire(env.Posts),
		NextPageToken: env.NextPageToken,
	}, nil
}

func (c *Client) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	var env wirePostEnvelope
	if err := c.do(ctx, http.MethodGet, "posts/"+slug, nil, nil, &env); err != nil {
		return nil, err
	}

	post := models.PostFromWire(env.Post)
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	var env wirePostEnvelope
	if err := c.do(ctx, http.MethodPost, "posts", nil, req, &env); err != nil {
		return nil, err
	}

	post := models.PostFromWire(env.Post)
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, slug string, req models.UpdatePostRequest) (*models.Post, error) {
	var env wirePostEnvelope
	if err := c.do(ctx, http.MethodPatch, "posts/"+slug, nil, req, &env); err != nil {
		return nil, err
	}

	post := models.PostFromWire(env.Post)
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, "posts/"+slug, nil, nil, nil)
}

// Реакции. Ответ всегда несёт авторитетные счётчики; флаги зрителя —
// когда апстрим их отдаёт.

func (c *Client) LikePost(ctx context.Context, slug string) (*models.ReactionResult, error) {
	return c.react(ctx, slug, "like")
}

func (c *Client) DislikePost(ctx context.Context, slug string) (*models.ReactionResult, error) {
	return c.react(ctx, slug, "dislike")
}

func (c *Client) BookmarkPost(ctx context.Context, slug string) (*models.ReactionResult, error) {
	return c.react(ctx, slug, "bookmark")
}

func (c *Client) react(ctx context.Context, slug, kind string) (*models.ReactionResult, error) {
	var wire models.WireReactionResult
	if err := c.do(ctx, http.MethodPost, "posts/"+slug+"/"+kind, nil, nil, &wire); err != nil {
		return nil, err
	}

	res := models.ReactionResultFromWire(wire)
	return &res, nil
}
