package client

import (
	"context"
	"net/http"

	"github.com/keepselvesreal/xai-community-gateway/internal/models"
)

// Конверт дерева комментариев. Мутации возвращают тот же конверт:
// дерево всегда перечитывается целиком, без инкрементальных патчей.
type wireCommentsEnvelope struct {
	Comments []models.WireComment `json:"comments"`
}

func (c *Client) ListComments(ctx context.Context, slug string) ([]models.Comment, error) {
	var env wireCommentsEnvelope
	if err := c.do(ctx, http.MethodGet, "posts/"+slug+"/comments", nil, nil, &env); err != nil {
		return nil, err
	}

	return models.CommentsFromWire(env.Comments), nil
}

func (c *Client) CreateComment(ctx context.Context, slug string, req models.CreateCommentRequest) ([]models.Comment, error) {
	var env wireCommentsEnvelope
	if err := c.do(ctx, http.MethodPost, "posts/"+slug+"/comments", nil, req, &env); err != nil {
		return nil, err
	}

	return models.CommentsFromWire(env.Comments), nil
}

func (c *Client) UpdateComment(ctx context.Context, slug, id string, req models.UpdateCommentRequest) ([]models.Comment, error) {
	var env wireCommentsEnvelope
	if err := c.do(ctx, http.MethodPatch, "posts/"+slug+"/comments/"+id, nil, req, &env); err != nil {
		return nil, err
	}

	return models.CommentsFromWire(env.Comments), nil
}

func (c *Client) DeleteComment(ctx context.Context, slug, id string) ([]models.Comment, error) {
	var env wireCommentsEnvelope
	if err := c.do(ctx, http.MethodDelete, "posts/"+slug+"/comments/"+id, nil, nil, &env); err != nil {
		return nil, err
	}

	return models.CommentsFromWire(env.Comments), nil
}
