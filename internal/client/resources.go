package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

type PublishedPage struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

type PostInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	AuthorID  string `json:"authorId,omitempty"`
}

func (g *Gateway) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := g.Do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) ListPublished(ctx context.Context, page, limit int) (*PublishedPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/posts/published"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out PublishedPage
	if err := g.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var out models.Post
	if err := g.Do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	var out models.Post
	if err := g.Do(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) DeletePost(ctx context.Context, id int) error {
	return g.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := g.Do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) DeleteUser(ctx context.Context, id string) error {
	return g.Do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}
