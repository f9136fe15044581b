package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) (Sequence[model.Category], error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, path: "/admin/categories"})
	if err != nil {
		return Sequence[model.Category]{}, err
	}
	return DecodeList[model.Category](raw)
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, body payload.CategoryCreate) error {
	return c.mutate(ctx, payload.OpCreateCategory, http.MethodPost, "/admin/categories", body)
}

// UpdateCategory patches a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, body payload.CategoryUpdate) error {
	return c.mutate(ctx, payload.OpUpdateCategory, http.MethodPatch, fmt.Sprintf("/admin/categories/%d", id), body)
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/categories/%d", id)})
	return err
}

// mutate checks body against the schema of op before sending it, so a body
// the backend would reject for unknown fields never leaves the process.
func (c *Client) mutate(ctx context.Context, op payload.Op, method, path string, body any) error {
	if err := payload.ValidateBody(op, body); err != nil {
		return err
	}
	_, err := c.do(ctx, request{method: method, path: path, body: body})
	return err
}
