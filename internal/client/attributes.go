package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

// ListAttributes fetches the attributes of a category with their options.
func (c *Client) ListAttributes(ctx context.Context, categoryID int64) ([]model.Attribute, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/admin/categories/%d/attributes", categoryID),
	})
	if err != nil {
		return nil, err
	}
	seq, err := DecodeList[model.Attribute](raw)
	if err != nil {
		return nil, err
	}
	return seq.Items, nil
}

// CreateAttribute creates an attribute under a category.
func (c *Client) CreateAttribute(ctx context.Context, categoryID int64, body payload.AttributeCreate) error {
	return c.mutate(ctx, payload.OpCreateAttribute, http.MethodPost,
		fmt.Sprintf("/admin/categories/%d/attributes", categoryID), body)
}

// UpdateAttribute patches an attribute.
func (c *Client) UpdateAttribute(ctx context.Context, id int64, body payload.AttributeUpdate) error {
	return c.mutate(ctx, payload.OpUpdateAttribute, http.MethodPatch,
		fmt.Sprintf("/admin/attributes/%d", id), body)
}

// DeleteAttribute deletes an attribute.
func (c *Client) DeleteAttribute(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/attributes/%d", id)})
	return err
}

// CreateOption adds an option to an attribute.
func (c *Client) CreateOption(ctx context.Context, attributeID int64, body payload.OptionCreate) error {
	return c.mutate(ctx, payload.OpCreateOption, http.MethodPost,
		fmt.Sprintf("/admin/attributes/%d/options", attributeID), body)
}

// UpdateOption patches an option. The route is scoped by the owning attribute.
func (c *Client) UpdateOption(ctx context.Context, attributeID, optionID int64, body payload.OptionUpdate) error {
	return c.mutate(ctx, payload.OpUpdateOption, http.MethodPatch,
		fmt.Sprintf("/admin/attributes/%d/options/%d", attributeID, optionID), body)
}

// DeleteOption deletes an option.
func (c *Client) DeleteOption(ctx context.Context, attributeID, optionID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/admin/attributes/%d/options/%d", attributeID, optionID),
	})
	return err
}
