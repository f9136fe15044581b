package model

import "time"

// Category is a node of the product taxonomy. Slug and timestamps are
// assigned by the backend.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Slug         string    `json:"slug"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ProductCount *int      `json:"productCount,omitempty"`
}

// DescriptionText returns the description or an empty string.
func (c Category) DescriptionText() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}

// ListMeta is the pagination block of an enveloped list response.
type ListMeta struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Total     int    `json:"total"`
	Pages     int    `json:"pages"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}
