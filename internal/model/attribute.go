package model

import (
	"cmp"
	"slices"
	"time"
)

// Attribute types.
const (
	TypeText        = "TEXT"
	TypeNumber      = "NUMBER"
	TypeSelect      = "SELECT"
	TypeMultiselect = "MULTISELECT"
	TypeBoolean     = "BOOLEAN"
)

// AttributeTypes lists the types in the order the forms offer them.
var AttributeTypes = []string{TypeText, TypeNumber, TypeSelect, TypeMultiselect, TypeBoolean}

// ValidAttributeType reports whether t is one of the known attribute types.
func ValidAttributeType(t string) bool {
	return slices.Contains(AttributeTypes, t)
}

// HasOptions reports whether attributes of type t carry an option list.
func HasOptions(t string) bool {
	return t == TypeSelect || t == TypeMultiselect
}

// Attribute is a category-scoped property definition.
type Attribute struct {
	ID           int64      `json:"id"`
	CategoryID   int64      `json:"categoryId"`
	Name         string     `json:"name"`
	Label        string     `json:"label,omitempty"`
	Slug         string     `json:"slug,omitempty"`
	Type         string     `json:"type"`
	IsRequired   bool       `json:"isRequired"`
	DisplayOrder float64    `json:"displayOrder"`
	Description  *string    `json:"description,omitempty"`
	IsFilterable bool       `json:"isFilterable"`
	IsSearchable bool       `json:"isSearchable"`
	Unit         *string    `json:"unit,omitempty"`
	Group        *string    `json:"group,omitempty"`
	MinValue     *float64   `json:"minValue,omitempty"`
	MaxValue     *float64   `json:"maxValue,omitempty"`
	Options      []Option   `json:"options,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns the name, falling back to the label and then to a dash.
func (a Attribute) DisplayName() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.Label != "":
		return a.Label
	default:
		return "—"
	}
}

// HasOptions reports whether the attribute's type carries options.
func (a Attribute) HasOptions() bool {
	return HasOptions(a.Type)
}

// SortedOptions returns a copy of the options ordered by display order.
func (a Attribute) SortedOptions() []Option {
	opts := slices.Clone(a.Options)
	slices.SortStableFunc(opts, func(x, y Option) int {
		return cmp.Compare(x.DisplayOrder, y.DisplayOrder)
	})
	return opts
}

// Option is a selectable value of a SELECT or MULTISELECT attribute.
type Option struct {
	ID                  int64      `json:"id"`
	CategoryAttributeID int64      `json:"categoryAttributeId"`
	Label               string     `json:"label"`
	Value               string     `json:"value"`
	DisplayOrder        float64    `json:"displayOrder"`
	CreatedAt           *time.Time `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns the value, falling back to the label and then to a dash.
func (o Option) DisplayName() string {
	switch {
	case o.Value != "":
		return o.Value
	case o.Label != "":
		return o.Label
	default:
		return "—"
	}
}

// FindOptionOwner returns the ID of the attribute whose options include
// optionID, scanning attrs in order.
func FindOptionOwner(attrs []Attribute, optionID int64) (int64, bool) {
	for _, a := range attrs {
		for _, o := range a.Options {
			if o.ID == optionID {
				return a.ID, true
			}
		}
	}
	return 0, false
}
