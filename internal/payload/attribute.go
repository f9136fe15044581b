package payload

import "github.com/erazemk/katalog/internal/model"

// AttributeCreate is the body of POST /admin/categories/:categoryId/attributes.
type AttributeCreate struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	IsRequired   *bool    `json:"isRequired,omitempty"`
	DisplayOrder *float64 `json:"displayOrder,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsFilterable *bool    `json:"isFilterable,omitempty"`
	IsSearchable *bool    `json:"isSearchable,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Group        *string  `json:"group,omitempty"`
	MinValue     *float64 `json:"minValue,omitempty"`
	MaxValue     *float64 `json:"maxValue,omitempty"`
}

// Fields returns the body as a Form.
func (a AttributeCreate) Fields() Form { return toForm(a) }

// AttributeUpdate is the body of PATCH /admin/attributes/:id.
type AttributeUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Type         *string  `json:"type,omitempty"`
	IsRequired   *bool    `json:"isRequired,omitempty"`
	DisplayOrder *float64 `json:"displayOrder,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsFilterable *bool    `json:"isFilterable,omitempty"`
	IsSearchable *bool    `json:"isSearchable,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Group        *string  `json:"group,omitempty"`
	MinValue     *float64 `json:"minValue,omitempty"`
	MaxValue     *float64 `json:"maxValue,omitempty"`
}

// Fields returns the body as a Form.
func (a AttributeUpdate) Fields() Form { return toForm(a) }

// NormalizeCreateAttribute builds a create body. The type defaults to TEXT
// and the bounds are only sent for NUMBER attributes.
func NormalizeCreateAttribute(f Form) AttributeCreate {
	name, _ := text(f["name"])
	typ, ok := text(f["type"])
	if !ok {
		typ = model.TypeText
	}

	out := AttributeCreate{
		Name:         name,
		Type:         typ,
		IsRequired:   flag(f, "isRequired", "required"),
		DisplayOrder: optNumber(f, "displayOrder"),
		Description:  optText(f, "description"),
		IsFilterable: flag(f, "isFilterable"),
		IsSearchable: flag(f, "isSearchable"),
		Unit:         optText(f, "unit"),
		Group:        optText(f, "group"),
	}
	if typ == model.TypeNumber {
		out.MinValue = optNumber(f, "minValue")
		out.MaxValue = optNumber(f, "maxValue")
	}
	return out
}

// NormalizeUpdateAttribute builds a patch body. Bounds are only sent when the
// body itself sets type to NUMBER; the stored type of the attribute is not
// consulted.
func NormalizeUpdateAttribute(f Form) AttributeUpdate {
	out := AttributeUpdate{
		Name:         optText(f, "name"),
		Type:         optText(f, "type"),
		IsRequired:   flag(f, "isRequired", "required"),
		DisplayOrder: optNumber(f, "displayOrder"),
		Description:  optText(f, "description"),
		IsFilterable: flag(f, "isFilterable"),
		IsSearchable: flag(f, "isSearchable"),
		Unit:         optText(f, "unit"),
		Group:        optText(f, "group"),
	}
	if out.Type != nil && *out.Type == model.TypeNumber {
		out.MinValue = optNumber(f, "minValue")
		out.MaxValue = optNumber(f, "maxValue")
	}
	return out
}
