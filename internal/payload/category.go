package payload

// CategoryCreate is the body of POST /admin/categories.
type CategoryCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Fields returns the body as a Form.
func (c CategoryCreate) Fields() Form { return toForm(c) }

// CategoryUpdate is the body of PATCH /admin/categories/:id.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Fields returns the body as a Form.
func (c CategoryUpdate) Fields() Form { return toForm(c) }

// NormalizeCreateCategory keeps name (always, possibly empty) and a
// non-blank description.
func NormalizeCreateCategory(f Form) CategoryCreate {
	name, _ := text(f["name"])
	return CategoryCreate{
		Name:        name,
		Description: optText(f, "description"),
	}
}

// NormalizeUpdateCategory keeps non-blank name and description.
func NormalizeUpdateCategory(f Form) CategoryUpdate {
	return CategoryUpdate{
		Name:        optText(f, "name"),
		Description: optText(f, "description"),
	}
}
