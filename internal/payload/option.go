package payload

// OptionCreate is the body of POST /admin/attributes/:attributeId/options.
type OptionCreate struct {
	Label        string   `json:"label"`
	Value        string   `json:"value"`
	DisplayOrder *float64 `json:"displayOrder,omitempty"`
}

// Fields returns the body as a Form.
func (o OptionCreate) Fields() Form { return toForm(o) }

// OptionUpdate is the body of PATCH /admin/attributes/:attributeId/options/:optionId.
type OptionUpdate struct {
	Label        *string  `json:"label,omitempty"`
	Value        *string  `json:"value,omitempty"`
	DisplayOrder *float64 `json:"displayOrder,omitempty"`
}

// Fields returns the body as a Form.
func (o OptionUpdate) Fields() Form { return toForm(o) }

// labelValue resolves label and value, each falling back to the other when
// blank.
func labelValue(f Form) (label, value string, ok bool) {
	label, lok := text(f["label"])
	value, vok := text(f["value"])
	switch {
	case lok && !vok:
		value = label
	case vok && !lok:
		label = value
	}
	return label, value, lok || vok
}

// NormalizeCreateOption always sends label and value, possibly empty.
func NormalizeCreateOption(f Form) OptionCreate {
	label, value, _ := labelValue(f)
	return OptionCreate{
		Label:        label,
		Value:        value,
		DisplayOrder: optNumber(f, "displayOrder"),
	}
}

// NormalizeUpdateOption sends label and value only when at least one of them
// is set.
func NormalizeUpdateOption(f Form) OptionUpdate {
	out := OptionUpdate{DisplayOrder: optNumber(f, "displayOrder")}
	if label, value, ok := labelValue(f); ok {
		out.Label = &label
		out.Value = &value
	}
	return out
}
