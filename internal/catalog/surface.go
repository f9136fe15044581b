package catalog

// SurfaceKind identifies an edit form.
type SurfaceKind int

const (
	NoSurface SurfaceKind = iota
	NewCategory
	EditCategory
	NewAttribute
	EditAttribute
	NewOption
	EditOption
)

// Surface is the edit form currently open. ID is the edited entity, or the
// parent attribute for NewOption.
type Surface struct {
	Kind SurfaceKind
	ID   int64
}

// Open reports whether a form is open.
func (s Surface) Open() bool {
	return s.Kind != NoSurface
}
