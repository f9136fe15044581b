package catalog

import "context"

// Confirmer gates destructive operations. Confirm reports whether the user
// agreed to prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Delete prompts.
const (
	PromptDeleteCategory  = "Ali res želite izbrisati to kategorijo?"
	PromptDeleteAttribute = "Ali res želite izbrisati ta atribut?"
	PromptDeleteOption    = "Ali res želite izbrisati to možnost?"
)
