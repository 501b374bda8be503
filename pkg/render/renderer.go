package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Form is the view renderers consume: the ordered field definitions the
// session's Elaborate stage prescribes, plus descriptive metadata. Callers
// build one from an intake session via its Fields accessor.
type Form struct {
	Name        string
	Description string
	Fields      []schema.FieldDefinition
}

// RenderOptions carries per-request data renderers can use without mutating
// the form view.
type RenderOptions struct {
	// Values pre-populates controls keyed by field identifier, preserving
	// user input across validation round trips.
	Values map[string]string
	// Errors surfaces validation feedback keyed by field identifier. The
	// empty key holds form-level messages.
	Errors map[string][]string
	// Theme optionally carries resolved go-theme tokens and asset resolvers
	// for renderers that emit themed chrome.
	Theme *theme.RendererConfig
}

// Renderer converts a form view into a byte representation (HTML, prompt
// transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}
