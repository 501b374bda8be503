package catalog

import (
	"context"

	"github.com/goliatone/go-intake/pkg/intake"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Lister exposes a loaded catalog source as the engine's template-listing
// collaborator. Each ListPublished call re-reads the source so a long-lived
// process observes newly published templates.
type Lister struct {
	loader *Loader
	source Source
}

var _ intake.TemplateLister = (*Lister)(nil)

// NewLister pairs a loader with the source it should list from.
func NewLister(loader *Loader, source Source) *Lister {
	if loader == nil {
		loader = NewLoader()
	}
	return &Lister{loader: loader, source: source}
}

// ListPublished loads the catalog and returns its templates in order.
func (l *Lister) ListPublished(ctx context.Context) ([]schema.Template, error) {
	catalog, err := l.loader.Load(ctx, l.source)
	if err != nil {
		return nil, err
	}
	return catalog.Templates(), nil
}

// StaticLister serves a fixed set of templates. Useful for tests and for
// callers that fetched templates through another channel.
type StaticLister struct {
	templates []schema.Template
}

var _ intake.TemplateLister = (*StaticLister)(nil)

// NewStaticLister copies the provided templates.
func NewStaticLister(templates ...schema.Template) *StaticLister {
	out := make([]schema.Template, len(templates))
	for i, tpl := range templates {
		out[i] = tpl.Clone()
	}
	return &StaticLister{templates: out}
}

// ListPublished returns the fixed template set.
func (l *StaticLister) ListPublished(context.Context) ([]schema.Template, error) {
	out := make([]schema.Template, len(l.templates))
	for i, tpl := range l.templates {
		out[i] = tpl.Clone()
	}
	return out, nil
}
