package intake

import (
	"context"

	"github.com/goliatone/go-intake/pkg/schema"
)

// ProjectID identifies a created project in the surrounding system.
type ProjectID string

// TemplateLister supplies the published templates available when a session
// opens. Failures degrade gracefully to an empty catalog; the free-form path
// stays available either way.
type TemplateLister interface {
	ListPublished(ctx context.Context) ([]schema.Template, error)
}

// TemplateListerFunc adapts a function to the TemplateLister interface.
type TemplateListerFunc func(ctx context.Context) ([]schema.Template, error)

func (f TemplateListerFunc) ListPublished(ctx context.Context) ([]schema.Template, error) {
	return f(ctx)
}

// ProjectCreator performs the single outbound effect of a session: handing
// the finalized submission to the project-creation collaborator.
type ProjectCreator interface {
	Create(ctx context.Context, submission Submission) (ProjectID, error)
}

// ProjectCreatorFunc adapts a function to the ProjectCreator interface.
type ProjectCreatorFunc func(ctx context.Context, submission Submission) (ProjectID, error)

func (f ProjectCreatorFunc) Create(ctx context.Context, submission Submission) (ProjectID, error) {
	return f(ctx, submission)
}
