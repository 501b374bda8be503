package intake

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Stage enumerates the session workflow. Transitions follow a fixed table:
// Choice -> TemplateSelect or Elaborate, TemplateSelect -> Elaborate or back
// to Choice, Elaborate -> Submitted on success or back out. Submitted and
// Abandoned are terminal.
type Stage string

const (
	StageChoice         Stage = "choice"
	StageTemplateSelect Stage = "template-select"
	StageElaborate      Stage = "elaborate"
	StageSubmitted      Stage = "submitted"
	StageAbandoned      Stage = "abandoned"
)

// Option customises a session at construction time.
type Option func(*Session)

// WithTemplateLister injects the collaborator that supplies published
// templates. Without one the session offers only the free-form path.
func WithTemplateLister(lister TemplateLister) Option {
	return func(s *Session) {
		s.lister = lister
	}
}

// WithCatalog seeds the session with a pre-loaded catalog, bypassing the
// lister. Useful when the caller already fetched templates.
func WithCatalog(catalog schema.Catalog) Option {
	return func(s *Session) {
		s.catalog = catalog
		s.catalogSeeded = true
	}
}

// WithLogger sets the diagnostic logger. Catalog load failures are logged
// here and never surfaced to the user.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session owns one intake flow from path choice to submission. It is
// single-threaded by design: every transition happens synchronously in
// response to a discrete user action, and no state is shared across sessions.
type Session struct {
	stage         Stage
	catalog       schema.Catalog
	catalogSeeded bool
	template      *schema.Template
	canonical     CanonicalAttributes
	answers       map[string]AnswerValue
	submitting    bool

	creator ProjectCreator
	lister  TemplateLister
	logger  *slog.Logger
}

// NewSession constructs a session bound to the project-creation collaborator.
func NewSession(creator ProjectCreator, options ...Option) (*Session, error) {
	if creator == nil {
		return nil, errors.New("intake: project creator is required")
	}
	s := &Session{
		creator: creator,
		answers: make(map[string]AnswerValue),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Start opens the session at the Choice stage and loads the published
// templates. A lister failure is not fatal: the session degrades to an empty
// catalog and only the free-form path has templates to offer.
func (s *Session) Start(ctx context.Context) error {
	if s.stage != "" {
		return &StageError{Op: "start", Stage: s.stage}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.catalogSeeded && s.lister != nil {
		templates, err := s.lister.ListPublished(ctx)
		if err != nil {
			s.logger.Warn("template catalog unavailable, continuing without templates", "error", err)
		} else if catalog, err := schema.NewCatalog(templates...); err != nil {
			s.logger.Warn("template catalog rejected, continuing without templates", "error", err)
		} else {
			s.catalog = catalog
		}
	}

	s.stage = StageChoice
	return nil
}

// Stage reports the current workflow stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// Submitting reports whether a createProject call is in flight.
func (s *Session) Submitting() bool {
	return s.submitting
}

// Templates returns the published templates available for selection.
func (s *Session) Templates() []schema.Template {
	return s.catalog.Templates()
}

// ChooseTemplatePath moves from Choice to TemplateSelect.
func (s *Session) ChooseTemplatePath() error {
	if s.stage != StageChoice {
		return &StageError{Op: "choose template path", Stage: s.stage}
	}
	s.stage = StageTemplateSelect
	return nil
}

// ChooseFreeForm moves from Choice straight to Elaborate with no template
// bound; the engine renders its own canonical fields.
func (s *Session) ChooseFreeForm() error {
	if s.stage != StageChoice {
		return &StageError{Op: "choose free-form path", Stage: s.stage}
	}
	s.template = nil
	s.stage = StageElaborate
	return nil
}

// SelectTemplate binds one published template and moves to Elaborate.
func (s *Session) SelectTemplate(id string) error {
	if s.stage != StageTemplateSelect {
		return &StageError{Op: "select template", Stage: s.stage}
	}
	tpl, ok := s.catalog.Template(id)
	if !ok {
		return ErrUnknownTemplate
	}
	s.template = &tpl
	s.stage = StageElaborate
	return nil
}

// Template returns the bound template, if any.
func (s *Session) Template() (schema.Template, bool) {
	if s.template == nil {
		return schema.Template{}, false
	}
	return s.template.Clone(), true
}

// Back reverses one step. From TemplateSelect it returns to Choice. From
// Elaborate with a template bound it clears the binding and its supplementary
// answers and returns to TemplateSelect; the canonical attributes survive.
// From free-form Elaborate it returns to Choice.
func (s *Session) Back() error {
	switch s.stage {
	case StageTemplateSelect:
		s.stage = StageChoice
	case StageElaborate:
		if s.submitting {
			return ErrSubmitPending
		}
		if s.template != nil {
			s.template = nil
			s.answers = make(map[string]AnswerValue)
			s.stage = StageTemplateSelect
		} else {
			s.stage = StageChoice
		}
	default:
		return &StageError{Op: "go back", Stage: s.stage}
	}
	return nil
}

// CanonicalFields returns the engine-owned definitions for the three
// canonical inputs rendered whenever the active template does not define them.
func CanonicalFields() []schema.FieldDefinition {
	return []schema.FieldDefinition{
		{ID: IDTitle, Label: "Project title", Type: schema.FieldTypeText, Required: true},
		{ID: IDDescription, Label: "Project description", Type: schema.FieldTypeTextArea, Required: true},
		{ID: IDBudget, Label: "Budget", HelperText: "Estimated budget for the project", Type: schema.FieldTypeNumber, Required: true},
	}
}

// Fields returns the ordered definitions the Elaborate stage should render:
// the canonical inputs, minus any the template overrides under a reserved
// identifier, followed by the template's own fields.
func (s *Session) Fields() []schema.FieldDefinition {
	canonical := CanonicalFields()
	if s.template == nil {
		return canonical
	}

	covered := make(map[Role]bool, 3)
	for _, field := range s.template.Fields {
		if role := IdentifierRole(field.ID); role.Reserved() {
			covered[role] = true
		}
	}

	out := make([]schema.FieldDefinition, 0, len(canonical)+len(s.template.Fields))
	for _, field := range canonical {
		if !covered[IdentifierRole(field.ID)] {
			out = append(out, field)
		}
	}
	for _, field := range s.template.Fields {
		out = append(out, field.Clone())
	}
	return out
}

// SetField routes one edit through the binding resolver. Identifiers equal to
// a reserved constant write the matching canonical attribute; a template
// field that collides with a reserved identifier therefore feeds the
// canonical attribute, last write wins. Every other identifier writes into
// the answer set verbatim, replacing any prior value.
func (s *Session) SetField(id, raw string) error {
	if s.stage != StageElaborate {
		return &StageError{Op: "set field", Stage: s.stage}
	}
	if s.submitting {
		return ErrSubmitPending
	}

	switch IdentifierRole(id) {
	case RoleTitle:
		s.canonical.Title = raw
	case RoleDescription:
		s.canonical.Description = raw
	case RoleBudget:
		s.canonical.Budget = raw
	default:
		s.answers[id] = s.wrapAnswer(id, raw)
	}
	return nil
}

// wrapAnswer tags the raw input with the variant the field's declared type
// calls for. Unknown identifiers default to text.
func (s *Session) wrapAnswer(id, raw string) AnswerValue {
	if s.template != nil {
		if field, ok := s.template.Field(id); ok && field.Type == schema.FieldTypeNumber {
			return NumberAnswer(raw)
		}
	}
	return TextAnswer(raw)
}

// FieldValue returns the raw value currently bound to an identifier, for
// redisplay.
func (s *Session) FieldValue(id string) (string, bool) {
	switch IdentifierRole(id) {
	case RoleTitle:
		return s.canonical.Title, s.canonical.Title != ""
	case RoleDescription:
		return s.canonical.Description, s.canonical.Description != ""
	case RoleBudget:
		return s.canonical.Budget, s.canonical.Budget != ""
	default:
		answer, ok := s.answers[id]
		if !ok {
			return "", false
		}
		return answer.Raw(), true
	}
}

// Canonical returns the raw-text canonical attributes.
func (s *Session) Canonical() CanonicalAttributes {
	return s.canonical
}

// Answers returns a copy of the supplementary answer set as raw values.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for id, answer := range s.answers {
		out[id] = answer.Raw()
	}
	return out
}

// Validate checks the canonical attributes. It returns a *ValidationError
// aggregating every problem, or nil. Supplementary answers are never
// validated here; their shape is the template author's contract.
func (s *Session) Validate() error {
	var problems []string
	if strings.TrimSpace(s.canonical.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(s.canonical.Description) == "" {
		problems = append(problems, "description is required")
	}
	budget := NumberAnswer(s.canonical.Budget)
	switch {
	case budget.Empty():
		problems = append(problems, "budget is required")
	default:
		value, err := budget.Float()
		switch {
		case err != nil, math.IsNaN(value), math.IsInf(value, 0):
			// ParseFloat accepts "NaN" and "Inf"; neither is a budget.
			problems = append(problems, "budget must be a number")
		case value < 0:
			problems = append(problems, "budget must not be negative")
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Submit validates, assembles the submission, and hands it to the creation
// collaborator. Re-entrant calls while a submit is pending are ignored with
// ErrSubmitPending. On failure the session stays in Elaborate with every
// entered value intact; on success it transitions to Submitted and releases
// its state.
func (s *Session) Submit(ctx context.Context) (ProjectID, error) {
	if s.stage != StageElaborate {
		return "", &StageError{Op: "submit", Stage: s.stage}
	}
	if s.submitting {
		return "", ErrSubmitPending
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.Validate(); err != nil {
		return "", err
	}

	submission, err := assembleSubmission(s.canonical, s.template, s.answers)
	if err != nil {
		// Validate already gates budget parsing; reaching this means the
		// raw value changed between checks, treat as validation.
		return "", &ValidationError{Problems: []string{"budget must be a number"}}
	}

	s.submitting = true
	id, err := s.creator.Create(ctx, submission)
	s.submitting = false

	if err != nil {
		return "", &SubmissionError{cause: err, message: userMessageFor(err)}
	}

	s.stage = StageSubmitted
	s.release()
	return id, nil
}

// Cancel abandons the session with no side effects committed. Cancelling
// while a submit is in flight is flagged to the caller instead of silently
// discarding the pending request.
func (s *Session) Cancel() error {
	if s.submitting {
		return ErrSubmitPending
	}
	switch s.stage {
	case StageSubmitted, StageAbandoned:
		return ErrSessionClosed
	}
	s.stage = StageAbandoned
	s.release()
	return nil
}

func (s *Session) release() {
	s.template = nil
	s.canonical = CanonicalAttributes{}
	s.answers = make(map[string]AnswerValue)
}
