package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/intake"
	"github.com/goliatone/go-intake/pkg/schema"
)

type stubDriver struct {
	inputs        []string
	selectIdx     []int
	confirm       []bool
	textAreas     []string
	infoMessages  []string
	selectConfigs []SelectConfig
	inputPos      int
	selectPos     int
	confirmPos    int
	textPos       int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectConfigs = append(s.selectConfigs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type stubCreator struct {
	submissions []intake.Submission
	id          intake.ProjectID
	err         error
	// failures is the number of calls to fail before succeeding; -1 fails
	// every call.
	failures int
}

func (s *stubCreator) Create(_ context.Context, submission intake.Submission) (intake.ProjectID, error) {
	s.submissions = append(s.submissions, submission)
	if s.failures != 0 {
		if s.failures > 0 {
			s.failures--
		}
		return "", s.err
	}
	return s.id, nil
}

func testCatalog(t *testing.T) schema.Catalog {
	t.Helper()
	catalog, err := schema.NewCatalog(schema.Template{
		ID:          "chatbot",
		Name:        "Chatbot Build",
		Description: "Conversational assistant projects.",
		Fields: []schema.FieldDefinition{
			{ID: "q1", Label: "Primary goal", Type: schema.FieldTypeText, Required: true},
			{ID: "channel", Label: "Primary channel", Type: schema.FieldTypeSelect, Options: []string{"Web", "Slack"}},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog
}

func newTestSession(t *testing.T, creator intake.ProjectCreator, options ...intake.Option) *intake.Session {
	t.Helper()
	options = append(options, intake.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	session, err := intake.NewSession(creator, options...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func TestRun_TemplatePath(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 0, 1},
		inputs:    []string{"Support bot", "5000", "Deflect tickets"},
		textAreas: []string{"A chatbot for support."},
		confirm:   []bool{true},
	}
	creator := &stubCreator{id: "proj-123"}
	session := newTestSession(t, creator, intake.WithCatalog(testCatalog(t)))

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	id, err := runner.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if id != "proj-123" {
		t.Fatalf("unexpected project id: %s", id)
	}
	if session.Stage() != intake.StageSubmitted {
		t.Fatalf("unexpected stage: %s", session.Stage())
	}

	if len(creator.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(creator.submissions))
	}
	want := intake.Submission{
		Title:       "Support bot",
		Description: "A chatbot for support.",
		Budget:      5000,
		TemplateData: &intake.TemplateData{
			TemplateName:        "Chatbot Build",
			TemplateDescription: "Conversational assistant projects.",
			Schema: []schema.FieldDefinition{
				{ID: "q1", Label: "Primary goal", Type: schema.FieldTypeText, Required: true},
				{ID: "channel", Label: "Primary channel", Type: schema.FieldTypeSelect, Options: []string{"Web", "Slack"}},
			},
			Answers: map[string]string{
				"q1":               "Deflect tickets",
				"channel":          "Slack",
				"mandatory-title":  "Support bot",
				"mandatory-desc":   "A chatbot for support.",
				"mandatory-budget": "5000",
			},
		},
	}
	if diff := cmp.Diff(want, creator.submissions[0]); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FreeFormWhenNoTemplates(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Data warehouse", "25000"},
		textAreas: []string{"Consolidate reporting."},
		confirm:   []bool{true},
	}
	creator := &stubCreator{id: "proj-9"}
	session := newTestSession(t, creator)

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	id, err := runner.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if id != "proj-9" {
		t.Fatalf("unexpected project id: %s", id)
	}

	got := creator.submissions[0]
	if got.TemplateData != nil {
		t.Fatalf("free-form submission should omit template data, got %+v", got.TemplateData)
	}
	if got.Title != "Data warehouse" || got.Budget != 25000 {
		t.Fatalf("unexpected submission: %+v", got)
	}

	if len(driver.infoMessages) == 0 {
		t.Fatal("expected an informational message about missing templates")
	}
}

func TestRun_ValidationRepromptsWithValuesKept(t *testing.T) {
	driver := &stubDriver{
		// First round leaves the budget empty; submit fails validation and
		// every field is prompted again with prior values as defaults.
		inputs:    []string{"Support bot", "", "Support bot", "5000"},
		textAreas: []string{"A chatbot.", "A chatbot."},
		confirm:   []bool{true, true},
	}
	creator := &stubCreator{id: "proj-1"}
	session := newTestSession(t, creator)

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), session); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(creator.submissions) != 1 {
		t.Fatalf("creator should only be called after validation passes, got %d calls", len(creator.submissions))
	}

	foundValidationMessage := false
	for _, msg := range driver.infoMessages {
		if msg == "budget is required" {
			foundValidationMessage = true
		}
	}
	if !foundValidationMessage {
		t.Fatalf("expected validation message in info output: %v", driver.infoMessages)
	}
}

func TestRun_SubmissionFailureRetries(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Support bot", "5000", "Support bot", "5000"},
		textAreas: []string{"A chatbot.", "A chatbot."},
		confirm:   []bool{true, true, true},
	}
	creator := &stubCreator{id: "proj-7", err: errors.New("upstream down"), failures: 1}
	session := newTestSession(t, creator)

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	id, err := runner.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if id != "proj-7" {
		t.Fatalf("unexpected project id: %s", id)
	}
	if len(creator.submissions) != 2 {
		t.Fatalf("expected two creation attempts, got %d", len(creator.submissions))
	}

	foundFailureMessage := false
	for _, msg := range driver.infoMessages {
		if msg == "Could not create the project. Please try again." {
			foundFailureMessage = true
		}
	}
	if !foundFailureMessage {
		t.Fatalf("expected generic failure message in info output: %v", driver.infoMessages)
	}
}

func TestRun_SubmissionFailureDeclineCancels(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Support bot", "5000"},
		textAreas: []string{"A chatbot."},
		confirm:   []bool{true, false},
	}
	creator := &stubCreator{err: errors.New("upstream down"), failures: -1}
	session := newTestSession(t, creator)

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), session); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if session.Stage() != intake.StageAbandoned {
		t.Fatalf("unexpected stage: %s", session.Stage())
	}
}

func TestRun_CancelAtChoice(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{2},
	}
	creator := &stubCreator{id: "proj-1"}
	session := newTestSession(t, creator, intake.WithCatalog(testCatalog(t)))

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), session); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if session.Stage() != intake.StageAbandoned {
		t.Fatalf("unexpected stage: %s", session.Stage())
	}
}

func TestRun_DuplicateTemplateNamesDisambiguated(t *testing.T) {
	catalog, err := schema.NewCatalog(
		schema.Template{
			ID:   "chatbot-basic",
			Name: "Chatbot Build",
			Fields: []schema.FieldDefinition{
				{ID: "q1", Label: "Primary goal", Type: schema.FieldTypeText},
			},
		},
		schema.Template{
			ID:   "chatbot-enterprise",
			Name: "Chatbot Build",
			Fields: []schema.FieldDefinition{
				{ID: "sso", Label: "SSO provider", Type: schema.FieldTypeText},
			},
		},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	driver := &stubDriver{
		selectIdx: []int{0, 1},
		inputs:    []string{"Support bot", "5000", "Okta"},
		textAreas: []string{"A chatbot."},
		confirm:   []bool{true},
	}
	creator := &stubCreator{id: "proj-5"}
	session := newTestSession(t, creator, intake.WithCatalog(catalog))

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), session); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(driver.selectConfigs) < 2 {
		t.Fatalf("expected template select prompt, got %d prompts", len(driver.selectConfigs))
	}
	wantOptions := []string{"Chatbot Build (chatbot-basic)", "Chatbot Build (chatbot-enterprise)", "Go back"}
	if diff := cmp.Diff(wantOptions, driver.selectConfigs[1].Options); diff != "" {
		t.Fatalf("template options mismatch (-want +got):\n%s", diff)
	}

	got := creator.submissions[0]
	if got.TemplateData == nil || got.TemplateData.Answers["sso"] != "Okta" {
		t.Fatalf("expected second template's submission, got %+v", got.TemplateData)
	}
}

func TestRun_BackFromTemplateList(t *testing.T) {
	driver := &stubDriver{
		// Enter template selection, back out, then go free-form.
		selectIdx: []int{0, 1, 1},
		inputs:    []string{"Support bot", "5000"},
		textAreas: []string{"A chatbot."},
		confirm:   []bool{true},
	}
	creator := &stubCreator{id: "proj-2"}
	session := newTestSession(t, creator, intake.WithCatalog(testCatalog(t)))

	runner, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	id, err := runner.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if id != "proj-2" {
		t.Fatalf("unexpected project id: %s", id)
	}
	if creator.submissions[0].TemplateData != nil {
		t.Fatal("expected a free-form submission after backing out of templates")
	}
}
