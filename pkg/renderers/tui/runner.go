package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/intake"
	"github.com/goliatone/go-intake/pkg/schema"
)

const (
	choiceTemplate = "Start from a template"
	choiceFreeForm = "Describe the project yourself"
	choiceCancel   = "Cancel"
	selectGoBack   = "Go back"
)

// Runner drives an intake session through terminal prompts: path choice,
// template selection, field entry, and submission with retry on failure.
type Runner struct {
	driver PromptDriver
	theme  Theme
}

// New constructs a runner, defaulting to the survey-backed prompt driver when
// none is supplied.
func New(options ...Option) (*Runner, error) {
	r := &Runner{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		driver, err := newSurveyDriver()
		if err != nil {
			return nil, fmt.Errorf("tui: create prompt driver: %w", err)
		}
		r.driver = driver
	}
	return r, nil
}

// Run walks the session to completion and returns the created project ID.
// When the user aborts at any prompt the session is cancelled and ErrAborted
// is returned.
func (r *Runner) Run(ctx context.Context, session *intake.Session) (intake.ProjectID, error) {
	if session == nil {
		return "", errors.New("tui: session is required")
	}
	if session.Stage() == "" {
		if err := session.Start(ctx); err != nil {
			return "", err
		}
	}

	for {
		var err error
		switch session.Stage() {
		case intake.StageChoice:
			err = r.runChoice(ctx, session)
		case intake.StageTemplateSelect:
			err = r.runTemplateSelect(ctx, session)
		case intake.StageElaborate:
			var id intake.ProjectID
			var done bool
			id, done, err = r.runElaborate(ctx, session)
			if err == nil && done {
				return id, nil
			}
		case intake.StageAbandoned:
			return "", ErrAborted
		default:
			return "", fmt.Errorf("tui: unexpected session stage %q", session.Stage())
		}

		if err != nil {
			if errors.Is(err, ErrAborted) {
				_ = session.Cancel()
				return "", ErrAborted
			}
			return "", err
		}
	}
}

func (r *Runner) runChoice(ctx context.Context, session *intake.Session) error {
	if len(session.Templates()) == 0 {
		if err := r.info(ctx, "No published templates are available; starting a free-form request."); err != nil {
			return err
		}
		return session.ChooseFreeForm()
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: "How would you like to describe the project?",
		Options: []string{choiceTemplate, choiceFreeForm, choiceCancel},
	})
	if err != nil {
		return err
	}

	switch idx {
	case 0:
		return session.ChooseTemplatePath()
	case 1:
		return session.ChooseFreeForm()
	default:
		return ErrAborted
	}
}

func (r *Runner) runTemplateSelect(ctx context.Context, session *intake.Session) error {
	templates := session.Templates()
	options := append(templateLabels(templates), selectGoBack)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:  "Pick a template",
		Options:  options,
		PageSize: 10,
	})
	if err != nil {
		return err
	}

	if idx < 0 || idx >= len(templates) {
		return session.Back()
	}
	return session.SelectTemplate(templates[idx].ID)
}

// templateLabels disambiguates templates that share a display name so the
// chosen label maps back to exactly one template.
func templateLabels(templates []schema.Template) []string {
	counts := make(map[string]int, len(templates))
	for _, tpl := range templates {
		counts[tpl.Name]++
	}
	labels := make([]string, 0, len(templates))
	for _, tpl := range templates {
		if counts[tpl.Name] > 1 {
			labels = append(labels, fmt.Sprintf("%s (%s)", tpl.Name, tpl.ID))
		} else {
			labels = append(labels, tpl.Name)
		}
	}
	return labels
}

func (r *Runner) runElaborate(ctx context.Context, session *intake.Session) (intake.ProjectID, bool, error) {
	if tpl, ok := session.Template(); ok {
		if err := r.info(ctx, fmt.Sprintf("Template: %s", tpl.Name)); err != nil {
			return "", false, err
		}
		if tpl.Description != "" {
			if err := r.info(ctx, tpl.Description); err != nil {
				return "", false, err
			}
		}
	}

	for {
		for _, field := range session.Fields() {
			value, err := r.promptField(ctx, session, field)
			if err != nil {
				return "", false, err
			}
			if err := session.SetField(field.ID, value); err != nil {
				return "", false, err
			}
		}

		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Submit this project request?",
			Default: true,
		})
		if err != nil {
			return "", false, err
		}
		if !confirmed {
			// Stepping back from a templated form drops the template binding
			// so the user can pick another; canonical answers survive.
			if err := session.Back(); err != nil {
				return "", false, err
			}
			return "", false, nil
		}

		id, err := session.Submit(ctx)
		if err == nil {
			if err := r.info(ctx, fmt.Sprintf("Project created: %s", id)); err != nil {
				return "", false, err
			}
			return id, true, nil
		}

		var validation *intake.ValidationError
		if errors.As(err, &validation) {
			if err := r.errInfo(ctx, validation.UserMessage()); err != nil {
				return "", false, err
			}
			continue
		}

		var submission *intake.SubmissionError
		if errors.As(err, &submission) {
			if err := r.errInfo(ctx, submission.UserMessage()); err != nil {
				return "", false, err
			}
			retry, cerr := r.driver.Confirm(ctx, ConfirmConfig{
				Message: "Try again?",
				Default: true,
			})
			if cerr != nil {
				return "", false, cerr
			}
			if !retry {
				return "", false, ErrAborted
			}
			continue
		}

		return "", false, err
	}
}

func (r *Runner) promptField(ctx context.Context, session *intake.Session, field schema.FieldDefinition) (string, error) {
	current, _ := session.FieldValue(field.ID)
	label := field.Label
	if label == "" {
		label = field.ID
	}

	switch field.Type {
	case schema.FieldTypeTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current,
			Help:    field.HelperText,
		})
	case schema.FieldTypeSelect:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current),
			Help:         field.HelperText,
			PageSize:     10,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", fmt.Errorf("tui: select for %q returned index %d out of range", field.ID, idx)
		}
		return field.Options[idx], nil
	case schema.FieldTypeNumber:
		return r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current,
			Help:      field.HelperText,
			Validator: validateNumber,
		})
	case schema.FieldTypeDate:
		help := field.HelperText
		if help == "" {
			help = "YYYY-MM-DD"
		}
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    help,
		})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    field.HelperText,
		})
	}
}

// validateNumber rejects non-numeric input at the prompt; emptiness is
// enforced by session validation at submit time, not here.
func validateNumber(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	if r.theme.InfoPrefix != "" {
		msg = r.theme.InfoPrefix + " " + msg
	}
	return r.driver.Info(ctx, msg)
}

func (r *Runner) errInfo(ctx context.Context, msg string) error {
	if r.theme.ErrorPrefix != "" {
		msg = r.theme.ErrorPrefix + " " + msg
	}
	return r.driver.Info(ctx, msg)
}
