package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/client"
	"github.com/goliatone/go-intake/pkg/intake"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/html"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
)

type config struct {
	Catalog   string `env:"INTAKE_CATALOG"`
	OpenAPI   string `env:"INTAKE_OPENAPI"`
	Operation string `env:"INTAKE_OPERATION"`
	Endpoint  string `env:"INTAKE_ENDPOINT"`
	Token     string `env:"INTAKE_TOKEN"`
	Debug     bool   `env:"INTAKE_DEBUG"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse environment: %v\n", err)
		os.Exit(1)
	}

	catalogSource := flag.String("catalog", cfg.Catalog, "template catalog path or URL")
	openapiPath := flag.String("openapi", cfg.OpenAPI, "OpenAPI document to import a template from")
	operation := flag.String("operation", cfg.Operation, "operation ID to import from the OpenAPI document")
	endpoint := flag.String("endpoint", cfg.Endpoint, "project-creation endpoint URL (dry run if empty)")
	renderHTML := flag.String("render-html", "", "write the free-form intake page to a file instead of running interactively")
	debug := flag.Bool("debug", cfg.Debug, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	if *renderHTML != "" {
		if err := writeHTMLForm(ctx, *renderHTML); err != nil {
			logger.Error("render html form", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Form written to %s\n", *renderHTML)
		return
	}

	lister, err := buildLister(ctx, *catalogSource, *openapiPath, *operation)
	if err != nil {
		logger.Error("configure template catalog", "error", err)
		os.Exit(1)
	}

	creator, err := buildCreator(*endpoint, cfg.Token)
	if err != nil {
		logger.Error("configure project creator", "error", err)
		os.Exit(1)
	}

	options := []intake.Option{intake.WithLogger(logger)}
	if lister != nil {
		options = append(options, intake.WithTemplateLister(lister))
	}
	session, err := intake.NewSession(creator, options...)
	if err != nil {
		logger.Error("create session", "error", err)
		os.Exit(1)
	}

	runner, err := tui.New()
	if err != nil {
		logger.Error("create runner", "error", err)
		os.Exit(1)
	}

	id, err := runner.Run(ctx, session)
	switch {
	case err == nil:
		logger.Debug("project created", "id", id)
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(130)
	default:
		logger.Error("intake failed", "error", err)
		os.Exit(1)
	}
}

func buildLister(ctx context.Context, source, openapiPath, operation string) (intake.TemplateLister, error) {
	if openapiPath != "" {
		if operation == "" {
			return nil, fmt.Errorf("-openapi requires -operation")
		}
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		template, err := catalog.ImportOperation(ctx, data, operation)
		if err != nil {
			return nil, err
		}
		return catalog.NewStaticLister(template), nil
	}

	if source == "" {
		return nil, nil
	}

	loader := catalog.NewLoader(catalog.WithHTTPClient(http.DefaultClient))
	return catalog.NewLister(loader, parseSource(source)), nil
}

func buildCreator(endpoint, token string) (intake.ProjectCreator, error) {
	if endpoint == "" {
		return dryRunCreator(), nil
	}
	options := []client.Option{}
	if token != "" {
		options = append(options, client.WithHeader("Authorization", "Bearer "+token))
	}
	return client.New(endpoint, options...)
}

// dryRunCreator prints the assembled submission instead of calling a backend,
// for trying out catalogs locally.
func dryRunCreator() intake.ProjectCreator {
	return intake.ProjectCreatorFunc(func(_ context.Context, submission intake.Submission) (intake.ProjectID, error) {
		payload, err := json.MarshalIndent(submission, "", "  ")
		if err != nil {
			return "", err
		}
		fmt.Println(string(payload))
		return "dry-run", nil
	})
}

func writeHTMLForm(ctx context.Context, path string) error {
	registry := render.NewRegistry()
	htmlRenderer, err := html.New()
	if err != nil {
		return err
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return err
	}
	renderer, err := registry.Get("html")
	if err != nil {
		return err
	}

	form := render.Form{
		Name:   "New project request",
		Fields: intake.CanonicalFields(),
	}
	output, err := renderer.Render(ctx, form, render.RenderOptions{})
	if err != nil {
		return err
	}
	return os.WriteFile(path, output, 0o644)
}

func parseSource(raw string) catalog.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return catalog.SourceFromURL(path)
	}
	return catalog.SourceFromFile(path)
}
