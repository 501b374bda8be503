package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS supplies the fs.FS that backs SourceKindFS sources.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithHTTPClient opts into URL sources using the provided client. When
// omitted, URL sources are rejected.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.http = client
	}
}

// WithRequestTimeout bounds catalog fetches over HTTP.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// Loader reads a catalog document from a Source and materializes the
// published templates. Documents are YAML (JSON being a subset); every
// template is validated and its presentation strings sanitized before the
// catalog is handed out.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// NewLoader constructs a Loader applying the provided options.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// document mirrors the on-disk catalog layout.
type document struct {
	Templates []schema.Template `yaml:"templates"`
}

// Load fetches and parses the catalog document behind the source.
func (l *Loader) Load(ctx context.Context, src Source) (schema.Catalog, error) {
	if src == nil {
		return schema.Catalog{}, errors.New("catalog: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Catalog{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return schema.Catalog{}, errors.New("catalog: fs source requires WithFS")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("catalog: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("catalog: read %s: %w", src.Location(), err)
	}

	return Parse(data)
}

// Parse decodes a catalog document and builds a validated, sanitized catalog.
func Parse(data []byte) (schema.Catalog, error) {
	if len(data) == 0 {
		return schema.Catalog{}, errors.New("catalog: document is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schema.Catalog{}, fmt.Errorf("catalog: decode document: %w", err)
	}

	templates := make([]schema.Template, 0, len(doc.Templates))
	for _, tpl := range doc.Templates {
		templates = append(templates, schema.Sanitize(tpl))
	}
	catalog, err := schema.NewCatalog(templates...)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	return catalog, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("catalog: http support disabled")
	}

	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
