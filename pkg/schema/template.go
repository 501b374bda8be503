package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Template is a named, ordered collection of field definitions authored by an
// external publishing workflow. Templates are immutable once constructed; the
// engine never mutates one.
type Template struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields"`
}

// Clone deep-copies the template including its field definitions.
func (t Template) Clone() Template {
	out := t
	if len(t.Fields) > 0 {
		out.Fields = make([]FieldDefinition, len(t.Fields))
		for i, field := range t.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Field looks up a definition by its binding identifier.
func (t Template) Field(id string) (FieldDefinition, bool) {
	for _, field := range t.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Validate enforces the structural rules templates must satisfy before the
// engine will bind against them: non-empty unique identifiers, known field
// types, and options present exactly when the type is select.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("schema: template name is required")
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for i, field := range t.Fields {
		id := strings.TrimSpace(field.ID)
		if id == "" {
			return fmt.Errorf("schema: template %q: field %d has no id", t.Name, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("schema: template %q: duplicate field id %q", t.Name, id)
		}
		seen[id] = struct{}{}
		if !field.Type.Valid() {
			return fmt.Errorf("schema: template %q: field %q has unknown type %q", t.Name, id, field.Type)
		}
		if field.Type == FieldTypeSelect && len(field.Options) == 0 {
			return fmt.Errorf("schema: template %q: select field %q has no options", t.Name, id)
		}
		if field.Type != FieldTypeSelect && len(field.Options) > 0 {
			return fmt.Errorf("schema: template %q: field %q declares options but is not a select", t.Name, id)
		}
	}
	return nil
}

// Catalog holds the ordered set of published templates available to an intake
// session. Lookup is by template ID.
type Catalog struct {
	templates []Template
}

// NewCatalog copies the provided templates into an immutable catalog. Each
// template must pass Validate.
func NewCatalog(templates ...Template) (Catalog, error) {
	out := make([]Template, 0, len(templates))
	seen := make(map[string]struct{}, len(templates))
	for _, tpl := range templates {
		if err := tpl.Validate(); err != nil {
			return Catalog{}, err
		}
		if tpl.ID != "" {
			if _, dup := seen[tpl.ID]; dup {
				return Catalog{}, fmt.Errorf("schema: duplicate template id %q", tpl.ID)
			}
			seen[tpl.ID] = struct{}{}
		}
		out = append(out, tpl.Clone())
	}
	return Catalog{templates: out}, nil
}

// MustNewCatalog panics on invalid templates. Useful for tests.
func MustNewCatalog(templates ...Template) Catalog {
	catalog, err := NewCatalog(templates...)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Templates returns the published templates in catalog order.
func (c Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, tpl := range c.templates {
		out[i] = tpl.Clone()
	}
	return out
}

// Template looks up a template by ID.
func (c Catalog) Template(id string) (Template, bool) {
	for _, tpl := range c.templates {
		if tpl.ID == id {
			return tpl.Clone(), true
		}
	}
	return Template{}, false
}

// Len reports how many templates the catalog holds.
func (c Catalog) Len() int {
	return len(c.templates)
}
