package schema

// FieldType is the closed set of input kinds a template author can request.
// It drives both rendering and value coercion downstream.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
)

// Valid reports whether the field type is one of the supported kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextArea, FieldTypeSelect, FieldTypeDate, FieldTypeNumber:
		return true
	}
	return false
}

// FieldDefinition describes one question inside a template. ID is the stable
// binding key; everything else is presentation metadata the engine treats as
// opaque. Options are only meaningful when Type is FieldTypeSelect.
type FieldDefinition struct {
	ID         string    `json:"id" yaml:"id"`
	Label      string    `json:"label" yaml:"label"`
	HelperText string    `json:"helperText,omitempty" yaml:"helperText,omitempty"`
	Type       FieldType `json:"type" yaml:"type"`
	Required   bool      `json:"required" yaml:"required"`
	Options    []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Clone returns a deep copy so callers can hold definitions without sharing
// the options slice.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// HasOption reports whether value is one of the declared select options.
func (f FieldDefinition) HasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}
