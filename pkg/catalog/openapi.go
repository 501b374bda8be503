package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// ImportOperation converts an OpenAPI operation's request schema into an
// intake template so authoring teams can publish templates straight from API
// documents. Flat properties map onto field definitions; nested objects and
// arrays have no intake equivalent and are skipped. Property order is not
// significant in OpenAPI documents, so fields are emitted in sorted name
// order for determinism.
func ImportOperation(ctx context.Context, data []byte, operationID string) (schema.Template, error) {
	if len(data) == 0 {
		return schema.Template{}, errors.New("catalog: openapi document is empty")
	}
	if operationID == "" {
		return schema.Template{}, errors.New("catalog: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.Template{}, fmt.Errorf("catalog: load openapi document: %w", err)
	}
	if spec.Paths == nil {
		return schema.Template{}, errors.New("catalog: openapi document has no paths")
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Template{}, fmt.Errorf("catalog: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.Template{}, fmt.Errorf("catalog: operation %q has no request schema", operationID)
	}

	tpl := schema.Template{
		ID:          operationID,
		Name:        operation.Summary,
		Description: operation.Description,
		Fields:      fieldsFromSchema(body),
	}
	if tpl.Name == "" {
		tpl.Name = operationID
	}

	tpl = schema.Sanitize(tpl)
	if err := tpl.Validate(); err != nil {
		return schema.Template{}, err
	}
	return tpl, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldsFromSchema(body *openapi3.Schema) []schema.FieldDefinition {
	requiredSet := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.FieldDefinition, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fieldType, options, ok := fieldKind(ref.Value)
		if !ok {
			continue
		}
		label := ref.Value.Title
		if label == "" {
			label = name
		}
		_, required := requiredSet[name]
		fields = append(fields, schema.FieldDefinition{
			ID:         name,
			Label:      label,
			HelperText: ref.Value.Description,
			Type:       fieldType,
			Required:   required,
			Options:    options,
		})
	}
	return fields
}

func fieldKind(property *openapi3.Schema) (schema.FieldType, []string, bool) {
	switch firstSchemaType(property.Type) {
	case "string":
		if len(property.Enum) > 0 {
			options := make([]string, 0, len(property.Enum))
			for _, value := range property.Enum {
				options = append(options, fmt.Sprint(value))
			}
			return schema.FieldTypeSelect, options, true
		}
		switch property.Format {
		case "date", "date-time":
			return schema.FieldTypeDate, nil, true
		case "textarea":
			return schema.FieldTypeTextArea, nil, true
		}
		return schema.FieldTypeText, nil, true
	case "number", "integer":
		return schema.FieldTypeNumber, nil, true
	default:
		return "", nil, false
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}
