package intake

import (
	"github.com/goliatone/go-intake/pkg/schema"
)

// CanonicalAttributes is the raw-text view of the three business-critical
// fields every project must carry. Budget stays a string until submission so
// the exact user input can be redisplayed on validation failure.
type CanonicalAttributes struct {
	Title       string
	Description string
	Budget      string
}

// TemplateData preserves the template's shape and the complete answer set so
// the submission can be replayed faithfully at display time. Answers holds
// the supplementary answers plus the three reserved identifiers re-expressed
// as raw answers.
type TemplateData struct {
	TemplateName        string                   `json:"templateName"`
	TemplateDescription string                   `json:"templateDescription,omitempty"`
	Schema              []schema.FieldDefinition `json:"structure"`
	Answers             map[string]string        `json:"answers"`
}

// Submission is the normalized payload handed to the project-creation
// collaborator. TemplateData is nil on the free-form path.
type Submission struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       float64       `json:"budget"`
	TemplateData *TemplateData `json:"templateData,omitempty"`
}

// assembleSubmission builds the payload from validated session state. Budget
// coercion happens exactly here, not earlier.
func assembleSubmission(canonical CanonicalAttributes, tpl *schema.Template, answers map[string]AnswerValue) (Submission, error) {
	budget, err := NumberAnswer(canonical.Budget).Float()
	if err != nil {
		return Submission{}, err
	}

	out := Submission{
		Title:       canonical.Title,
		Description: canonical.Description,
		Budget:      budget,
	}
	if tpl == nil {
		return out, nil
	}

	replay := make(map[string]string, len(answers)+3)
	for id, answer := range answers {
		replay[id] = answer.Raw()
	}
	replay[IDTitle] = canonical.Title
	replay[IDDescription] = canonical.Description
	replay[IDBudget] = canonical.Budget

	clone := tpl.Clone()
	out.TemplateData = &TemplateData{
		TemplateName:        clone.Name,
		TemplateDescription: clone.Description,
		Schema:              clone.Fields,
		Answers:             replay,
	}
	return out, nil
}
