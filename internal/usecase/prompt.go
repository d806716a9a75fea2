package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"edubot/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// noContextPlaceholder is sent to the model when no rows cleared the
// relevance threshold on the dense path.
const noContextPlaceholder = "No relevant data found"

type promptData struct {
	Context  string
	Question string
}

// PromptComposer renders the fixed prompt templates used for answering.
type PromptComposer struct {
	denseSystem string
	denseUser   *template.Template
	lexical     *template.Template
}

// NewPromptComposer parses the embedded prompt templates.
func NewPromptComposer() (*PromptComposer, error) {
	system, err := promptTemplates.ReadFile("templates/dense_system.txt")
	if err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}

	denseUser, err := parsePromptTemplate("templates/dense_user.txt")
	if err != nil {
		return nil, err
	}

	lexical, err := parsePromptTemplate("templates/lexical_prompt.txt")
	if err != nil {
		return nil, err
	}

	return &PromptComposer{
		denseSystem: string(system),
		denseUser:   denseUser,
		lexical:     lexical,
	}, nil
}

func parsePromptTemplate(name string) (*template.Template, error) {
	content, err := promptTemplates.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// DenseSystem returns the system prompt for the dense answering path.
func (p *PromptComposer) DenseSystem() string {
	return p.denseSystem
}

// DenseUser renders the user prompt for the dense answering path.
// The context lines carry the colon-separated row text.
func (p *PromptComposer) DenseUser(question string, rows []domain.ScoredRow) (string, error) {
	context := joinRowText(rows)
	if context == "" {
		context = noContextPlaceholder
	}
	return render(p.denseUser, promptData{Context: context, Question: question})
}

// Lexical renders the single-message prompt for the lexical answering
// path. The context lines carry the prose row text the ranker scored.
func (p *PromptComposer) Lexical(question string, rows []domain.ScoredRow) (string, error) {
	return render(p.lexical, promptData{Context: joinRowProse(rows), Question: question})
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func joinRowText(rows []domain.ScoredRow) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Row.Text)
	}
	return strings.Join(lines, "\n")
}

func joinRowProse(rows []domain.ScoredRow) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Row.Prose)
	}
	return strings.Join(lines, "\n")
}
