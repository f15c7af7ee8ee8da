package model

import "time"

type TemplateType string

const (
	TemplateCRUD    TemplateType = "crud_application"
	TemplateAIAgent TemplateType = "ai_agent"
	TemplateSaaS    TemplateType = "saas_platform"
	TemplateCustom  TemplateType = "custom"
)

func (t TemplateType) Valid() bool {
	switch t {
	case TemplateCRUD, TemplateAIAgent, TemplateSaaS, TemplateCustom:
		return true
	}
	return false
}

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func (f Format) Valid() bool {
	return f == FormatMarkdown || f == FormatJSON
}

// PRD is a generated Product Requirements Document. UserID is set once at
// creation and never reassigned.
type PRD struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Title        string       `json:"title"`
	InputPrompt  string       `json:"input_prompt"`
	TemplateType TemplateType `json:"template_type"`
	Format       Format       `json:"format"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
