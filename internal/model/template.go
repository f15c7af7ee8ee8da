package model

import "time"

// PromptTemplate is a stored prompt skeleton. Body carries {{title}} and
// {{input_prompt}} placeholders filled at generation time.
type PromptTemplate struct {
	ID           string       `json:"id"`
	TemplateType TemplateType `json:"template_type"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Body         string       `json:"body"`
	ModelHint    string       `json:"model_hint,omitempty"`
	IsDefault    bool         `json:"is_default"`
	Enabled      bool         `json:"enabled"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
