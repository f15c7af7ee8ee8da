package service

import (
	"context"
	"errors"
	"strings"

	"prd-generator/internal/model"
	"prd-generator/internal/service/llm"
)

// TemplateStore looks up enabled prompt templates by template type.
type TemplateStore interface {
	FindByType(ctx context.Context, templateType model.TemplateType) (model.PromptTemplate, error)
}

// PromptBuilder turns a generation request into the full prompt sent to the
// LLM provider: stored template body, placeholder substitution, then a
// format instruction.
type PromptBuilder struct {
	templates TemplateStore
}

func NewPromptBuilder(templates TemplateStore) *PromptBuilder {
	return &PromptBuilder{templates: templates}
}

func (b *PromptBuilder) Build(ctx context.Context, req model.GeneratePRDRequest) (string, error) {
	template, err := b.templates.FindByType(ctx, req.TemplateType)
	if errors.Is(err, model.ErrTemplateNotFound) && req.TemplateType != model.TemplateCustom {
		// Disabled or missing template types degrade to the custom one.
		template, err = b.templates.FindByType(ctx, model.TemplateCustom)
	}
	if err != nil {
		return "", err
	}

	prompt := template.Body
	prompt = strings.ReplaceAll(prompt, "{{title}}", req.Title)
	prompt = strings.ReplaceAll(prompt, "{{input_prompt}}", req.InputPrompt)

	instruction := llm.MarkdownInstruction
	if req.Format == model.FormatJSON {
		instruction = llm.JSONInstruction
	}

	return prompt + "\n\n" + instruction, nil
}
