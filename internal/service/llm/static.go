package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// StaticProvider emits deterministic content without any network calls.
// It backs tests and offline development. The output shape follows the
// format instruction the prompt builder appended to the prompt.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, JSONInstruction) {
		return staticJSON()
	}
	return staticMarkdown(), nil
}

func staticJSON() (string, error) {
	doc := map[string]any{
		"overview": "Generated product requirements overview.",
		"sections": map[string]any{
			"problemStatement": "The problem this product addresses.",
			"userPersonas":     []string{"Power Users", "Administrators", "Regular Users"},
			"features": []map[string]string{
				{"name": "Core Feature 1", "description": "Description of feature"},
				{"name": "Core Feature 2", "description": "Description of feature"},
			},
			"technicalRequirements": map[string]string{
				"backend":  "Go HTTP service",
				"database": "PostgreSQL",
			},
			"timeline": "3 months development timeline",
		},
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func staticMarkdown() string {
	return `# Product Requirements Document

## Executive Summary

This PRD outlines the requirements for the proposed product.

## Problem Statement

This product provides a comprehensive solution to the described problem.

## User Personas

- **Power Users**: Advanced users who need full functionality
- **Administrators**: System administrators who manage the application
- **Regular Users**: Everyday users with basic needs

## Features and Requirements

1. **Feature 1**: Description and user stories
2. **Feature 2**: Description and user stories

## Testing Strategy

1. Unit tests for all components
2. Integration tests for API endpoints
3. End-to-end tests for critical user flows

## Implementation Timeline

The estimated timeline for development is 3 months.
`
}
