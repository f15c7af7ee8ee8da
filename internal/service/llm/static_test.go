package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticProviderMarkdown(t *testing.T) {
	p := NewStaticProvider()

	out, err := p.GenerateText(context.Background(), "some prompt\n\n"+MarkdownInstruction)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# Product Requirements Document"))
	require.False(t, json.Valid([]byte(out)))
}

func TestStaticProviderJSON(t *testing.T) {
	p := NewStaticProvider()

	out, err := p.GenerateText(context.Background(), "some prompt\n\n"+JSONInstruction)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(out)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Contains(t, doc, "overview")
	require.Contains(t, doc, "sections")
}

func TestStaticProviderDefaultsToMarkdown(t *testing.T) {
	p := NewStaticProvider()

	out, err := p.GenerateText(context.Background(), "prompt with no format instruction")
	require.NoError(t, err)
	require.Contains(t, out, "## Executive Summary")
}
