// Package llm contains the text-generation providers the PRD service
// proxies prompts to. All providers share the retry policy in
// generateWithRetry: up to three attempts with exponential backoff,
// retrying only on transport errors, 429 and 5xx responses.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Format instructions appended to every prompt by the prompt builder.
// StaticProvider keys off these to decide which document shape to emit.
const (
	MarkdownInstruction = "Return the PRD in markdown format with proper headings and formatting."
	JSONInstruction     = "Return the PRD as a valid JSON object with keys for each section."
)

const systemPrompt = "You are a professional product manager helping create detailed PRD documents."

type Provider interface {
	// GenerateText produces document content for prompt, honoring ctx
	// cancellation.
	GenerateText(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Options carries the knobs shared by the HTTP-backed providers.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func (o Options) withDefaults(model string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4000
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.7
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	return o
}

// statusError marks an upstream HTTP failure so the retry policy can
// distinguish transient statuses from client errors.
type statusError struct {
	provider string
	status   int
	body     string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.provider, e.status, e.body)
	}
	return fmt.Sprintf("%s returned status %d", e.provider, e.status)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	// Transport-level failures (connection reset, timeout) are worth
	// another attempt.
	return true
}

func generateWithRetry(ctx context.Context, name string, backoffBase time.Duration, call func(ctx context.Context) (string, error)) (string, error) {
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}

	var out string
	attempt := 0
	backoff := retry.WithMaxRetries(2, retry.NewExponential(backoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := call(ctx)
		if err != nil {
			if retryable(err) {
				slog.Warn("llm call failed", "provider", name, "attempt", attempt, "error", err.Error())
				return retry.RetryableError(err)
			}
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}

	return out, nil
}
