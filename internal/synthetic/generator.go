// Package synthetic generates synthetic consultation responses: the corpus a
// comparison run measures theme agreement over. Generation runs in batches
// against a Gemini model; tests and offline runs use the deterministic
// template generator instead.
package synthetic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
	"github.com/ThomasJButler/iAI-Assessment/internal/timeutil"
)

// ConsultationQuestion is the prompt the corpus answers.
const ConsultationQuestion = "What changes would you like to see in the education system in your area over the next five years?"

// Batch/retry parameters for the Gemini-backed generator.
const (
	DefaultBatchSize  = 25
	DefaultModel      = "gemini-2.0-flash"
	maxRetries        = 3
	initialRetryDelay = 1 * time.Second
	maxRetryDelay     = 10 * time.Second
)

// completer issues one prompt to the backing model and returns its raw text
// output. The genai client satisfies it in production; tests substitute a
// stub to exercise retry behaviour.
type completer func(ctx context.Context, prompt string) (string, error)

// Generator produces synthetic responses from a Gemini model.
type Generator struct {
	complete  completer
	batchSize int
	clock     timeutil.Clock
}

// NewGenerator creates a Gemini-backed generator. The API key is required;
// model and batchSize fall back to defaults when zero-valued.
func NewGenerator(ctx context.Context, apiKey, model string, batchSize int) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	complete := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return newGenerator(complete, batchSize, timeutil.RealClock{}), nil
}

// newGenerator wires an explicit backend and clock; package tests use it to
// drive the retry path without a network or real sleeps.
func newGenerator(complete completer, batchSize int, clock timeutil.Clock) *Generator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Generator{
		complete:  complete,
		batchSize: batchSize,
		clock:     clock,
	}
}

// Generate produces count responses, batching requests and retrying each
// batch with exponential backoff. Perspectives and topical focuses rotate
// across batches so the corpus covers a spread of viewpoints.
func (g *Generator) Generate(ctx context.Context, count int) ([]string, error) {
	perspectives := []string{"parent", "teacher", "student", "school governor", "local resident"}
	focuses := []string{"curriculum", "technology", "funding", "teacher support", "special educational needs"}

	responses := make([]string, 0, count)
	for batch := 0; len(responses) < count; batch++ {
		size := g.batchSize
		if remaining := count - len(responses); remaining < size {
			size = remaining
		}

		prompt := buildPrompt(size, perspectives[batch%len(perspectives)], focuses[batch%len(focuses)])
		batchResponses, err := g.generateBatch(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", batch, err)
		}
		if len(batchResponses) > size {
			batchResponses = batchResponses[:size]
		}
		responses = append(responses, batchResponses...)
		monitoring.Logf("generated batch %d: %d responses (%d/%d total)",
			batch, len(batchResponses), len(responses), count)
	}
	return responses, nil
}

// generateBatch issues one model call with retry and backoff.
func (g *Generator) generateBatch(ctx context.Context, prompt string) ([]string, error) {
	delay := initialRetryDelay
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			monitoring.Logf("retrying generation (attempt %d/%d) after %v: %v",
				attempt+1, maxRetries, delay, lastErr)
			g.clock.Sleep(delay)
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}

		text, err := g.complete(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		responses, err := parseResponses(text)
		if err != nil {
			lastErr = err
			continue
		}
		return responses, nil
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", maxRetries, lastErr)
}

func buildPrompt(count int, perspective, focus string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d diverse, realistic responses to the following consultation question:\n\n", count)
	fmt.Fprintf(&b, "%q\n\n", ConsultationQuestion)
	fmt.Fprintf(&b, "Generate responses from the perspective of %ss. ", perspective)
	fmt.Fprintf(&b, "Focus responses on aspects related to %s. ", focus)
	b.WriteString("Ensure responses are diverse, realistic, and reflect a range of opinions. ")
	b.WriteString("Make each response unique. ")
	b.WriteString("Format the output as a JSON array of strings, with each string being a separate response.")
	return b.String()
}

// parseResponses extracts the JSON string array from model output, tolerating
// surrounding prose or a markdown code fence.
func parseResponses(text string) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("model output contains no JSON array")
	}

	var responses []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &responses); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("model returned an empty response array")
	}
	return responses, nil
}
