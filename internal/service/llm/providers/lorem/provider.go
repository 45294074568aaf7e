package lorem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	llmSvc "parley/internal/domain/services/llm"
)

// Provider is a mock completion provider that generates lorem ipsum text.
// Used for development without requiring real API keys.
type Provider struct {
	mu        sync.Mutex // golorem generators are not safe for concurrent use
	generator *loremgen.Lorem
	delay     time.Duration
}

// NewProvider creates a new lorem ipsum provider.
// delay is the base latency; "fast" and "slow" models scale it.
func NewProvider(delay time.Duration) *Provider {
	return &Provider{
		generator: loremgen.New(),
		delay:     delay,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-medium", "lorem-slow"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete waits out the simulated latency and returns a few paragraphs.
func (p *Provider) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-time.After(delayFor(req.Model, p.delay)):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	text := p.generateText(paragraphsFor(req.Model))

	return &llmSvc.CompletionResponse{
		Content:      text,
		Model:        req.Model,
		InputTokens:  estimateTokens(req),
		OutputTokens: len(strings.Fields(text)), // word count as proxy
	}, nil
}

// delayFor scales the base delay by the model name.
// - lorem-fast: a quarter of the base
// - lorem-slow: three times the base
// - anything else: the base
func delayFor(model string, base time.Duration) time.Duration {
	if strings.Contains(model, "fast") {
		return base / 4
	}
	if strings.Contains(model, "slow") {
		return base * 3
	}
	return base
}

func paragraphsFor(model string) int {
	if strings.Contains(model, "short") {
		return 1
	}
	return 2
}

func (p *Provider) generateText(paragraphs int) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	parts := make([]string, 0, paragraphs)
	for i := 0; i < paragraphs; i++ {
		parts = append(parts, p.generator.Paragraph(2, 4))
	}
	return strings.Join(parts, "\n\n")
}

// estimateTokens uses word count as a rough approximation.
func estimateTokens(req *llmSvc.CompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(strings.Fields(msg.Content))
	}
	return total
}
