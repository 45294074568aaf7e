// Package persona loads the assistant's fixed instructions: system prompt,
// opening greeting, and the keyword rules that short-circuit off-topic requests.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"parley/internal/domain/models/chat"
)

//go:embed default.yaml
var defaultPersona []byte

// Persona is the assistant configuration every conversation is seeded from.
type Persona struct {
	Name         string `yaml:"name"`
	SystemPrompt string `yaml:"system_prompt"`
	Greeting     string `yaml:"greeting"`
	Refusal      string `yaml:"refusal"`
	OutOfScope   []Rule `yaml:"out_of_scope"`
}

// Rule matches when every keyword appears in the lowercased input.
type Rule struct {
	Keywords []string `yaml:"keywords"`
}

// Default returns the embedded persona.
func Default() (*Persona, error) {
	return Parse(defaultPersona)
}

// Load reads a persona from path, or the embedded default when path is empty.
func Load(path string) (*Persona, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("persona %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a persona document.
func Parse(data []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal persona: %w", err)
	}

	p.SystemPrompt = strings.TrimSpace(p.SystemPrompt)
	if p.SystemPrompt == "" {
		return nil, fmt.Errorf("system_prompt is required")
	}
	if len(p.OutOfScope) > 0 && strings.TrimSpace(p.Refusal) == "" {
		return nil, fmt.Errorf("refusal is required when out_of_scope rules are set")
	}

	for i := range p.OutOfScope {
		rule := &p.OutOfScope[i]
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("out_of_scope rule %d has no keywords", i)
		}
		for j, kw := range rule.Keywords {
			rule.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	return &p, nil
}

// SeedMessages returns the messages every new conversation starts with.
// The greeting is omitted when empty.
func (p *Persona) SeedMessages() []chat.Message {
	msgs := []chat.Message{{Role: chat.RoleSystem, Content: p.SystemPrompt}}
	if p.Greeting != "" {
		msgs = append(msgs, chat.Message{Role: chat.RoleAssistant, Content: p.Greeting})
	}
	return msgs
}

// IsOutOfScope reports whether text matches any out-of-scope rule.
func (p *Persona) IsOutOfScope(text string) bool {
	lower := strings.ToLower(text)
	for _, rule := range p.OutOfScope {
		if rule.matches(lower) {
			return true
		}
	}
	return false
}

func (r Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
