package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "openrouter with full path",
			modelStr:     "openrouter/deepseek/deepseek-chat-v3-0324:free",
			wantProvider: "openrouter",
			wantModel:    "deepseek/deepseek-chat-v3-0324:free",
		},
		{
			name:         "bare vendor slug routes to openrouter",
			modelStr:     "meta-llama/llama-3.1-8b-instruct",
			wantProvider: "openrouter",
			wantModel:    "meta-llama/llama-3.1-8b-instruct",
		},
		{
			name:         "anthropic explicit",
			modelStr:     "anthropic/claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
		},
		{
			name:         "claude inferred",
			modelStr:     "claude-sonnet-4-5-20250929",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5-20250929",
		},
		{
			name:         "lorem-fast model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:         "surrounding whitespace",
			modelStr:     "  lorem-slow ",
			wantProvider: "lorem",
			wantModel:    "lorem-slow",
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown bare model",
			modelStr: "gpt-4",
			wantErr:  true,
		},
		{
			name:     "empty provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
		{
			name:     "empty model",
			modelStr: "openrouter/",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseModel() unexpected error: %v", err)
			}

			if got.Provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", got.Provider, tt.wantProvider)
			}

			if got.Model != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}
