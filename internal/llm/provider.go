package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/syllascan/syllascan/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Repair cleans a heuristically extracted item list against the raw
	// document text
	Repair(ctx context.Context, req RepairRequest) (*RepairResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// RepairRequest contains the input for LLM repair
type RepairRequest struct {
	// Items are the heuristic seed items. Callers fall back to these
	// unchanged when repair fails.
	Items []model.Assignment

	// Excerpt is the raw document text the items were extracted from
	Excerpt string

	// CourseTitle and YearHint give the model resolution context
	CourseTitle string
	YearHint    int

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// RepairResponse contains the repaired item list
type RepairResponse struct {
	Items []model.Assignment

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 2000,
	}
}

const repairSystemPrompt = "You are a strict JSON generator. " +
	"Given the raw text of a syllabus, output ONLY JSON:\n" +
	`{ "items": [ {"title": str, "due_date_raw": str, "due_date_iso": str} ... ] }` + "\n" +
	`If you cannot find anything, output {"items": []}.`

// BuildPrompt constructs the default repair prompt: the raw text, the
// heuristic seed items as JSON, and the output rules.
func BuildPrompt(req RepairRequest) string {
	seeds := req.Items
	if seeds == nil {
		seeds = []model.Assignment{}
	}
	seedJSON, err := json.Marshal(seeds)
	if err != nil {
		seedJSON = []byte("[]")
	}

	prompt := fmt.Sprintf("RAW_TEXT:\n%s\n\nSEED_ITEMS:\n%s\n\n", req.Excerpt, seedJSON)
	if req.CourseTitle != "" {
		prompt += fmt.Sprintf("COURSE: %s\n", req.CourseTitle)
	}
	if req.YearHint != 0 {
		prompt += fmt.Sprintf("YEAR_HINT: %d (use this year for dates with no explicit year)\n", req.YearHint)
	}
	prompt += "Rules:\n" +
		"- Keep titles concise.\n" +
		"- If you know a clean calendar date (YYYY-MM-DD), set 'due_date_iso', else empty string.\n" +
		"- If multiple similar items exist, deduplicate.\n" +
		"Output ONLY valid JSON."

	return prompt
}
