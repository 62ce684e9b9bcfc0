package enrich

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
)

// ErrDisabled is returned by NewClient when enrichment is turned off.
var ErrDisabled = errors.New("enrichment disabled")

// NewClient constructs the configured enrichment client.
//
// Provider selection:
//   - "gemini" or "ollama": use that provider, erroring if unusable.
//   - "auto" (default): gemini when an API key is configured, else ollama.
//   - "none": returns ErrDisabled; the pipeline runs on extracted metadata.
func NewClient(cfg *config.Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Enrich.Provider))
	if provider == "" || provider == "auto" {
		if cfg.Enrich.APIKey != "" {
			provider = "gemini"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "gemini":
		if cfg.Enrich.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY)")
		}
		model := cfg.Enrich.Model
		if model == "" {
			model = config.DefaultGeminiModel
		}
		return NewGeminiClient(cfg.Enrich.APIKey, model), nil
	case "ollama":
		baseURL, err := cfg.ValidatedOllamaURL()
		if err != nil {
			return nil, err
		}
		client := NewOllamaClient(baseURL, cfg.Enrich.Model)
		if client.Model() == "" {
			model, err := client.PickModel()
			if err != nil {
				return nil, fmt.Errorf("pick ollama model: %w", err)
			}
			if model == "" {
				return nil, fmt.Errorf("no ollama chat models available")
			}
			client.SetModel(model)
		}
		return client, nil
	case "none":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown enrich provider: %q", provider)
	}
}
