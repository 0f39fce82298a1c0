package gateway

import "fmt"

// New builds a Gateway for a provider kind. "openai" and "deepseek" share
// the OpenAI-compatible wire shape; "anthropic" uses the messages API.
func New(kind string, cfg ProviderConfig) (Gateway, error) {
	if cfg.Name == "" {
		cfg.Name = kind
	}
	switch kind {
	case "openai":
		return NewOpenAI(cfg), nil
	case "deepseek":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.deepseek.com/v1"
		}
		return NewOpenAI(cfg), nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", kind)
	}
}
