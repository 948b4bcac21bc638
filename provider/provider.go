package provider

import (
	"context"
	"iter"

	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/personality"
)

// Provider is implemented by each LLM vendor adapter.
type Provider interface {
	Name() personality.Name
	MapConfig(personality.Config) GenerationParams
	Send(ctx context.Context, msgs []messages.Message, params GenerationParams, apiKey string) iter.Seq2[string, error]
}

// GenerationParams is the vendor neutral parameter set an adapter sends with a request.
type GenerationParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool

	// Sensitivity is only populated by adapters that support safety thresholds.
	Sensitivity map[personality.HarmCategory]personality.SensitivityLevel
}

// BaseParams copies the vendor neutral part of cfg.
func BaseParams(cfg personality.Config) GenerationParams {
	return GenerationParams{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      cfg.Stream,
	}
}
