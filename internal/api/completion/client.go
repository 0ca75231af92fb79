// Package completion abstracts the external text-generation backends the
// itinerary generator can talk to.
package completion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wanderwise/wanderwise-api/config"
)

// Client turns a prompt into raw completion text. Implementations do no
// parsing; the response normalizer owns that.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewClient builds the provider selected in config.
func NewClient(ctx context.Context, cfg config.CompletionConfig, logger *slog.Logger) (Client, error) {
	switch cfg.Provider {
	case "anthropic", "":
		return NewAnthropicClient(cfg, logger), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
