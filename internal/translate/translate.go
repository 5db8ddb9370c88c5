// Package translate provides text translation backed by pluggable providers:
// the free Google web endpoint, the DeepL API, and OpenAI-compatible chat
// models. All providers share the Service interface so callers pick one at
// run time.
package translate

import (
	"context"
	"strings"

	"github.com/MuazAshraf/ppt-translator/internal/logger"
)

// Provider names accepted by New.
const (
	ProviderGoogle = "google"
	ProviderDeepL  = "deepl"
	ProviderOpenAI = "openai"
)

// Service translates a single piece of text into the target language.
// Implementations must leave blank text untouched without a network call.
type Service interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
	// Name returns the provider name for logging.
	Name() string
}

// Options configures New.
type Options struct {
	// APIKey authenticates against deepl or openai. Ignored by google.
	APIKey string
	// BaseURL overrides the OpenAI-compatible endpoint. Optional.
	BaseURL string
	// Model is the chat model used by the openai provider. Optional.
	Model string
}

// New returns the Service for the named provider. An unknown provider name
// falls back to google with a warning rather than failing the whole run.
func New(ctx context.Context, provider string, opts Options) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGoogle, "":
		return NewGoogle(), nil
	case ProviderDeepL:
		return NewDeepL(opts.APIKey), nil
	case ProviderOpenAI:
		return NewOpenAI(ctx, opts.APIKey, opts.BaseURL, opts.Model)
	default:
		logger.Warn("unknown translation provider, falling back to google",
			logger.String("provider", provider))
		return NewGoogle(), nil
	}
}

// isBlank reports whether text contains no translatable content.
func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
