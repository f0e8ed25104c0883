package ocr

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Provider identifiers accepted by the gateway.
const (
	ProviderLocalEngine = "local-engine"
	ProviderCloudVision = "cloud-vision"
	ProviderGemini      = "gemini"
)

var (
	// ErrProviderUnavailable means the requested provider is not
	// configured. No implicit fallback happens; providers have different
	// cost and accuracy tradeoffs the caller may be relying on.
	ErrProviderUnavailable = errors.New("ocr provider unavailable")

	// ErrRecognitionFailed means the engine ran but could not process the
	// image.
	ErrRecognitionFailed = errors.New("text recognition failed")
)

// Engine converts image bytes to raw text. Implementations are black boxes
// to the rest of the system.
type Engine interface {
	// RecognizeText performs OCR on image data (JPEG, PNG, PDF, HEIC).
	RecognizeText(ctx context.Context, image []byte) (string, error)
	// Close releases engine resources.
	Close() error
}

// Gateway routes recognition requests to a registered engine by provider
// id, applying the configured default when none is requested.
type Gateway struct {
	engines         map[string]Engine
	defaultProvider string
}

// NewGateway creates a Gateway whose default provider is used whenever a
// caller does not pick one explicitly.
func NewGateway(defaultProvider string) *Gateway {
	return &Gateway{
		engines:         make(map[string]Engine),
		defaultProvider: defaultProvider,
	}
}

// Register adds an engine under a provider id, replacing any previous one.
func (g *Gateway) Register(provider string, engine Engine) {
	g.engines[provider] = engine
}

// RecognizeText runs OCR with the selected provider. It returns the raw
// text, the provider actually used, and an error from the failure taxonomy
// (ErrProviderUnavailable, ErrRecognitionFailed).
func (g *Gateway) RecognizeText(ctx context.Context, image []byte, provider string) (string, string, error) {
	if provider == "" {
		provider = g.defaultProvider
	}
	engine, ok := g.engines[provider]
	if !ok {
		return "", provider, fmt.Errorf("%w: %q not configured", ErrProviderUnavailable, provider)
	}
	text, err := engine.RecognizeText(ctx, image)
	if err != nil {
		return "", provider, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	return text, provider, nil
}

// ProviderInfo describes the gateway configuration for API consumers.
type ProviderInfo struct {
	CurrentProvider string   `json:"current_provider"`
	IsPaid          bool     `json:"is_paid"`
	Description     string   `json:"description"`
	Available       []string `json:"available_providers"`
}

// Info reports the default provider and everything registered.
func (g *Gateway) Info() ProviderInfo {
	available := make([]string, 0, len(g.engines))
	for provider := range g.engines {
		available = append(available, provider)
	}
	sort.Strings(available)

	return ProviderInfo{
		CurrentProvider: g.defaultProvider,
		IsPaid:          g.defaultProvider != ProviderLocalEngine,
		Description:     describeProvider(g.defaultProvider),
		Available:       available,
	}
}

func describeProvider(provider string) string {
	switch provider {
	case ProviderLocalEngine:
		return "Tesseract OCR (free, local processing)"
	case ProviderCloudVision:
		return "Google Vision API (paid, more accurate)"
	case ProviderGemini:
		return "Gemini vision transcription (paid)"
	default:
		return provider
	}
}

// Close closes every registered engine, keeping the first error.
func (g *Gateway) Close() error {
	var firstErr error
	for _, engine := range g.engines {
		if err := engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
