// Package nlp provides the named-entity recognizers behind fusion.Recognizer.
package nlp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aoidb/aoi/domain/fusion"
)

// ErrUnknownBackend is returned for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown recognizer backend")

// Backend names a recognizer implementation.
type Backend string

// Backends.
const (
	BackendHugot   Backend = "hugot"
	BackendProse   Backend = "prose"
	BackendPattern Backend = "pattern"
	BackendOpenAI  Backend = "openai"
)

// Config selects and configures a recognizer.
type Config struct {
	Backend  Backend
	ModelDir string
	OpenAI   OpenAIConfig
}

// New loads the configured recognizer. Loading failures are returned rather
// than degraded to identifier-only extraction.
func New(cfg Config) (fusion.Recognizer, error) {
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case BackendHugot:
		return NewHugotRecognizer(cfg.ModelDir)
	case BackendProse:
		return NewProseRecognizer(), nil
	case BackendPattern:
		return NewPatternRecognizer(), nil
	case BackendOpenAI:
		return NewOpenAIRecognizer(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
