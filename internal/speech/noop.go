// Package speech provides the speech input and output used by the game:
// Whisper transcription, Azure synthesis, audio playback and console output.
package speech

import (
	"context"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechOutput = (*NoOp)(nil)

// NoOp is a speech output that says nothing.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent speech output.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak logs text at debug level and returns.
func (n *NoOp) Speak(ctx context.Context, text string) error {
	n.log.Debug("speech no-op: would say %q", text)
	return nil
}
