package speech

import (
	"context"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

// Compile-time interface check.
var _ domain.SpeechOutput = (*Console)(nil)

// Console shows every spoken line through print and then hands it to next,
// if set. With a Mouth as next, lines are both shown and heard.
type Console struct {
	print func(string)
	next  domain.SpeechOutput
}

// NewConsole creates a console speaker. next may be nil.
func NewConsole(print func(string), next domain.SpeechOutput) *Console {
	return &Console{print: print, next: next}
}

// Speak prints text and forwards it.
func (c *Console) Speak(ctx context.Context, text string) error {
	c.print(text)
	if c.next == nil {
		return nil
	}
	return c.next.Speak(ctx, text)
}
