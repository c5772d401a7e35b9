package speech

import (
	"context"
	"testing"
)

type recordingOutput struct{ said []string }

func (r *recordingOutput) Speak(_ context.Context, text string) error {
	r.said = append(r.said, text)
	return nil
}

func TestConsolePrintsAndForwards(t *testing.T) {
	var printed []string
	next := &recordingOutput{}
	c := NewConsole(func(s string) { printed = append(printed, s) }, next)

	if err := c.Speak(context.Background(), "Added Egg"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if len(printed) != 1 || printed[0] != "Added Egg" {
		t.Fatalf("unexpected printed %q", printed)
	}
	if len(next.said) != 1 || next.said[0] != "Added Egg" {
		t.Fatalf("unexpected forwarded %q", next.said)
	}

	solo := NewConsole(func(s string) { printed = append(printed, s) }, nil)
	if err := solo.Speak(context.Background(), "Restarting the recipe"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if len(printed) != 2 {
		t.Fatalf("expected 2 printed lines, got %d", len(printed))
	}
}
