package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

type fakeInput struct {
	mu       sync.Mutex
	sink     domain.UtteranceSink
	starts   int
	stops    int
	startErr error
}

func (f *fakeInput) Start(_ context.Context, sink domain.UtteranceSink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.sink = sink
	return nil
}

func (f *fakeInput) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.sink = nil
	return nil
}

// hear delivers text the way a running recognizer would.
func (f *fakeInput) hear(text string) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink.OnUtterance(text)
	}
}

func (f *fakeInput) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

// gatedInput blocks in Start until released, to interleave other calls
// with an in-flight start.
type gatedInput struct {
	entered chan struct{}
	release chan struct{}

	mu      sync.Mutex
	running bool
}

func newGatedInput() *gatedInput {
	return &gatedInput{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedInput) Start(_ context.Context, _ domain.UtteranceSink) error {
	close(g.entered)
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = true
	return nil
}

func (g *gatedInput) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	return nil
}

func (g *gatedInput) isRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func TestVoiceInMenu(t *testing.T) {
	tests := []struct {
		utterance  string
		wantRecipe string
	}{
		{"please make salad now", "Vegetable Salad"},
		{"MAKE PIZZA", "Margherita Pizza"},
		{"  could you prepare eggs  ", "Omelette"},
		{"create vegetable salad", "Vegetable Salad"},
		{"i want to cook omelette", "Omelette"},
		{"prepare margherita", "Margherita Pizza"},
		{"make a cake", ""},
		{"add egg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			h := newHarness(t)
			acted := h.s.HandleUtterance(tt.utterance)

			snap := h.s.Snapshot()
			if tt.wantRecipe == "" {
				if acted || snap.Phase != domain.PhaseMenu {
					t.Fatalf("expected no action, got phase %s", snap.Phase)
				}
				if lines := h.speaker.Lines(); len(lines) != 0 {
					t.Fatalf("expected silence, got %v", lines)
				}
				return
			}

			if !acted || snap.Phase != domain.PhaseCooking || snap.Recipe.Name != tt.wantRecipe {
				t.Fatalf("expected cooking %s, got %s %+v", tt.wantRecipe, snap.Phase, snap.Recipe)
			}
			lines := h.speaker.Lines()
			if len(lines) != 2 || !strings.HasPrefix(lines[0], "Let's cook "+tt.wantRecipe) || lines[1] != "Starting "+tt.wantRecipe+" recipe" {
				t.Fatalf("unexpected lines %v", lines)
			}
		})
	}
}

func TestVoiceMenuFirstCatalogMatchWins(t *testing.T) {
	h := newHarness(t)
	h.s.HandleUtterance("make salad or make pizza")
	if got := h.s.Snapshot().Recipe.Name; got != "Vegetable Salad" {
		t.Fatalf("expected Vegetable Salad, got %s", got)
	}
}

func TestVoiceRestartTakesPriority(t *testing.T) {
	h := newHarness(t)
	h.s.StartRecipe(h.recipe(t, "Omelette"))
	h.s.AddIngredient(h.ingredient(t, "Egg"))
	tickN(h.s, 30)
	oldGen := h.s.currentGeneration()
	h.speaker.Reset()

	if !h.s.HandleUtterance("restart the omelette please, add cheese") {
		t.Fatal("expected restart to act")
	}

	snap := h.s.Snapshot()
	if snap.TimeRemaining != 180 {
		t.Fatalf("expected clock reset to 180, got %d", snap.TimeRemaining)
	}
	if len(snap.PlayerIngredients) != 0 {
		t.Fatalf("expected ingredients cleared, got %v", snap.PlayerIngredients)
	}
	if h.s.currentGeneration() == oldGen {
		t.Fatal("expected a new countdown generation")
	}
	lines := h.speaker.Lines()
	if len(lines) != 2 || lines[1] != "Restarting the recipe" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestVoiceStartOverThenCompleteOnce(t *testing.T) {
	h := newHarness(t)
	h.s.StartRecipe(h.recipe(t, "Vegetable Salad"))
	tickN(h.s, 100)

	h.s.HandleUtterance("let's start over")
	tickN(h.s, 119)
	if got := h.s.Snapshot().Phase; got != domain.PhaseCooking {
		t.Fatalf("expected cooking after restart, got %s", got)
	}
	tickN(h.s, 1)

	snap := h.s.Snapshot()
	if snap.Phase != domain.PhaseCompleted || snap.Score != 15 || snap.Level != 2 {
		t.Fatalf("expected one completion, got %+v", snap)
	}
}

func TestVoiceInCooking(t *testing.T) {
	tests := []struct {
		name      string
		recipe    string
		utterance string
		wantList  []string
		wantLine  string
	}{
		{"ingredient phrase", "Omelette", "add egg", []string{"Egg"}, "Added Egg"},
		{"bare name", "Omelette", "onion please", []string{"Onion"}, "Added Onion"},
		{"substring false positive", "Omelette", "i want a cheeseburger", []string{"Cheese"}, "Added Cheese"},
		{"rejected", "Vegetable Salad", "add cheese", nil, "Cheese is not needed for this recipe"},
		{"earlier catalog entry wins", "Margherita Pizza", "add tomato sauce", nil, "Tomato is not needed for this recipe"},
		{"help", "Omelette", "help me", nil, "You are cooking Omelette. Add the required ingredients before time runs out."},
		{"ingredient beats help", "Omelette", "help add egg", []string{"Egg"}, "Added Egg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.s.StartRecipe(h.recipe(t, tt.recipe))
			h.speaker.Reset()

			if !h.s.HandleUtterance(tt.utterance) {
				t.Fatalf("expected %q to act", tt.utterance)
			}
			got := h.s.Snapshot().PlayerIngredients
			if strings.Join(got, ",") != strings.Join(tt.wantList, ",") {
				t.Fatalf("expected ingredients %v, got %v", tt.wantList, got)
			}
			lines := h.speaker.Lines()
			if len(lines) != 1 || lines[0] != tt.wantLine {
				t.Fatalf("expected line %q, got %v", tt.wantLine, lines)
			}
		})
	}
}

func TestVoiceIgnoresUnknownAndCompleted(t *testing.T) {
	h := newHarness(t)
	h.s.StartRecipe(h.recipe(t, "Omelette"))
	h.speaker.Reset()

	if h.s.HandleUtterance("what time is it") {
		t.Fatal("unrelated utterance should be ignored")
	}
	if h.s.HandleUtterance("   ") {
		t.Fatal("blank utterance should be ignored")
	}
	if lines := h.speaker.Lines(); len(lines) != 0 {
		t.Fatalf("expected silence, got %v", lines)
	}

	tickN(h.s, 180)
	h.speaker.Reset()
	for _, u := range []string{"make salad", "restart", "add egg", "help"} {
		if h.s.HandleUtterance(u) {
			t.Fatalf("%q acted in completed phase", u)
		}
	}
	snap := h.s.Snapshot()
	if snap.Phase != domain.PhaseCompleted || len(snap.PlayerIngredients) != 0 {
		t.Fatalf("completed state changed: %+v", snap)
	}
	if lines := h.speaker.Lines(); len(lines) != 0 {
		t.Fatalf("expected silence, got %v", lines)
	}
}

func TestListeningWithoutInput(t *testing.T) {
	h := newHarness(t)

	h.s.StartListening()
	snap := h.s.Snapshot()
	if snap.Listening {
		t.Fatal("should not be listening without input")
	}
	if snap.VoiceError != "Speech recognition not available" {
		t.Fatalf("unexpected voice error %q", snap.VoiceError)
	}

	h.s.ToggleListening()
	h.s.StopListening()
	if h.s.Snapshot().Listening {
		t.Fatal("should not be listening without input")
	}
}

func TestListeningStartFailure(t *testing.T) {
	in := &fakeInput{startErr: errors.New("no microphone")}
	h := newHarness(t, WithSpeechInput(in))

	if got := h.s.Snapshot().VoiceError; got != "" {
		t.Fatalf("expected no voice error with input present, got %q", got)
	}

	h.s.StartRecipe(h.recipe(t, "Omelette"))
	h.s.StartListening()

	snap := h.s.Snapshot()
	if snap.Listening {
		t.Fatal("listening after failed start")
	}
	if snap.VoiceError != "Could not start speech recognition" {
		t.Fatalf("unexpected voice error %q", snap.VoiceError)
	}
	if snap.Phase != domain.PhaseCooking {
		t.Fatalf("start failure changed phase to %s", snap.Phase)
	}
}

func TestListeningStartTwiceIsNoop(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))
	h.s.StartRecipe(h.recipe(t, "Omelette"))

	h.s.StartListening()
	h.s.StartListening()

	if starts, _ := in.counts(); starts != 1 {
		t.Fatalf("expected 1 start, got %d", starts)
	}
	if !h.s.Snapshot().Listening {
		t.Fatal("expected listening")
	}

	in.hear("add egg")
	if got := h.s.Snapshot().PlayerIngredients; len(got) != 1 {
		t.Fatalf("expected a single delivery, got %v", got)
	}
}

func TestListeningClearsErrorOnSuccess(t *testing.T) {
	in := &fakeInput{startErr: errors.New("busy")}
	h := newHarness(t, WithSpeechInput(in))

	h.s.StartListening()
	if h.s.Snapshot().VoiceError == "" {
		t.Fatal("expected an error after failed start")
	}

	in.mu.Lock()
	in.startErr = nil
	in.mu.Unlock()

	h.s.StartListening()
	snap := h.s.Snapshot()
	if !snap.Listening || snap.VoiceError != "" {
		t.Fatalf("expected clean listening state, got listening=%v err=%q", snap.Listening, snap.VoiceError)
	}
}

func TestStopListeningLeavesGameAlone(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))
	h.s.StartRecipe(h.recipe(t, "Vegetable Salad"))
	tickN(h.s, 10)

	h.s.StartListening()
	h.s.StopListening()
	h.s.StopListening()

	if _, stops := in.counts(); stops != 1 {
		t.Fatalf("expected 1 stop, got %d", stops)
	}
	snap := h.s.Snapshot()
	if snap.Listening {
		t.Fatal("still listening")
	}
	if snap.Phase != domain.PhaseCooking || snap.TimeRemaining != 110 {
		t.Fatalf("stop changed the game: %s with %d", snap.Phase, snap.TimeRemaining)
	}
	if !h.s.currentCountdownRunning() {
		t.Fatal("stop halted the countdown")
	}
}

func TestToggleListening(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))

	h.s.ToggleListening()
	if !h.s.Snapshot().Listening {
		t.Fatal("expected listening after first toggle")
	}
	h.s.ToggleListening()
	if h.s.Snapshot().Listening {
		t.Fatal("expected stopped after second toggle")
	}
	starts, stops := in.counts()
	if starts != 1 || stops != 1 {
		t.Fatalf("expected 1 start and 1 stop, got %d/%d", starts, stops)
	}
}

func TestUtterancesDroppedWhenNotListening(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))

	h.s.OnUtterance("make salad")
	if got := h.s.Snapshot().Phase; got != domain.PhaseMenu {
		t.Fatalf("utterance acted while not listening, phase %s", got)
	}

	h.s.StartListening()
	in.hear("Make Salad")
	if got := h.s.Snapshot().Phase; got != domain.PhaseCooking {
		t.Fatalf("expected cooking after heard command, got %s", got)
	}
}

func TestSpeechInputRuntimeError(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))
	h.s.StartRecipe(h.recipe(t, "Omelette"))
	h.s.StartListening()

	h.s.OnError(errors.New("audio device lost"))

	snap := h.s.Snapshot()
	if snap.Listening {
		t.Fatal("still listening after error")
	}
	if snap.VoiceError != "Speech recognition error: audio device lost" {
		t.Fatalf("unexpected voice error %q", snap.VoiceError)
	}
	if snap.Phase != domain.PhaseCooking {
		t.Fatalf("error changed phase to %s", snap.Phase)
	}
	if _, stops := in.counts(); stops != 1 {
		t.Fatalf("expected input stopped once, got %d", stops)
	}
}

func TestCloseStopsListening(t *testing.T) {
	in := &fakeInput{}
	h := newHarness(t, WithSpeechInput(in))
	h.s.StartListening()

	h.s.Close()
	h.s.Close()

	if _, stops := in.counts(); stops != 1 {
		t.Fatalf("expected 1 stop, got %d", stops)
	}
	if h.s.Snapshot().Listening {
		t.Fatal("still listening after close")
	}
	if h.s.HandleUtterance("make salad") {
		t.Fatal("utterance acted after close")
	}
}

func TestFixedLines(t *testing.T) {
	h := newHarness(t)
	lines := FixedLines(h.cat)

	want := []string{
		"Restarting the recipe",
		"Let's cook Margherita Pizza. You have 300 seconds.",
		"Starting Omelette recipe",
		"Added Tomato Sauce",
		"Carrot is not needed for this recipe",
	}
	joined := strings.Join(lines, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("missing line %q", w)
		}
	}
}

func TestStopDuringStartLeavesInputStopped(t *testing.T) {
	tests := []struct {
		name string
		stop func(s *Session)
	}{
		{"stop listening", (*Session).StopListening},
		{"close", (*Session).Close},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newGatedInput()
			h := newHarness(t, WithSpeechInput(in))

			done := make(chan struct{})
			go func() {
				h.s.StartListening()
				close(done)
			}()

			<-in.entered
			tt.stop(h.s)
			close(in.release)
			<-done

			if h.s.Snapshot().Listening {
				t.Fatal("session reports listening")
			}
			if in.isRunning() {
				t.Fatal("speech input left running after stop")
			}
		})
	}
}
