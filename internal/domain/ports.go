package domain

import "context"

// Catalog provides the static recipe and ingredient definitions. Both
// lists are returned in catalog order, which decides voice match priority.
type Catalog interface {
	Recipes() []Recipe
	Ingredients() []Ingredient
	Recipe(name string) (*Recipe, error)
	Ingredient(name string) (*Ingredient, error)
}

// UtteranceSink receives what a SpeechInput hears. Calls are serial.
type UtteranceSink interface {
	OnUtterance(text string)
	OnError(err error)
}

// SpeechInput is an optional speech-to-text capability. Start begins
// delivering utterances to sink until Stop is called or ctx is cancelled.
// Stop must be safe to call when already stopped.
type SpeechInput interface {
	Start(ctx context.Context, sink UtteranceSink) error
	Stop() error
}

// SpeechOutput vocalizes text. Implementations must not block on playback;
// errors are best-effort and never affect game state.
type SpeechOutput interface {
	Speak(ctx context.Context, text string) error
}

// ChallengePicker selects the challenges for a new session.
type ChallengePicker interface {
	Pick() []Challenge
}

// ResultStore keeps completed-session results in memory.
type ResultStore interface {
	Record(ctx context.Context, result Result) error
	List(ctx context.Context) ([]Result, error)
}

// IntentParser turns a typed line into an Intent.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
