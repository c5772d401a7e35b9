// Package game implements the cooking session state machine: recipe
// selection, ingredient matching, the countdown, scoring and voice command
// dispatch.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/hammamikhairi/chefchallenge/internal/challenge"
	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
	"github.com/hammamikhairi/chefchallenge/internal/timer"
)

var _ domain.UtteranceSink = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithTickInterval sets the countdown interval. One tick is one second of
// game time regardless of the interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithPicker sets the challenge picker.
func WithPicker(p domain.ChallengePicker) Option {
	return func(s *Session) {
		s.picker = p
	}
}

// WithResults sets where completed sessions are recorded.
func WithResults(r domain.ResultStore) Option {
	return func(s *Session) {
		s.results = r
	}
}

// WithSpeechInput enables voice commands.
func WithSpeechInput(in domain.SpeechInput) Option {
	return func(s *Session) {
		s.input = in
	}
}

// WithSpeechOutput sets where spoken feedback goes.
func WithSpeechOutput(out domain.SpeechOutput) Option {
	return func(s *Session) {
		s.output = out
	}
}

// WithProgress carries in an existing score and level.
func WithProgress(p *domain.Progress) Option {
	return func(s *Session) {
		s.progress = p
	}
}

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session owns one player's game: score, level and the current recipe
// attempt. All state changes happen under mu, one event at a time. Speech
// output is always called after mu is released.
type Session struct {
	catalog  domain.Catalog
	log      *logger.Logger
	interval time.Duration
	picker   domain.ChallengePicker
	results  domain.ResultStore
	input    domain.SpeechInput
	output   domain.SpeechOutput
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	progress      *domain.Progress
	phase         domain.Phase
	recipe        *domain.Recipe
	timeRemaining int
	ingredients   []string
	challenges    []domain.Challenge
	listening     bool
	voiceErr      string
	sessionID     string
	startedAt     time.Time
	countdown     *timer.Countdown
	generation    uint64
	closed        bool

	subMu sync.Mutex
	subs  []chan struct{}
}

// New creates a session in the Menu phase with score 0 and level 1.
func New(catalog domain.Catalog, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		catalog:  catalog,
		log:      log,
		interval: 1 * time.Second,
		now:      time.Now,
		phase:    domain.PhaseMenu,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.picker == nil {
		s.picker = challenge.NewRandom()
	}
	if s.output == nil {
		s.output = silent{}
	}
	if s.progress == nil {
		s.progress = domain.NewProgress()
	}
	if s.input == nil {
		s.voiceErr = msgVoiceUnsupported
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// StartRecipe begins a new attempt at r, cancelling any running countdown.
// Allowed from Menu, and from Cooking where it restarts with r. A finished
// dish must go back to the menu first, so Completed returns ErrWrongPhase.
func (s *Session) StartRecipe(r domain.Recipe) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("start %q ignored: session closed", r.Name)
		return domain.ErrSessionClosed
	}
	if s.phase == domain.PhaseCompleted {
		s.mu.Unlock()
		s.log.Debug("start %q ignored: %s finished, not back at the menu", r.Name, s.recipe.Name)
		return fmt.Errorf("start %q from %s: %w", r.Name, domain.PhaseCompleted, domain.ErrWrongPhase)
	}
	line := s.startLocked(r)
	s.mu.Unlock()

	s.say(line)
	s.notify()
	return nil
}

// StartRecipeByName looks the recipe up in the catalog, ignoring case, and
// starts it.
func (s *Session) StartRecipeByName(name string) error {
	r, err := s.catalog.Recipe(name)
	if err != nil {
		return fmt.Errorf("recipe %q: %w", name, err)
	}
	return s.StartRecipe(*r)
}

// startLocked runs the Cooking entry action and returns the prompt to speak.
func (s *Session) startLocked(r domain.Recipe) string {
	if s.countdown != nil {
		s.countdown.Stop()
	}
	s.generation++
	gen := s.generation

	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.VoicePhrases = append([]string(nil), r.VoicePhrases...)
	s.recipe = &r
	s.timeRemaining = r.PreparationTime
	s.ingredients = nil
	s.challenges = s.picker.Pick()
	s.phase = domain.PhaseCooking
	s.sessionID = cuid.New()
	s.startedAt = s.now()

	s.countdown = timer.New(func() bool {
		return s.tick(gen)
	}, s.log, timer.WithTickInterval(s.interval))
	s.countdown.Start(s.ctx)

	s.log.Info("session %s: cooking %q for %ds (challenges=%v)", s.sessionID, r.Name, r.PreparationTime, s.challenges)
	return lineCookPrompt(s.recipe)
}

// tick advances the clock by one second. Ticks from a replaced countdown
// carry an old generation and are dropped. Returns false once the countdown
// should stop.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.generation || s.phase != domain.PhaseCooking {
		s.mu.Unlock()
		return false
	}

	if s.timeRemaining > 1 {
		s.timeRemaining--
		s.mu.Unlock()
		s.notify()
		return true
	}

	s.timeRemaining = 0
	s.countdown.Stop()
	line, result := s.completeLocked()
	s.mu.Unlock()

	if s.results != nil {
		if err := s.results.Record(s.ctx, result); err != nil {
			s.log.Warn("recording result %s: %v", result.SessionID, err)
		}
	}
	s.say(line)
	s.notify()
	return false
}

// completeLocked scores the attempt and enters Completed.
func (s *Session) completeLocked() (string, domain.Result) {
	bonus := challengeBonus(s.challenges, s.timeRemaining, len(s.ingredients), len(s.recipe.Ingredients))
	earned := s.recipe.Reward + bonus

	s.progress.Score += earned
	s.progress.Level++
	s.phase = domain.PhaseCompleted

	s.log.Info("session %s: completed %q, earned %d (bonus %d), score=%d level=%d",
		s.sessionID, s.recipe.Name, earned, bonus, s.progress.Score, s.progress.Level)

	result := domain.Result{
		SessionID:       s.sessionID,
		RecipeName:      s.recipe.Name,
		Reward:          s.recipe.Reward,
		Bonus:           bonus,
		Earned:          earned,
		Challenges:      append([]domain.Challenge(nil), s.challenges...),
		IngredientCount: len(s.ingredients),
		Level:           s.progress.Level,
		StartedAt:       s.startedAt,
		CompletedAt:     s.now(),
	}
	return lineCongrats(s.recipe, earned), result
}

// AddIngredient adds ing to the current attempt. Outside Cooking it does
// nothing and says nothing.
func (s *Session) AddIngredient(ing domain.Ingredient) {
	s.mu.Lock()
	line, ok := s.addLocked(ing)
	s.mu.Unlock()

	if !ok {
		return
	}
	s.say(line)
	s.notify()
}

// AddIngredientByName looks the ingredient up in the catalog, ignoring case.
func (s *Session) AddIngredientByName(name string) error {
	ing, err := s.catalog.Ingredient(name)
	if err != nil {
		return fmt.Errorf("ingredient %q: %w", name, err)
	}
	s.AddIngredient(*ing)
	return nil
}

func (s *Session) addLocked(ing domain.Ingredient) (string, bool) {
	if s.phase != domain.PhaseCooking {
		return "", false
	}
	if !s.recipe.Requires(ing.Name) {
		s.log.Debug("session %s: rejected %s", s.sessionID, ing.Name)
		return lineNotNeeded(ing.Name), true
	}
	s.ingredients = append(s.ingredients, ing.Name)
	s.log.Debug("session %s: added %s (%d so far)", s.sessionID, ing.Name, len(s.ingredients))
	return lineAdded(ing.Name), true
}

// ReturnToMenu leaves Completed for Menu. Reports whether the phase changed.
func (s *Session) ReturnToMenu() bool {
	s.mu.Lock()
	if s.phase != domain.PhaseCompleted {
		s.mu.Unlock()
		return false
	}
	s.ingredients = nil
	s.challenges = nil
	s.timeRemaining = 0
	s.phase = domain.PhaseMenu
	s.mu.Unlock()

	s.notify()
	return true
}

// Close stops the countdown and any active listening, and closes every
// Subscribe channel. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.countdown != nil {
		s.countdown.Stop()
	}
	s.generation++
	wasListening := s.listening
	s.listening = false
	s.mu.Unlock()

	if wasListening && s.input != nil {
		if err := s.input.Stop(); err != nil {
			s.log.Warn("stopping speech input: %v", err)
		}
	}
	s.cancel()

	s.subMu.Lock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.subMu.Unlock()

	s.log.Debug("session closed")
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{
		SessionID:         s.sessionID,
		Phase:             s.phase,
		Score:             s.progress.Score,
		Level:             s.progress.Level,
		TimeRemaining:     s.timeRemaining,
		PlayerIngredients: append([]string(nil), s.ingredients...),
		Challenges:        append([]domain.Challenge(nil), s.challenges...),
		Listening:         s.listening,
		VoiceError:        s.voiceErr,
	}
	if s.recipe != nil {
		r := *s.recipe
		r.Ingredients = append([]string(nil), r.Ingredients...)
		r.VoicePhrases = append([]string(nil), r.VoicePhrases...)
		snap.Recipe = &r
	}
	return snap
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce; a slow reader sees at least one pending value.
// The channel is closed by Close.
func (s *Session) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.ctx.Err() != nil {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Session) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// say hands text to speech output. Failures never reach game state.
func (s *Session) say(text string) {
	if text == "" {
		return
	}
	if err := s.output.Speak(s.ctx, text); err != nil {
		s.log.Debug("speak %q: %v", text, err)
	}
}

// silent is the speech output used when none is configured.
type silent struct{}

func (silent) Speak(context.Context, string) error { return nil }
