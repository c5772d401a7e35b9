package game

import (
	"strings"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

var restartPhrases = []string{"start over", "restart"}

const helpPhrase = "help"

// OnUtterance receives text from the speech input. Utterances that arrive
// while not listening are dropped.
func (s *Session) OnUtterance(text string) {
	s.mu.Lock()
	listening := s.listening
	s.mu.Unlock()

	if !listening {
		s.log.Debug("dropped utterance while not listening: %q", text)
		return
	}
	s.HandleUtterance(text)
}

// OnError records a runtime failure of the speech input and stops listening.
func (s *Session) OnError(err error) {
	s.mu.Lock()
	s.voiceErr = msgVoiceErrorPrefix + err.Error()
	wasListening := s.listening
	s.listening = false
	s.mu.Unlock()

	s.log.Warn("speech input: %v", err)
	if wasListening && s.input != nil {
		if stopErr := s.input.Stop(); stopErr != nil {
			s.log.Debug("stopping speech input after error: %v", stopErr)
		}
	}
	s.notify()
}

// HandleUtterance dispatches one voice command. Matching is case-insensitive
// substring containment and the first catalog match wins. At most one action
// is taken. Reports whether the utterance did anything.
func (s *Session) HandleUtterance(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	lines := s.dispatchLocked(text)
	s.mu.Unlock()

	if lines == nil {
		s.log.Debug("no command in %q", text)
		return false
	}
	for _, l := range lines {
		s.say(l)
	}
	s.notify()
	return true
}

func (s *Session) dispatchLocked(text string) []string {
	switch s.phase {
	case domain.PhaseMenu:
		recipes := s.catalog.Recipes()
		for i := range recipes {
			if recipes[i].MatchesUtterance(text) {
				prompt := s.startLocked(recipes[i])
				return []string{prompt, lineStarting(s.recipe)}
			}
		}

	case domain.PhaseCooking:
		for _, p := range restartPhrases {
			if strings.Contains(text, p) {
				prompt := s.startLocked(*s.recipe)
				return []string{prompt, lineRestarting}
			}
		}
		for _, ing := range s.catalog.Ingredients() {
			if ing.MatchesUtterance(text) {
				line, _ := s.addLocked(ing)
				return []string{line}
			}
		}
		if strings.Contains(text, helpPhrase) {
			return []string{lineHint(s.recipe)}
		}

	case domain.PhaseCompleted:
		// No voice commands until the player returns to the menu.
	}
	return nil
}

// StartListening starts the speech input. Failures land in the snapshot's
// VoiceError; listening while already listening is a no-op.
func (s *Session) StartListening() {
	s.mu.Lock()
	if s.closed || s.listening {
		s.mu.Unlock()
		return
	}
	if s.input == nil {
		s.voiceErr = msgVoiceUnavailable
		s.mu.Unlock()
		s.notify()
		return
	}
	// Claim the slot before unlocking so a concurrent call cannot start twice.
	s.listening = true
	s.mu.Unlock()

	err := s.input.Start(s.ctx, s)

	s.mu.Lock()
	// StopListening or Close may have run while Start was in flight; their
	// Stop reached an input that had not started yet.
	abandoned := err == nil && !s.listening
	switch {
	case err != nil:
		s.listening = false
		s.voiceErr = msgVoiceStartFailed
		s.log.Warn("starting speech input: %v", err)
	case abandoned:
		s.log.Debug("listening cancelled during start")
	default:
		s.voiceErr = ""
		s.log.Info("listening")
	}
	s.mu.Unlock()

	if abandoned {
		if err := s.input.Stop(); err != nil {
			s.log.Warn("stopping speech input: %v", err)
		}
	}
	s.notify()
}

// StopListening stops the speech input. Never touches phase or the
// countdown. Safe to call when already stopped.
func (s *Session) StopListening() {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return
	}
	s.listening = false
	s.mu.Unlock()

	if err := s.input.Stop(); err != nil {
		s.log.Warn("stopping speech input: %v", err)
	}
	s.log.Info("stopped listening")
	s.notify()
}

// ToggleListening flips between StartListening and StopListening.
func (s *Session) ToggleListening() {
	s.mu.Lock()
	listening := s.listening
	s.mu.Unlock()

	if listening {
		s.StopListening()
		return
	}
	s.StartListening()
}
