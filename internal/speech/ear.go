package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

var _ domain.SpeechInput = (*Ear)(nil)

// maxRecordFailures is how many recordings in a row may fail before the
// Ear gives up and reports the error to its sink.
const maxRecordFailures = 3

// EchoGate reports whether the game is currently talking. Mouth
// implements it.
type EchoGate interface {
	Busy() bool
}

// recorder captures one chunk of audio and returns its transcription.
type recorder func(ctx context.Context, d time.Duration) (string, error)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithChunkDuration sets how long each recording lasts.
func WithChunkDuration(d time.Duration) EarOption {
	return func(e *Ear) {
		if d > 0 {
			e.chunk = d
		}
	}
}

// WithTempDir sets where whisper writes its WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithEchoGate mutes the Ear while g is busy.
func WithEchoGate(g EchoGate) EarOption {
	return func(e *Ear) { e.gate = g }
}

// WithTranscriptHook calls fn with every utterance before it reaches the
// sink.
func WithTranscriptHook(fn func(string)) EarOption {
	return func(e *Ear) { e.heard = fn }
}

// Ear is continuous speech-to-text over a local Whisper model. Every chunk
// that transcribes to something is cleaned, lowercased and delivered to the
// sink passed to Start. Recording pauses while the EchoGate is busy.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	chunk      time.Duration
	gate       EchoGate
	heard      func(string)
	log        *logger.Logger

	record     recorder
	check      func() error
	retryPause time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewEar creates a stopped Ear.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    os.TempDir(),
		chunk:      3 * time.Second,
		log:        log,
		retryPause: time.Second,
	}
	e.record = e.recordWhisper
	e.check = e.checkWhisper
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins listening. A second Start while running is a no-op.
// Fails when the whisper binary or model cannot be found.
func (e *Ear) Start(ctx context.Context, sink domain.UtteranceSink) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	if e.check != nil {
		if err := e.check(); err != nil {
			return err
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true
	go e.loop(loopCtx, cancel, sink)

	e.log.Info("ear: listening (chunk=%s)", e.chunk)
	return nil
}

// Stop cancels listening without waiting for the current chunk. Safe to
// call when stopped, including from inside the sink.
func (e *Ear) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.cancel()
	e.running = false
	e.log.Info("ear: stopped")
	return nil
}

// Running reports whether the Ear is listening.
func (e *Ear) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Ear) loop(ctx context.Context, cancel context.CancelFunc, sink domain.UtteranceSink) {
	failures := 0
	for ctx.Err() == nil {
		if e.muted() {
			sleepCtx(ctx, 200*time.Millisecond)
			continue
		}

		raw, err := e.record(ctx, e.chunk)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			failures++
			e.log.Warn("ear: recording failed (%d/%d): %v", failures, maxRecordFailures, err)
			if failures >= maxRecordFailures {
				e.mu.Lock()
				// Stop cancels under mu, so a live ctx means this loop is current.
				if ctx.Err() == nil {
					e.running = false
				}
				cancel()
				e.mu.Unlock()
				sink.OnError(err)
				return
			}
			sleepCtx(ctx, e.retryPause)
			continue
		}
		failures = 0

		// The game started talking mid-recording; the audio has its voice in it.
		if e.muted() {
			e.log.Debug("ear: discarding chunk recorded over speech")
			continue
		}

		text := strings.ToLower(cleanTranscription(raw))
		if text == "" {
			continue
		}
		e.log.Debug("ear: heard %q", text)
		if e.heard != nil {
			e.heard(text)
		}
		sink.OnUtterance(text)
	}
}

func (e *Ear) muted() bool {
	return e.gate != nil && e.gate.Busy()
}

func (e *Ear) checkWhisper() error {
	if _, err := exec.LookPath(e.whisperBin); err != nil {
		return fmt.Errorf("whisper binary %q: %w", e.whisperBin, domain.ErrSpeechUnavailable)
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return fmt.Errorf("whisper model %q: %w", e.modelPath, domain.ErrSpeechUnavailable)
	}
	return nil
}

// recordWhisper records for d and waits for whisper's transcription.
func (e *Ear) recordWhisper(ctx context.Context, d time.Duration) (string, error) {
	done := make(chan string, 1)
	verbose := e.log.GetLevel() >= logger.LevelVerbose

	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav", func(text string) {
		done <- text
	}, verbose)
	if err != nil {
		return "", fmt.Errorf("transcriber init: %w", err)
	}
	if err := t.Start(); err != nil {
		return "", fmt.Errorf("recording start: %w", err)
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()

	select {
	case text := <-done:
		return text, nil
	case <-time.After(30 * time.Second):
		return "", errors.New("transcription timed out")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

var (
	// Whisper annotations like "[BLANK_AUDIO]", "(keyboard clicking)",
	// "[Music]" or "(speaking French)".
	annotation = regexp.MustCompile(`[\(\[][A-Za-z_][A-Za-z_\s]*[\)\]]`)
	// Timestamp prefixes like "[00:00:00.000 --> 00:00:03.000]".
	timestamp = regexp.MustCompile(`\[\d{2}:\d{2}[:.\d]*\s*-->\s*\d{2}:\d{2}[:.\d]*\]`)
	spaces    = regexp.MustCompile(`\s+`)
)

// Phrases whisper invents from silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thank you":               true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"bye!":                    true,
	"the end.":                true,
}

// cleanTranscription strips whisper artifacts and returns "" for chunks
// that held nothing but noise or a known hallucination.
func cleanTranscription(s string) string {
	s = timestamp.ReplaceAllString(s, " ")
	s = annotation.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
