package speech

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

var _ domain.SpeechOutput = (*Mouth)(nil)

// Synthesizer turns text into WAV bytes. AzureClient is the real one.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Voice() string
}

// AudioOutput plays WAV bytes. Play blocks until done; Stop cuts it short.
// Player is the real one.
type AudioOutput interface {
	Play(wav []byte) error
	Stop()
}

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max characters per synthesis request.
// Longer text is split at sentence ends and synthesized in parallel.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) {
		m.chunkSize = n
	}
}

// WithCacheDir enables the on-disk audio cache.
func WithCacheDir(dir string) MouthOption {
	return func(m *Mouth) {
		m.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
func WithDiskWrite(enabled bool) MouthOption {
	return func(m *Mouth) {
		m.diskWrite = enabled
	}
}

// Mouth speaks one line at a time, in the order lines were queued.
// Pipeline: queue -> chunk -> synthesize (parallel, cached) -> play.
type Mouth struct {
	synth     Synthesizer
	out       AudioOutput
	log       *logger.Logger
	cache     *AudioCache
	chunkSize int
	cacheDir  string
	diskWrite bool

	mu          sync.Mutex
	queue       []string
	wake        chan struct{}
	speaking    bool
	interrupted bool
	spoken      int
}

// NewMouth creates a speech dispatcher. Call Start to begin playback.
func NewMouth(synth Synthesizer, out AudioOutput, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		synth:     synth,
		out:       out,
		log:       log,
		chunkSize: 200,
		diskWrite: true,
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = NewAudioCache(synth.Voice(), m.cacheDir, m.diskWrite, log)
	return m
}

// Speak queues text and returns immediately.
func (m *Mouth) Speak(_ context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m.mu.Lock()
	m.queue = append(m.queue, text)
	n := len(m.queue)
	m.mu.Unlock()

	m.log.Debug("mouth: queued (queue_len=%d): %s", n, truncate(text, 60))
	select {
	case m.wake <- struct{}{}:
	default:
	}
	return nil
}

// Busy reports whether anything is playing or waiting to play. The Ear
// uses it to avoid transcribing the game's own voice.
func (m *Mouth) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking || len(m.queue) > 0
}

// Spoken returns how many lines have finished playing.
func (m *Mouth) Spoken() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spoken
}

// Interrupt drops everything queued and stops the current line.
func (m *Mouth) Interrupt() {
	m.mu.Lock()
	dropped := len(m.queue)
	m.queue = nil
	m.interrupted = true
	m.mu.Unlock()

	m.out.Stop()
	m.log.Debug("mouth: interrupted, dropped %d queued", dropped)
}

// Start launches the playback goroutine. It exits when ctx is done.
func (m *Mouth) Start(ctx context.Context) {
	go m.loop(ctx)
	m.log.Info("mouth started (voice=%s)", m.synth.Voice())
}

func (m *Mouth) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.log.Info("mouth stopped")
			return
		case <-m.wake:
			m.drain(ctx)
		}
	}
}

func (m *Mouth) drain(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		text := m.queue[0]
		m.queue = m.queue[1:]
		m.speaking = true
		m.interrupted = false
		m.mu.Unlock()

		m.say(ctx, text)

		m.mu.Lock()
		m.speaking = false
		m.spoken++
		m.mu.Unlock()
	}
}

// say synthesizes every chunk of text in parallel and plays them in order.
func (m *Mouth) say(ctx context.Context, text string) {
	chunks := m.splitChunks(text)

	audio := make([][]byte, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			data, err := m.synthesize(ctx, chunk)
			if err != nil {
				m.log.Error("mouth: synthesizing chunk %d: %v", i, err)
				return
			}
			audio[i] = data
		}(i, chunk)
	}
	wg.Wait()

	for i, data := range audio {
		if data == nil {
			continue
		}
		m.mu.Lock()
		abort := m.interrupted
		m.mu.Unlock()
		if abort || ctx.Err() != nil {
			return
		}
		if err := m.out.Play(data); err != nil {
			m.log.Error("mouth: playing chunk %d: %v", i, err)
		}
	}
}

func (m *Mouth) synthesize(ctx context.Context, text string) ([]byte, error) {
	if data, ok := m.cache.Get(text); ok {
		return data, nil
	}
	data, err := m.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Put(text, data)
	return data, nil
}

// Prefetch synthesizes texts in the background so the first Speak of each
// plays without a network round trip. Already-cached chunks are skipped.
func (m *Mouth) Prefetch(ctx context.Context, texts ...string) {
	for _, text := range texts {
		for _, chunk := range m.splitChunks(text) {
			if chunk == "" || m.cache.Has(chunk) {
				continue
			}
			go func(chunk string) {
				if _, err := m.synthesize(ctx, chunk); err != nil {
					m.log.Debug("prefetch %q: %v", truncate(chunk, 40), err)
				}
			}(chunk)
		}
	}
}

// Cache exposes the audio cache for stats.
func (m *Mouth) Cache() *AudioCache { return m.cache }

// splitChunks groups sentences into chunks of about chunkSize characters.
func (m *Mouth) splitChunks(text string) []string {
	if m.chunkSize <= 0 || len(text) <= m.chunkSize {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}
	for _, s := range splitSentences(text) {
		if cur.Len() > 0 && cur.Len()+len(s) > m.chunkSize {
			flush()
		}
		cur.WriteString(s)
	}
	flush()
	return chunks
}

// splitSentences cuts after . ! or ? and the whitespace that follows.
func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		out = append(out, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
