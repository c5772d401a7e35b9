package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// AudioCache keeps synthesized audio in memory and, optionally, on disk.
// Keys are sha256(voice + ":" + text), so switching voices misses cleanly.
// The disk layer is always read when a directory is set; diskWrite only
// controls whether new entries are persisted.
type AudioCache struct {
	log       *logger.Logger
	voice     string
	dir       string
	diskWrite bool

	mu      sync.RWMutex
	entries map[string][]byte
	hits    int64
	misses  int64
}

// NewAudioCache creates a cache. An empty dir disables the disk layer.
func NewAudioCache(voice, dir string, diskWrite bool, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		log:       log,
		voice:     voice,
		dir:       dir,
		diskWrite: diskWrite,
		entries:   make(map[string][]byte),
	}
	if dir != "" && diskWrite {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("audio cache: creating %s: %v", dir, err)
			c.diskWrite = false
		}
	}
	return c
}

// Get returns the audio for text, promoting disk hits into memory.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries[key]; ok {
		c.hits++
		return data, true
	}
	if c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			c.entries[key] = data
			c.hits++
			c.log.Debug("audio cache: disk hit %s", key[:12])
			return data, true
		}
	}
	c.misses++
	return nil, false
}

// Put stores audio for text.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.key(text)

	c.mu.Lock()
	c.entries[key] = audio
	c.mu.Unlock()

	if c.dir == "" || !c.diskWrite {
		return
	}
	// Write then rename so a concurrent reader never sees a partial file.
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, audio, 0o644); err != nil {
		c.log.Warn("audio cache: writing %s: %v", tmp, err)
		return
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		c.log.Warn("audio cache: renaming %s: %v", tmp, err)
	}
}

// Has reports whether text is cached in memory or on disk.
func (c *AudioCache) Has(text string) bool {
	key := c.key(text)

	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok || c.dir == "" {
		return ok
	}
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
