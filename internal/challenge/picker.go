// Package challenge selects the bonus challenges attached to a cooking
// session.
package challenge

import (
	"math/rand"
	"sync"
	"time"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

var _ domain.ChallengePicker = (*Picker)(nil)

// Picker draws ChallengesPerSession distinct challenges per call by shuffling
// the full challenge list.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a picker with a fixed seed, for reproducible sessions.
func New(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// NewRandom returns a picker seeded from the current time.
func NewRandom() *Picker {
	return New(time.Now().UnixNano())
}

// Pick returns two distinct challenges in random order.
func (p *Picker) Pick() []domain.Challenge {
	all := domain.AllChallenges()

	p.mu.Lock()
	p.rnd.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	p.mu.Unlock()

	n := domain.ChallengesPerSession
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
