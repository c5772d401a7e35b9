package domain

import "time"

// Phase is the coarse state of a cooking session.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseCooking
	PhaseCompleted
)

// String returns a human-readable phase.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseCooking:
		return "cooking"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Progress is the score and level carried across sessions for the lifetime
// of the process. It is never written to disk.
type Progress struct {
	Score int
	Level int
}

// NewProgress returns the process-start progress: score 0, level 1.
func NewProgress() *Progress {
	return &Progress{Score: 0, Level: 1}
}

// Snapshot is a read-only copy of a session's state. Slices are copies and
// may be retained by the caller.
type Snapshot struct {
	SessionID         string
	Phase             Phase
	Score             int
	Level             int
	Recipe            *Recipe // nil until the first recipe is started
	TimeRemaining     int
	PlayerIngredients []string
	Challenges        []Challenge
	Listening         bool
	VoiceError        string // empty when there is no error
}

// Result records one completed session.
type Result struct {
	SessionID       string
	RecipeName      string
	Reward          int
	Bonus           int
	Earned          int
	Challenges      []Challenge
	IngredientCount int
	Level           int // level reached after this completion
	StartedAt       time.Time
	CompletedAt     time.Time
}
