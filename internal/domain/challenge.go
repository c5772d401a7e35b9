package domain

// ChallengeType enumerates the per-session scoring modifiers.
type ChallengeType int

const (
	ChallengeSpeed ChallengeType = iota
	ChallengePerfectIngredients
	ChallengeNoMistakes
)

// String returns a human-readable challenge type.
func (c ChallengeType) String() string {
	switch c {
	case ChallengeSpeed:
		return "speed"
	case ChallengePerfectIngredients:
		return "perfect_ingredients"
	case ChallengeNoMistakes:
		return "no_mistakes"
	default:
		return "unknown"
	}
}

// Challenge is an optional scoring modifier chosen at session start.
type Challenge struct {
	Type        ChallengeType
	Description string
}

// ChallengesPerSession is how many challenges each session draws.
const ChallengesPerSession = 2

// AllChallenges returns the fixed challenge set in canonical order.
func AllChallenges() []Challenge {
	return []Challenge{
		{Type: ChallengeSpeed, Description: "Finish under 2 minutes"},
		{Type: ChallengePerfectIngredients, Description: "Use exact ingredients"},
		{Type: ChallengeNoMistakes, Description: "Zero ingredient drops"},
	}
}
