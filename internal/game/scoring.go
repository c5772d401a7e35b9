package game

import "github.com/hammamikhairi/chefchallenge/internal/domain"

// Challenge bonuses.
const (
	speedBonus            = 5
	speedThresholdSeconds = 60
	perfectBonus          = 10
	noMistakesBonus       = 5
)

// challengeBonus sums the bonus for each active challenge.
//
// Completion only happens when the clock reaches zero, so the speed bonus
// can never be earned. PerfectIngredients compares counts, not names.
// Mistakes are not tracked, so NoMistakes always pays out.
func challengeBonus(challenges []domain.Challenge, timeRemaining, added, required int) int {
	bonus := 0
	for _, c := range challenges {
		switch c.Type {
		case domain.ChallengeSpeed:
			if timeRemaining > speedThresholdSeconds {
				bonus += speedBonus
			}
		case domain.ChallengePerfectIngredients:
			if added == required {
				bonus += perfectBonus
			}
		case domain.ChallengeNoMistakes:
			bonus += noMistakesBonus
		}
	}
	return bonus
}
