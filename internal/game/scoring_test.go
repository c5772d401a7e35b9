package game

import (
	"testing"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

func TestChallengeBonus(t *testing.T) {
	speed := domain.Challenge{Type: domain.ChallengeSpeed}
	perfect := domain.Challenge{Type: domain.ChallengePerfectIngredients}
	clean := domain.Challenge{Type: domain.ChallengeNoMistakes}

	tests := []struct {
		name       string
		challenges []domain.Challenge
		remaining  int
		added      int
		required   int
		want       int
	}{
		{"none", nil, 0, 0, 3, 0},
		{"no mistakes always pays", []domain.Challenge{clean}, 0, 0, 3, 5},
		{"perfect count match", []domain.Challenge{perfect}, 0, 3, 3, 10},
		{"perfect count short", []domain.Challenge{perfect}, 0, 2, 3, 0},
		{"perfect count over", []domain.Challenge{perfect}, 0, 4, 3, 0},
		{"speed at zero", []domain.Challenge{speed}, 0, 3, 3, 0},
		{"speed at threshold", []domain.Challenge{speed}, 60, 3, 3, 0},
		{"speed above threshold", []domain.Challenge{speed}, 61, 3, 3, 5},
		{"perfect and clean", []domain.Challenge{perfect, clean}, 0, 3, 3, 15},
		{"speed and clean at zero", []domain.Challenge{speed, clean}, 0, 0, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := challengeBonus(tt.challenges, tt.remaining, tt.added, tt.required)
			if got != tt.want {
				t.Fatalf("expected bonus %d, got %d", tt.want, got)
			}
		})
	}
}
