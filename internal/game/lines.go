package game

import (
	"fmt"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

// Spoken feedback. Every line the game says goes through here.

func lineCookPrompt(r *domain.Recipe) string {
	return fmt.Sprintf("Let's cook %s. You have %d seconds.", r.Name, r.PreparationTime)
}

func lineStarting(r *domain.Recipe) string {
	return fmt.Sprintf("Starting %s recipe", r.Name)
}

const lineRestarting = "Restarting the recipe"

func lineAdded(name string) string {
	return fmt.Sprintf("Added %s", name)
}

func lineNotNeeded(name string) string {
	return fmt.Sprintf("%s is not needed for this recipe", name)
}

func lineHint(r *domain.Recipe) string {
	return fmt.Sprintf("You are cooking %s. Add the required ingredients before time runs out.", r.Name)
}

func lineCongrats(r *domain.Recipe, earned int) string {
	return fmt.Sprintf("Congratulations! You completed %s and earned %d points.", r.Name, earned)
}

// Voice error messages stored in the snapshot.
const (
	msgVoiceUnsupported = "Speech recognition not supported"
	msgVoiceUnavailable = "Speech recognition not available"
	msgVoiceStartFailed = "Could not start speech recognition"
	msgVoiceErrorPrefix = "Speech recognition error: "
)

// FixedLines returns every line whose text is known before play starts,
// for audio prefetching. Completion lines depend on the bonus and are left
// out.
func FixedLines(c domain.Catalog) []string {
	out := []string{lineRestarting}
	recipes := c.Recipes()
	for i := range recipes {
		r := &recipes[i]
		out = append(out, lineCookPrompt(r), lineStarting(r), lineHint(r))
	}
	for _, ing := range c.Ingredients() {
		out = append(out, lineAdded(ing.Name), lineNotNeeded(ing.Name))
	}
	return out
}
