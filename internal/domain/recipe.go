// Package domain defines the core types and interfaces for the cooking game.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// Recipe is a static, cookable dish from the catalog.
type Recipe struct {
	Name            string
	Ingredients     []string // required ingredient names, in display order
	PreparationTime int      // whole seconds, always > 0
	Difficulty      int
	Reward          int
	VoicePhrases    []string // lowercased phrases that select this recipe
}

// Requires reports whether name is one of the recipe's ingredients.
// The comparison is exact, like the catalog keys.
func (r *Recipe) Requires(name string) bool {
	for _, ing := range r.Ingredients {
		if ing == name {
			return true
		}
	}
	return false
}

// MatchesUtterance reports whether any voice phrase is contained in text.
func (r *Recipe) MatchesUtterance(text string) bool {
	return containsAny(text, r.VoicePhrases)
}

// Ingredient is a static item the player can add to a recipe.
type Ingredient struct {
	Name         string // unique key
	VoicePhrases []string
}

// MatchesUtterance reports whether any voice phrase is contained in text.
func (i *Ingredient) MatchesUtterance(text string) bool {
	return containsAny(text, i.VoicePhrases)
}

// containsAny is substring containment, not word matching: "cheese"
// matches "cheeseburger".
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
