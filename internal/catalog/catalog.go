// Package catalog provides the compiled-in recipe and ingredient catalog.
package catalog

import (
	"strings"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// Compile-time interface check.
var _ domain.Catalog = (*Static)(nil)

// Static is the built-in catalog. It is populated once and never mutated,
// so it is safe to share between sessions and goroutines without locking.
// Callers must treat returned recipes and ingredients as read-only.
type Static struct {
	recipes     []domain.Recipe
	ingredients []domain.Ingredient
	log         *logger.Logger
}

// NewStatic creates the catalog preloaded with the built-in game content.
func NewStatic(log *logger.Logger) *Static {
	c := &Static{log: log}
	c.seed()
	return c
}

// Recipes returns all recipes in catalog order.
func (c *Static) Recipes() []domain.Recipe {
	out := make([]domain.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Ingredients returns all ingredients in catalog order.
func (c *Static) Ingredients() []domain.Ingredient {
	out := make([]domain.Ingredient, len(c.ingredients))
	copy(out, c.ingredients)
	return out
}

// Recipe returns the recipe with the given name, ignoring case.
func (c *Static) Recipe(name string) (*domain.Recipe, error) {
	for i := range c.recipes {
		if strings.EqualFold(c.recipes[i].Name, strings.TrimSpace(name)) {
			return &c.recipes[i], nil
		}
	}
	c.log.Debug("recipe not found: %s", name)
	return nil, domain.ErrNotFound
}

// Ingredient returns the ingredient with the given name, ignoring case.
func (c *Static) Ingredient(name string) (*domain.Ingredient, error) {
	for i := range c.ingredients {
		if strings.EqualFold(c.ingredients[i].Name, strings.TrimSpace(name)) {
			return &c.ingredients[i], nil
		}
	}
	c.log.Debug("ingredient not found: %s", name)
	return nil, domain.ErrNotFound
}

// SearchRecipes returns recipes whose name contains query (case-insensitive),
// in catalog order.
func (c *Static) SearchRecipes(query string) []domain.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []domain.Recipe
	for _, r := range c.recipes {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// seed populates the catalog. Order matters: voice matching takes the
// first hit.
func (c *Static) seed() {
	c.recipes = []domain.Recipe{
		{
			Name:            "Vegetable Salad",
			Ingredients:     []string{"Carrot", "Lettuce", "Tomato"},
			PreparationTime: 120,
			Difficulty:      1,
			Reward:          10,
			VoicePhrases:    []string{"make salad", "prepare salad", "create vegetable salad"},
		},
		{
			Name:            "Omelette",
			Ingredients:     []string{"Egg", "Cheese", "Onion"},
			PreparationTime: 180,
			Difficulty:      2,
			Reward:          20,
			VoicePhrases:    []string{"make omelette", "cook omelette", "prepare eggs"},
		},
		{
			Name:            "Margherita Pizza",
			Ingredients:     []string{"Dough", "Tomato Sauce", "Mozzarella"},
			PreparationTime: 300,
			Difficulty:      3,
			Reward:          30,
			VoicePhrases:    []string{"make pizza", "cook pizza", "prepare margherita"},
		},
	}

	names := []string{
		"Carrot", "Egg", "Lettuce", "Tomato", "Cheese",
		"Onion", "Dough", "Tomato Sauce", "Mozzarella",
	}
	c.ingredients = make([]domain.Ingredient, 0, len(names))
	for _, n := range names {
		lower := strings.ToLower(n)
		c.ingredients = append(c.ingredients, domain.Ingredient{
			Name:         n,
			VoicePhrases: []string{"add " + lower, lower},
		})
	}

	c.log.Debug("seeded %d recipes, %d ingredients", len(c.recipes), len(c.ingredients))
}
